package api

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"cashlog/models"
	"cashlog/repository"

	"github.com/gin-gonic/gin"
)

// respondRepoError 把仓储错误映射为响应
func respondRepoError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, "record not found")
	case errors.Is(err, repository.ErrBudgetNotOwned):
		BadRequest(c, "budget not found")
	case errors.Is(err, repository.ErrInvalidPeriod),
		errors.Is(err, repository.ErrNegativeAmount):
		BadRequest(c, err.Error())
	case errors.Is(err, repository.ErrNoOwner):
		Forbidden(c, "a concrete user is required")
	default:
		InternalError(c, SafeErrorMessage(err, fallback))
	}
}

// pathID 解析路径中的 :id
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// queryDate 解析 YYYY-MM-DD 查询参数，参数为空时返回 nil
func queryDate(c *gin.Context, key string) (*time.Time, error) {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil, nil
	}
	d, err := models.ParseDate(v)
	if err != nil {
		return nil, errors.New(key + " must be YYYY-MM-DD")
	}
	return &d, nil
}

// queryUint 解析无符号整数查询参数，参数为空时返回 nil
func queryUint(c *gin.Context, key string) (*uint, error) {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return nil, errors.New(key + " must be a positive integer")
	}
	id := uint(n)
	return &id, nil
}

// expenseFilterFromQuery 读取 date、start、end、budget_id、q
// start 和 end 都包含当天
func expenseFilterFromQuery(c *gin.Context) (repository.ExpenseFilter, error) {
	var (
		f   repository.ExpenseFilter
		err error
	)
	if f.Day, err = queryDate(c, "date"); err != nil {
		return f, err
	}
	if f.From, err = queryDate(c, "start"); err != nil {
		return f, err
	}
	if f.To, err = queryDate(c, "end"); err != nil {
		return f, err
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, repository.ErrInvalidPeriod
	}
	if f.BudgetID, err = queryUint(c, "budget_id"); err != nil {
		return f, err
	}
	f.Search = c.Query("q")
	return f, nil
}

// pageFromQuery 读取 page、page_size
func pageFromQuery(c *gin.Context) repository.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	return repository.Page{Number: page, Size: size}.Normalize()
}

// ownerFromQuery 管理员接口可用 user_id 限定用户
func ownerFromQuery(c *gin.Context) (repository.Owner, error) {
	userID, err := queryUint(c, "user_id")
	if err != nil {
		return repository.Owner{}, err
	}
	if userID != nil {
		return repository.ForUser(*userID), nil
	}
	return repository.Everyone(), nil
}
