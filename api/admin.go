package api

import (
	"cashlog/database"
	"cashlog/logging"
	"cashlog/middleware"
	"cashlog/repository"

	"github.com/gin-gonic/gin"
)

// AdminHandler 管理员处理器，可查看所有用户的数据
type AdminHandler struct {
	budgets  *repository.BudgetRepository
	expenses *repository.ExpenseRepository
	users    *repository.UserRepository
	logger   *logging.Logger
}

// NewAdminHandler 创建管理员处理器
func NewAdminHandler(l *logging.Logger) *AdminHandler {
	if l == nil {
		l = logging.Discard()
	}
	return &AdminHandler{
		budgets:  repository.NewBudgetRepository(database.DB),
		expenses: repository.NewExpenseRepository(database.DB),
		users:    repository.NewUserRepository(database.DB),
		logger:   l,
	}
}

// ListBudgets 所有预算
// @Summary 所有预算（管理员）
// @Tags 管理员
// @Produce json
// @Security BearerAuth
// @Param user_id query int false "用户ID"
// @Param label query string false "标签包含"
// @Success 200 {object} Response{data=[]models.BudgetSummary} "预算列表"
// @Failure 403 {object} Response "非管理员"
// @Router /api/v1/admin/budgets [get]
func (h *AdminHandler) ListBudgets(c *gin.Context) {
	owner, err := ownerFromQuery(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	summaries, err := h.budgets.Summaries(c.Request.Context(), owner, repository.BudgetFilter{Label: c.Query("label")})
	if err != nil {
		respondRepoError(c, err, "failed to list budgets")
		return
	}
	Success(c, summaries)
}

// ListExpenses 所有消费记录
// @Summary 所有消费记录（管理员）
// @Tags 管理员
// @Produce json
// @Security BearerAuth
// @Param user_id query int false "用户ID"
// @Param date query string false "指定日期"
// @Param start query string false "开始日期"
// @Param end query string false "结束日期"
// @Param budget_id query int false "预算ID"
// @Param q query string false "描述包含"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} Response{data=PageResponse{list=[]models.Expense}} "消费记录"
// @Failure 403 {object} Response "非管理员"
// @Router /api/v1/admin/expenses [get]
func (h *AdminHandler) ListExpenses(c *gin.Context) {
	owner, err := ownerFromQuery(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	filter, err := expenseFilterFromQuery(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	page := pageFromQuery(c)

	expenses, total, err := h.expenses.List(c.Request.Context(), owner, filter, page)
	if err != nil {
		respondRepoError(c, err, "failed to list expenses")
		return
	}
	Success(c, PageResponse{
		Total:    total,
		Page:     page.Number,
		PageSize: page.Size,
		List:     expenses,
	})
}

// ListUsers 用户列表
// @Summary 用户列表（管理员）
// @Tags 管理员
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.User} "用户列表"
// @Failure 403 {object} Response "非管理员"
// @Router /api/v1/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondRepoError(c, err, "failed to list users")
		return
	}
	Success(c, users)
}

// DeleteUser 删除用户及其预算和消费记录
// @Summary 删除用户（管理员）
// @Tags 管理员
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} Response "删除成功"
// @Failure 400 {object} Response "不能删除自己"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/v1/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	currentUserID := middleware.GetCurrentUserID(c)
	if id == currentUserID {
		BadRequest(c, "cannot delete your own account")
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		respondRepoError(c, err, "failed to delete user")
		return
	}

	h.logger.Info("删除用户", logging.FieldUserID, id, "admin_id", currentUserID)
	SuccessWithMessage(c, "deleted", nil)
}
