package api

import (
	"cashlog/database"
	"cashlog/logging"
	"cashlog/middleware"
	"cashlog/models"
	"cashlog/repository"
	"cashlog/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ExpenseHandler 消费记录处理器
type ExpenseHandler struct {
	expenses *repository.ExpenseRepository
	alerter  *service.Alerter
	logger   *logging.Logger
}

// NewExpenseHandler 创建消费记录处理器，alerter 可为 nil
func NewExpenseHandler(alerter *service.Alerter, l *logging.Logger) *ExpenseHandler {
	if l == nil {
		l = logging.Discard()
	}
	return &ExpenseHandler{
		expenses: repository.NewExpenseRepository(database.DB),
		alerter:  alerter,
		logger:   l,
	}
}

// CreateExpenseRequest 创建消费记录请求
type CreateExpenseRequest struct {
	Date        string           `json:"expense_date" binding:"required,datetime=2006-01-02" example:"2025-10-15"`
	Description string           `json:"description" binding:"required,max=255" example:"Lunch"`
	Amount      *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"3500.00"`
	BudgetID    *uint            `json:"budget_id" example:"1"`
}

// UpdateExpenseRequest 更新消费记录请求
// clear_budget 为 true 时取消预算关联
type UpdateExpenseRequest struct {
	Date        *string          `json:"expense_date" binding:"omitempty,datetime=2006-01-02"`
	Description *string          `json:"description" binding:"omitempty,max=255"`
	Amount      *decimal.Decimal `json:"amount" swaggertype:"string"`
	BudgetID    *uint            `json:"budget_id"`
	ClearBudget bool             `json:"clear_budget"`
}

// Create 创建消费记录
// @Summary 创建消费记录
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateExpenseRequest true "消费记录"
// @Success 200 {object} Response{data=models.Expense} "创建成功"
// @Failure 400 {object} Response "请求参数错误或预算不存在"
// @Router /api/v1/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	date, _ := models.ParseDate(req.Date)
	expense := models.Expense{
		Date:        date,
		Description: req.Description,
		Amount:      *req.Amount,
		BudgetID:    req.BudgetID,
	}

	ctx := c.Request.Context()
	owner := repository.ForUser(middleware.GetCurrentUserID(c))
	before := h.alerter.Status(ctx, owner, expense.BudgetID)
	if err := h.expenses.Create(ctx, owner, &expense); err != nil {
		respondRepoError(c, err, "failed to create expense")
		return
	}
	h.alerter.Check(ctx, owner, expense.BudgetID, before)

	h.logger.Info("创建消费记录",
		logging.FieldUserID, owner.UserID(),
		logging.FieldExpenseID, expense.ID,
	)
	SuccessWithMessage(c, "created", expense)
}

// List 消费记录列表
// @Summary 消费记录列表
// @Description 按日期倒序分页，start 和 end 包含当天
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param date query string false "指定日期 (2025-10-15)"
// @Param start query string false "开始日期"
// @Param end query string false "结束日期"
// @Param budget_id query int false "预算ID"
// @Param q query string false "描述包含"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} Response{data=PageResponse{list=[]models.Expense}} "消费记录"
// @Router /api/v1/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	filter, err := expenseFilterFromQuery(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	page := pageFromQuery(c)

	owner := repository.ForUser(middleware.GetCurrentUserID(c))
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

// Get 消费记录详情
// @Summary 消费记录详情
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "消费记录ID"
// @Success 200 {object} Response{data=models.Expense} "消费记录"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	owner := repository.ForUser(middleware.GetCurrentUserID(c))
	expense, err := h.expenses.Get(c.Request.Context(), owner, id)
	if err != nil {
		respondRepoError(c, err, "failed to load expense")
		return
	}
	Success(c, expense)
}

// Update 更新消费记录
// @Summary 更新消费记录
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "消费记录ID"
// @Param request body UpdateExpenseRequest true "需要修改的字段"
// @Success 200 {object} Response{data=models.Expense} "更新成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	patch := repository.ExpensePatch{
		Description: req.Description,
		Amount:      req.Amount,
		BudgetID:    req.BudgetID,
		ClearBudget: req.ClearBudget,
	}
	if req.Date != nil {
		d, _ := models.ParseDate(*req.Date)
		patch.Date = &d
	}

	ctx := c.Request.Context()
	owner := repository.ForUser(middleware.GetCurrentUserID(c))

	// 只关心写入后关联的预算
	watched := req.BudgetID
	if h.alerter.Enabled() && watched == nil && !req.ClearBudget {
		if current, err := h.expenses.Get(ctx, owner, id); err == nil {
			watched = current.BudgetID
		}
	}
	before := h.alerter.Status(ctx, owner, watched)

	expense, err := h.expenses.Update(ctx, owner, id, patch)
	if err != nil {
		respondRepoError(c, err, "failed to update expense")
		return
	}
	h.alerter.Check(ctx, owner, expense.BudgetID, before)

	SuccessWithMessage(c, "updated", expense)
}

// Delete 删除消费记录
// @Summary 删除消费记录
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "消费记录ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	owner := repository.ForUser(middleware.GetCurrentUserID(c))
	if err := h.expenses.Delete(c.Request.Context(), owner, id); err != nil {
		respondRepoError(c, err, "failed to delete expense")
		return
	}
	SuccessWithMessage(c, "deleted", nil)
}
