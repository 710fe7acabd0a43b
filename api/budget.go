package api

import (
	"cashlog/database"
	"cashlog/middleware"
	"cashlog/models"
	"cashlog/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// BudgetHandler 预算处理器
type BudgetHandler struct {
	budgets *repository.BudgetRepository
}

// NewBudgetHandler 创建预算处理器
func NewBudgetHandler() *BudgetHandler {
	return &BudgetHandler{budgets: repository.NewBudgetRepository(database.DB)}
}

// CreateBudgetRequest 创建预算请求
type CreateBudgetRequest struct {
	Label     string           `json:"label" binding:"required,max=120" example:"Groceries"`
	StartDate string           `json:"start_date" binding:"required,datetime=2006-01-02" example:"2025-10-01"`
	EndDate   string           `json:"end_date" binding:"required,datetime=2006-01-02" example:"2025-10-31"`
	Amount    *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"150000.00"`
}

// UpdateBudgetRequest 更新预算请求，省略的字段保持不变
type UpdateBudgetRequest struct {
	Label     *string          `json:"label" binding:"omitempty,max=120"`
	StartDate *string          `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   *string          `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Amount    *decimal.Decimal `json:"amount" swaggertype:"string"`
}

// Create 创建预算
// @Summary 创建预算
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBudgetRequest true "预算"
// @Success 200 {object} Response{data=models.Budget} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	start, _ := models.ParseDate(req.StartDate)
	end, _ := models.ParseDate(req.EndDate)
	budget := models.Budget{
		Label:     req.Label,
		StartDate: start,
		EndDate:   end,
		Amount:    *req.Amount,
	}

	owner := repository.ForUser(middleware.GetCurrentUserID(c))
	if err := h.budgets.Create(c.Request.Context(), owner, &budget); err != nil {
		respondRepoError(c, err, "failed to create budget")
		return
	}
	SuccessWithMessage(c, "created", budget)
}

// List 预算列表
// @Summary 预算列表
// @Description 按开始日期倒序，附带已花费、剩余和状态
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Param label query string false "标签包含"
// @Param active_on query string false "覆盖该日期 (2025-10-15)"
// @Success 200 {object} Response{data=[]models.BudgetSummary} "预算列表"
// @Router /api/v1/budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	activeOn, err := queryDate(c, "active_on")
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	owner := repository.ForUser(middleware.GetCurrentUserID(c))
	summaries, err := h.budgets.Summaries(c.Request.Context(), owner, repository.BudgetFilter{
		Label:    c.Query("label"),
		ActiveOn: activeOn,
	})
	if err != nil {
		respondRepoError(c, err, "failed to list budgets")
		return
	}
	Success(c, summaries)
}

// Get 预算详情
// @Summary 预算详情
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Param id path int true "预算ID"
// @Success 200 {object} Response{data=models.BudgetSummary} "预算"
// @Failure 404 {object} Response "预算不存在"
// @Router /api/v1/budgets/{id} [get]
func (h *BudgetHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	owner := repository.ForUser(middleware.GetCurrentUserID(c))
	summary, err := h.budgets.Summary(c.Request.Context(), owner, id)
	if err != nil {
		respondRepoError(c, err, "failed to load budget")
		return
	}
	Success(c, summary)
}

// Update 更新预算
// @Summary 更新预算
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "预算ID"
// @Param request body UpdateBudgetRequest true "需要修改的字段"
// @Success 200 {object} Response{data=models.Budget} "更新成功"
// @Failure 404 {object} Response "预算不存在"
// @Router /api/v1/budgets/{id} [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	patch := repository.BudgetPatch{Label: req.Label, Amount: req.Amount}
	if req.StartDate != nil {
		d, _ := models.ParseDate(*req.StartDate)
		patch.StartDate = &d
	}
	if req.EndDate != nil {
		d, _ := models.ParseDate(*req.EndDate)
		patch.EndDate = &d
	}

	owner := repository.ForUser(middleware.GetCurrentUserID(c))
	budget, err := h.budgets.Update(c.Request.Context(), owner, id, patch)
	if err != nil {
		respondRepoError(c, err, "failed to update budget")
		return
	}
	SuccessWithMessage(c, "updated", budget)
}

// Delete 删除预算
// @Summary 删除预算
// @Description 关联的消费记录保留，改为未关联预算
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Param id path int true "预算ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "预算不存在"
// @Router /api/v1/budgets/{id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	owner := repository.ForUser(middleware.GetCurrentUserID(c))
	if err := h.budgets.Delete(c.Request.Context(), owner, id); err != nil {
		respondRepoError(c, err, "failed to delete budget")
		return
	}
	SuccessWithMessage(c, "deleted", nil)
}
