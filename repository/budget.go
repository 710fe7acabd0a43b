package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cashlog/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetRepository 预算数据访问
type BudgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository 创建预算仓储
func NewBudgetRepository(db *gorm.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

// BudgetFilter 预算筛选条件
type BudgetFilter struct {
	Label    string     // 标签包含（不区分大小写）
	ActiveOn *time.Time // 覆盖该日期
}

// BudgetPatch 预算部分更新，nil 字段保持不变
type BudgetPatch struct {
	Label     *string
	StartDate *time.Time
	EndDate   *time.Time
	Amount    *decimal.Decimal
}

func validateBudget(b *models.Budget) error {
	if b.EndDate.Before(b.StartDate) {
		return ErrInvalidPeriod
	}
	if b.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

func (r *BudgetRepository) query(ctx context.Context, owner Owner) *gorm.DB {
	return owner.scope(r.db.WithContext(ctx).Model(&models.Budget{}), "budgets")
}

// Create 创建预算，归属 owner
func (r *BudgetRepository) Create(ctx context.Context, owner Owner, b *models.Budget) error {
	userID, err := owner.writer()
	if err != nil {
		return err
	}
	if err := validateBudget(b); err != nil {
		return err
	}
	b.UserID = userID
	return r.db.WithContext(ctx).Create(b).Error
}

// Get 按ID获取预算
func (r *BudgetRepository) Get(ctx context.Context, owner Owner, id uint) (*models.Budget, error) {
	var b models.Budget
	if err := r.query(ctx, owner).Where("budgets.id = ?", id).First(&b).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

// List 预算列表，按开始日期倒序
func (r *BudgetRepository) List(ctx context.Context, owner Owner, filter BudgetFilter) ([]models.Budget, error) {
	q := r.query(ctx, owner)
	if filter.ActiveOn != nil {
		q = q.Where("budgets.start_date <= ? AND budgets.end_date >= ?", *filter.ActiveOn, *filter.ActiveOn)
	}

	var budgets []models.Budget
	if err := q.Order("budgets.start_date DESC, budgets.id DESC").Find(&budgets).Error; err != nil {
		return nil, err
	}

	label := strings.ToLower(strings.TrimSpace(filter.Label))
	if label == "" {
		return budgets, nil
	}
	matched := make([]models.Budget, 0, len(budgets))
	for _, b := range budgets {
		if strings.Contains(strings.ToLower(b.Label), label) {
			matched = append(matched, b)
		}
	}
	return matched, nil
}

// Update 部分更新预算
func (r *BudgetRepository) Update(ctx context.Context, owner Owner, id uint, patch BudgetPatch) (*models.Budget, error) {
	if _, err := owner.writer(); err != nil {
		return nil, err
	}
	b, err := r.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Label != nil {
		b.Label = *patch.Label
		updates["label"] = b.Label
	}
	if patch.StartDate != nil {
		b.StartDate = *patch.StartDate
		updates["start_date"] = b.StartDate
	}
	if patch.EndDate != nil {
		b.EndDate = *patch.EndDate
		updates["end_date"] = b.EndDate
	}
	if patch.Amount != nil {
		b.Amount = *patch.Amount
		updates["amount"] = b.Amount
	}
	if err := validateBudget(b); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return b, nil
	}

	if err := r.db.WithContext(ctx).Model(b).Updates(updates).Error; err != nil {
		return nil, err
	}
	return b, nil
}

// Delete 删除预算，关联的消费记录改为未关联
func (r *BudgetRepository) Delete(ctx context.Context, owner Owner, id uint) error {
	userID, err := owner.writer()
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Expense{}).
			Where("budget_id = ? AND user_id = ?", id, userID).
			Update("budget_id", nil).Error; err != nil {
			return err
		}
		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Budget{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// FindByLabel 按标签模糊查找，多个匹配时取开始日期最晚的一个
// 未找到返回 nil, nil
func (r *BudgetRepository) FindByLabel(ctx context.Context, owner Owner, label string) (*models.Budget, error) {
	if strings.TrimSpace(label) == "" {
		return nil, nil
	}
	budgets, err := r.List(ctx, owner, BudgetFilter{Label: label})
	if err != nil || len(budgets) == 0 {
		return nil, err
	}
	return &budgets[0], nil
}

// FindActive 查找覆盖 day 的预算，多个时取开始日期最晚的一个
// 未找到返回 nil, nil
func (r *BudgetRepository) FindActive(ctx context.Context, owner Owner, day time.Time) (*models.Budget, error) {
	var budgets []models.Budget
	err := r.query(ctx, owner).
		Where("budgets.start_date <= ? AND budgets.end_date >= ?", day, day).
		Order("budgets.start_date DESC, budgets.id DESC").
		Limit(1).
		Find(&budgets).Error
	if err != nil || len(budgets) == 0 {
		return nil, err
	}
	return &budgets[0], nil
}

type budgetSpent struct {
	BudgetID uint
	Spent    decimal.Decimal
}

// SpentByBudget 统计每个预算已关联的消费总额，不在结果中的预算为 0
func (r *BudgetRepository) SpentByBudget(ctx context.Context, owner Owner, ids []uint) (map[uint]decimal.Decimal, error) {
	spent := make(map[uint]decimal.Decimal, len(ids))
	if len(ids) == 0 {
		return spent, nil
	}

	var rows []budgetSpent
	err := owner.scope(r.db.WithContext(ctx).Model(&models.Expense{}), "expenses").
		Select("expenses.budget_id AS budget_id, COALESCE(SUM(expenses.amount), 0) AS spent").
		Where("expenses.budget_id IN ?", ids).
		Group("expenses.budget_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("统计预算消费失败: %w", err)
	}
	for _, row := range rows {
		spent[row.BudgetID] = row.Spent
	}
	return spent, nil
}

// Spent 预算已关联消费的总额，filter 中的预算条件被忽略
func (r *BudgetRepository) Spent(ctx context.Context, owner Owner, budgetID uint, filter ExpenseFilter) (decimal.Decimal, error) {
	filter.BudgetID = &budgetID
	filter.OrUnbudgeted = false

	var total decimal.Decimal
	err := filter.apply(owner.scope(r.db.WithContext(ctx).Model(&models.Expense{}), "expenses")).
		Select("COALESCE(SUM(expenses.amount), 0)").
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("统计预算消费失败: %w", err)
	}
	return total, nil
}

// Summaries 预算列表附带已花费、剩余和状态
func (r *BudgetRepository) Summaries(ctx context.Context, owner Owner, filter BudgetFilter) ([]models.BudgetSummary, error) {
	budgets, err := r.List(ctx, owner, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(budgets))
	for _, b := range budgets {
		ids = append(ids, b.ID)
	}
	spent, err := r.SpentByBudget(ctx, owner, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.BudgetSummary, 0, len(budgets))
	for _, b := range budgets {
		summaries = append(summaries, b.Summarize(spent[b.ID]))
	}
	return summaries, nil
}

// Summary 单个预算的汇总
func (r *BudgetRepository) Summary(ctx context.Context, owner Owner, id uint) (*models.BudgetSummary, error) {
	b, err := r.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	spent, err := r.SpentByBudget(ctx, owner, []uint{b.ID})
	if err != nil {
		return nil, err
	}
	s := b.Summarize(spent[b.ID])
	return &s, nil
}
