package repository

import (
	"context"
	"fmt"
	"time"

	"cashlog/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseRepository 消费记录数据访问
type ExpenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository 创建消费记录仓储
func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// ExpensePatch 消费记录部分更新
// ClearBudget 为 true 时取消预算关联，优先于 BudgetID
type ExpensePatch struct {
	Date        *time.Time
	Description *string
	Amount      *decimal.Decimal
	BudgetID    *uint
	ClearBudget bool
}

func (r *ExpenseRepository) query(ctx context.Context, owner Owner) *gorm.DB {
	return owner.scope(r.db.WithContext(ctx).Model(&models.Expense{}), "expenses")
}

// checkBudget 预算必须属于同一用户
func checkBudget(tx *gorm.DB, userID, budgetID uint) error {
	var count int64
	if err := tx.Model(&models.Budget{}).
		Where("id = ? AND user_id = ?", budgetID, userID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrBudgetNotOwned
	}
	return nil
}

// Create 创建消费记录
func (r *ExpenseRepository) Create(ctx context.Context, owner Owner, e *models.Expense) error {
	userID, err := owner.writer()
	if err != nil {
		return err
	}
	if e.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	e.UserID = userID

	db := r.db.WithContext(ctx)
	if e.BudgetID != nil {
		if err := checkBudget(db, userID, *e.BudgetID); err != nil {
			return err
		}
	}
	return db.Create(e).Error
}

// Get 按ID获取消费记录
func (r *ExpenseRepository) Get(ctx context.Context, owner Owner, id uint) (*models.Expense, error) {
	var e models.Expense
	if err := r.query(ctx, owner).Where("expenses.id = ?", id).First(&e).Error; err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

// List 分页查询，按日期倒序
func (r *ExpenseRepository) List(ctx context.Context, owner Owner, filter ExpenseFilter, page Page) ([]models.Expense, int64, error) {
	q := filter.apply(r.query(ctx, owner))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var expenses []models.Expense
	err := page.apply(q).
		Order("expenses.expense_date DESC, expenses.id DESC").
		Find(&expenses).Error
	if err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

// Recent 最近的 limit 条记录，按日期倒序
func (r *ExpenseRepository) Recent(ctx context.Context, owner Owner, filter ExpenseFilter, limit int) ([]models.Expense, error) {
	var expenses []models.Expense
	err := filter.apply(r.query(ctx, owner)).
		Order("expenses.expense_date DESC, expenses.id DESC").
		Limit(limit).
		Find(&expenses).Error
	return expenses, err
}

// Sum 符合条件的消费总额，无记录时为 0
func (r *ExpenseRepository) Sum(ctx context.Context, owner Owner, filter ExpenseFilter) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := filter.apply(r.query(ctx, owner)).
		Select("COALESCE(SUM(expenses.amount), 0)").
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("统计消费总额失败: %w", err)
	}
	return total, nil
}

// Update 部分更新消费记录
func (r *ExpenseRepository) Update(ctx context.Context, owner Owner, id uint, patch ExpensePatch) (*models.Expense, error) {
	userID, err := owner.writer()
	if err != nil {
		return nil, err
	}
	e, err := r.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Date != nil {
		e.Date = *patch.Date
		updates["expense_date"] = e.Date
	}
	if patch.Description != nil {
		e.Description = *patch.Description
		updates["description"] = e.Description
	}
	if patch.Amount != nil {
		if patch.Amount.IsNegative() {
			return nil, ErrNegativeAmount
		}
		e.Amount = *patch.Amount
		updates["amount"] = e.Amount
	}

	db := r.db.WithContext(ctx)
	switch {
	case patch.ClearBudget:
		e.BudgetID = nil
		updates["budget_id"] = nil
	case patch.BudgetID != nil:
		if err := checkBudget(db, userID, *patch.BudgetID); err != nil {
			return nil, err
		}
		budgetID := *patch.BudgetID
		e.BudgetID = &budgetID
		updates["budget_id"] = budgetID
	}
	if len(updates) == 0 {
		return e, nil
	}

	if err := db.Model(e).Updates(updates).Error; err != nil {
		return nil, err
	}
	return e, nil
}

// Delete 删除消费记录
func (r *ExpenseRepository) Delete(ctx context.Context, owner Owner, id uint) error {
	userID, err := owner.writer()
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Expense{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
