package repository

import (
	"context"
	"time"

	"cashlog/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger 组合预算和消费记录仓储，供助手查询使用
type Ledger struct {
	Budgets  *BudgetRepository
	Expenses *ExpenseRepository
}

// NewLedger 基于同一个连接创建
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{
		Budgets:  NewBudgetRepository(db),
		Expenses: NewExpenseRepository(db),
	}
}

func (l *Ledger) SumExpenses(ctx context.Context, owner Owner, filter ExpenseFilter) (decimal.Decimal, error) {
	return l.Expenses.Sum(ctx, owner, filter)
}

func (l *Ledger) RecentExpenses(ctx context.Context, owner Owner, filter ExpenseFilter, limit int) ([]models.Expense, error) {
	return l.Expenses.Recent(ctx, owner, filter, limit)
}

func (l *Ledger) FindBudgetByLabel(ctx context.Context, owner Owner, label string) (*models.Budget, error) {
	return l.Budgets.FindByLabel(ctx, owner, label)
}

func (l *Ledger) FindActiveBudget(ctx context.Context, owner Owner, day time.Time) (*models.Budget, error) {
	return l.Budgets.FindActive(ctx, owner, day)
}

func (l *Ledger) BudgetSpent(ctx context.Context, owner Owner, budgetID uint, filter ExpenseFilter) (decimal.Decimal, error) {
	return l.Budgets.Spent(ctx, owner, budgetID, filter)
}
