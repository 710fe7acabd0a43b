package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget 预算：有效期内的消费上限
type Budget struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	UserID    uint            `json:"user_id" gorm:"index:idx_budget_user;not null"`
	Label     string          `json:"label" gorm:"size:120;not null"`
	StartDate time.Time       `json:"start_date" gorm:"type:date;not null;index:idx_budget_period,priority:1"`
	EndDate   time.Time       `json:"end_date" gorm:"type:date;not null;index:idx_budget_period,priority:2"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	User      User            `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName 设置表名
func (Budget) TableName() string {
	return "budgets"
}

// 预算状态
const (
	BudgetStatusOK       = "OK"
	BudgetStatusComplete = "COMPLETE"
	BudgetStatusExceeded = "EXCEEDED"
)

// Remaining 上限减去已消费
func (b *Budget) Remaining(spent decimal.Decimal) decimal.Decimal {
	return b.Amount.Sub(spent)
}

// Status 按已消费金额与上限比较得出状态
func (b *Budget) Status(spent decimal.Decimal) string {
	switch spent.Cmp(b.Amount) {
	case 1:
		return BudgetStatusExceeded
	case 0:
		return BudgetStatusComplete
	default:
		return BudgetStatusOK
	}
}

// Covers 判断某天是否在预算有效期内（两端包含）
func (b *Budget) Covers(day time.Time) bool {
	return !day.Before(b.StartDate) && !day.After(b.EndDate)
}

// BudgetSummary 预算及其派生数据
type BudgetSummary struct {
	Budget
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
	Status    string          `json:"status"`
}

// Summarize 组装预算汇总
func (b *Budget) Summarize(spent decimal.Decimal) BudgetSummary {
	return BudgetSummary{
		Budget:    *b,
		Spent:     spent,
		Remaining: b.Remaining(spent),
		Status:    b.Status(spent),
	}
}
