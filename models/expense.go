package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense 消费记录，可关联一个预算
// 删除预算时 BudgetID 置空，记录本身保留
type Expense struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UserID      uint            `json:"user_id" gorm:"index:idx_expense_user;not null"`
	Date        time.Time       `json:"expense_date" gorm:"column:expense_date;type:date;not null;index:idx_expense_date"`
	Description string          `json:"description" gorm:"size:255;not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	BudgetID    *uint           `json:"budget_id" gorm:"index:idx_expense_budget"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	User        User            `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Budget      *Budget         `json:"budget,omitempty" gorm:"foreignKey:BudgetID;constraint:OnDelete:SET NULL"`
}

// TableName 设置表名
func (Expense) TableName() string {
	return "expenses"
}

// DateLayout 日期格式
const DateLayout = "2006-01-02"

// ParseDate 按本地时区解析 YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// Day 取 t 所在时区的日期，返回本地时区零点
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// FormatDate 格式化为 YYYY-MM-DD，不做时区转换
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
