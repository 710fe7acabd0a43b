package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// ExpenseFilter 消费记录筛选条件
// Day 优先于 From/To；To 默认包含当天，ToExclusive 时为开区间
type ExpenseFilter struct {
	Day          *time.Time
	From         *time.Time
	To           *time.Time
	ToExclusive  bool
	BudgetID     *uint
	OrUnbudgeted bool // 与 BudgetID 一起使用：同时包含未关联预算的记录
	Search       string
}

func (f ExpenseFilter) apply(db *gorm.DB) *gorm.DB {
	if f.Day != nil {
		db = db.Where("expenses.expense_date = ?", *f.Day)
	} else {
		if f.From != nil {
			db = db.Where("expenses.expense_date >= ?", *f.From)
		}
		if f.To != nil {
			if f.ToExclusive {
				db = db.Where("expenses.expense_date < ?", *f.To)
			} else {
				db = db.Where("expenses.expense_date <= ?", *f.To)
			}
		}
	}

	if f.BudgetID != nil {
		if f.OrUnbudgeted {
			db = db.Where("(expenses.budget_id = ? OR expenses.budget_id IS NULL)", *f.BudgetID)
		} else {
			db = db.Where("expenses.budget_id = ?", *f.BudgetID)
		}
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		db = db.Where("LOWER(expenses.description) LIKE ?", "%"+escapeLikeValue(strings.ToLower(s))+"%")
	}
	return db
}

// Page 分页参数，Size 为 0 表示不分页
type Page struct {
	Number int
	Size   int
}

// Normalize 默认第 1 页，每页 10 条，最多 100 条
func (p Page) Normalize() Page {
	if p.Number <= 0 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = 10
	}
	if p.Size > 100 {
		p.Size = 100
	}
	return p
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	if p.Size <= 0 {
		return db
	}
	number := p.Number
	if number <= 0 {
		number = 1
	}
	return db.Offset((number - 1) * p.Size).Limit(p.Size)
}

// escapeLikeValue 转义 LIKE 通配符
func escapeLikeValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
