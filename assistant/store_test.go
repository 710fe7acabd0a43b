package assistant

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"cashlog/models"
	"cashlog/repository"

	"github.com/shopspring/decimal"
)

// fakeStore 内存实现，按 repository.ExpenseFilter 的语义过滤
type fakeStore struct {
	budgets  []models.Budget
	expenses []models.Expense
	calls    int
	err      error
}

func (s *fakeStore) owns(owner repository.Owner, userID uint) bool {
	return owner.IsEveryone() || owner.UserID() == userID
}

func (s *fakeStore) match(owner repository.Owner, f repository.ExpenseFilter, e models.Expense) bool {
	if !s.owns(owner, e.UserID) {
		return false
	}
	if f.Day != nil {
		if !e.Date.Equal(*f.Day) {
			return false
		}
	} else {
		if f.From != nil && e.Date.Before(*f.From) {
			return false
		}
		if f.To != nil {
			if f.ToExclusive && !e.Date.Before(*f.To) {
				return false
			}
			if !f.ToExclusive && e.Date.After(*f.To) {
				return false
			}
		}
	}
	if f.BudgetID != nil {
		linked := e.BudgetID != nil && *e.BudgetID == *f.BudgetID
		if !linked && !(f.OrUnbudgeted && e.BudgetID == nil) {
			return false
		}
	}
	return true
}

func (s *fakeStore) SumExpenses(_ context.Context, owner repository.Owner, f repository.ExpenseFilter) (decimal.Decimal, error) {
	s.calls++
	if s.err != nil {
		return decimal.Zero, s.err
	}
	total := decimal.Zero
	for _, e := range s.expenses {
		if s.match(owner, f, e) {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func (s *fakeStore) RecentExpenses(_ context.Context, owner repository.Owner, f repository.ExpenseFilter, limit int) ([]models.Expense, error) {
	s.calls++
	var rows []models.Expense
	for _, e := range s.expenses {
		if s.match(owner, f, e) {
			rows = append(rows, e)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.After(rows[j].Date)
		}
		return rows[i].ID > rows[j].ID
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *fakeStore) sortedBudgets(owner repository.Owner) []models.Budget {
	var out []models.Budget
	for _, b := range s.budgets {
		if s.owns(owner, b.UserID) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *fakeStore) FindBudgetByLabel(_ context.Context, owner repository.Owner, label string) (*models.Budget, error) {
	s.calls++
	for _, b := range s.sortedBudgets(owner) {
		if strings.Contains(strings.ToLower(b.Label), strings.ToLower(label)) {
			b := b
			return &b, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) FindActiveBudget(_ context.Context, owner repository.Owner, day time.Time) (*models.Budget, error) {
	s.calls++
	for _, b := range s.sortedBudgets(owner) {
		if b.Covers(day) {
			b := b
			return &b, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) BudgetSpent(ctx context.Context, owner repository.Owner, budgetID uint, f repository.ExpenseFilter) (decimal.Decimal, error) {
	f.BudgetID = &budgetID
	f.OrUnbudgeted = false
	return s.SumExpenses(ctx, owner, f)
}

var errStore = errors.New("store unavailable")
