package assistant

import (
	"cashlog/models"

	"github.com/shopspring/decimal"
)

var (
	halfRatio = decimal.NewFromFloat(0.5)
	warnRatio = decimal.NewFromFloat(0.8)
)

// Advise 根据已消费金额和预算给出一句建议
func Advise(spent decimal.Decimal, budget *models.Budget) string {
	if budget == nil {
		if spent.IsZero() {
			return "No budget linked and no expenses: a clean start."
		}
		return "No budget linked: create or attach a budget to track what is left."
	}

	remaining := budget.Remaining(spent)
	switch {
	case remaining.IsNegative():
		return "You have exceeded the budget: cut non-essential spending and review the envelope."
	case remaining.IsZero():
		return "Budget reached exactly. Avoid any further spending on this budget."
	}

	ratio := decimal.Zero
	if !budget.Amount.IsZero() {
		ratio = spent.Div(budget.Amount)
	}
	switch {
	case ratio.LessThan(halfRatio):
		return "You are below 50%: good pace, keep prioritising essentials."
	case ratio.LessThan(warnRatio):
		return "Careful, you are approaching 80%: watch the small impulse purchases."
	default:
		return "You are beyond 80% of the budget: slow down and plan the next expenses."
	}
}
