package assistant

import (
	"context"
	"regexp"
	"strings"
	"time"

	"cashlog/models"
	"cashlog/repository"
)

// BudgetRef 文本中引用的预算
// Named 表示通过引号中的名称找到，此时查询限定为该预算或未关联预算的消费
type BudgetRef struct {
	Budget *models.Budget
	Named  bool
}

var quotedLabelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)budget\s+"([^"]+)"`),
	regexp.MustCompile(`(?i)budget\s+'([^']+)'`),
}

// QuotedLabel 提取 budget "xxx" 或 budget 'xxx' 中的名称
func QuotedLabel(text string) (string, bool) {
	for _, re := range quotedLabelPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func (e *Evaluator) resolveBudget(ctx context.Context, text string, owner repository.Owner, today time.Time) (BudgetRef, error) {
	if !strings.Contains(strings.ToLower(text), "budget") {
		return BudgetRef{}, nil
	}

	if label, ok := QuotedLabel(text); ok {
		b, err := e.store.FindBudgetByLabel(ctx, owner, label)
		if err != nil {
			return BudgetRef{}, err
		}
		return BudgetRef{Budget: b, Named: b != nil}, nil
	}

	b, err := e.store.FindActiveBudget(ctx, owner, today)
	if err != nil {
		return BudgetRef{}, err
	}
	return BudgetRef{Budget: b}, nil
}
