package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cashlog/logging"
	"cashlog/models"
	"cashlog/repository"

	"github.com/shopspring/decimal"
)

// 固定回复
const (
	PromptReply   = "Tell me what you want to know (e.g. total today, this month, between two dates, remaining on a budget…)."
	HelpReply     = `What would you like to know? Examples: "total today", "list between 2025-10-01 and 2025-10-15", "budget remaining", "budget \"groceries\""`
	NoBudgetReply = `I couldn't identify a specific budget. Name one, e.g. budget "groceries".`
)

// DefaultListLimit 列表最多返回的条数
const DefaultListLimit = 50

// Store 助手需要的只读查询
type Store interface {
	SumExpenses(ctx context.Context, owner repository.Owner, filter repository.ExpenseFilter) (decimal.Decimal, error)
	RecentExpenses(ctx context.Context, owner repository.Owner, filter repository.ExpenseFilter, limit int) ([]models.Expense, error)
	FindBudgetByLabel(ctx context.Context, owner repository.Owner, label string) (*models.Budget, error)
	FindActiveBudget(ctx context.Context, owner repository.Owner, day time.Time) (*models.Budget, error)
	BudgetSpent(ctx context.Context, owner repository.Owner, budgetID uint, filter repository.ExpenseFilter) (decimal.Decimal, error)
}

// Item 列表中的一条消费
type Item struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
}

// MarshalJSON 输出 {date_depense, objet, montant}
func (i Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date        string `json:"date_depense"`
		Description string `json:"objet"`
		Amount      string `json:"montant"`
	}{
		Date:        models.FormatDate(i.Date),
		Description: i.Description,
		Amount:      i.Amount.StringFixed(2),
	})
}

// Reply 助手回复，Items 始终不为 nil
type Reply struct {
	Text  string `json:"reply"`
	Items []Item `json:"items"`
}

// Evaluator 把一句话转换成按用户过滤的查询并组织回复
type Evaluator struct {
	store     Store
	currency  string
	listLimit int
	now       func() time.Time
	logger    *logging.Logger
}

// Option 配置项
type Option func(*Evaluator)

// WithCurrency 金额后缀
func WithCurrency(currency string) Option {
	return func(e *Evaluator) { e.currency = currency }
}

// WithListLimit 列表条数上限，超出 [1, 50] 时使用 50
func WithListLimit(limit int) Option {
	return func(e *Evaluator) { e.listLimit = limit }
}

// WithClock 替换当前时间，测试使用
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) { e.now = now }
}

// WithLogger 设置日志
func WithLogger(l *logging.Logger) Option {
	return func(e *Evaluator) { e.logger = l }
}

// NewEvaluator 创建助手
func NewEvaluator(store Store, opts ...Option) *Evaluator {
	e := &Evaluator{
		store:     store,
		currency:  "FCFA",
		listLimit: DefaultListLimit,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.listLimit <= 0 || e.listLimit > DefaultListLimit {
		e.listLimit = DefaultListLimit
	}
	if e.logger == nil {
		e.logger = logging.Discard()
	}
	return e
}

// Evaluate 回答 owner 的问题
func (e *Evaluator) Evaluate(ctx context.Context, text string, owner repository.Owner) (Reply, error) {
	msg := strings.TrimSpace(text)
	if msg == "" {
		return Reply{Text: PromptReply, Items: []Item{}}, nil
	}

	low := strings.ToLower(msg)
	today := models.Day(e.now())

	period := ParsePeriod(low, today)
	ref, err := e.resolveBudget(ctx, msg, owner, today)
	if err != nil {
		return Reply{}, fmt.Errorf("查找预算失败: %w", err)
	}
	intents := ClassifyIntents(low)

	e.logger.Debug("助手请求",
		logging.FieldUserID, owner.UserID(),
		"period_kind", period.Kind,
		"budget_named", ref.Named,
		"list", intents.List,
		"total", intents.Total,
		"remaining", intents.Remaining,
	)

	filter := period.Filter()
	if ref.Named {
		id := ref.Budget.ID
		filter.BudgetID = &id
		filter.OrUnbudgeted = true
	}

	total, err := e.store.SumExpenses(ctx, owner, filter)
	if err != nil {
		return Reply{}, fmt.Errorf("统计消费失败: %w", err)
	}

	items := []Item{}
	if intents.List {
		rows, err := e.store.RecentExpenses(ctx, owner, filter, e.listLimit)
		if err != nil {
			return Reply{}, fmt.Errorf("查询消费列表失败: %w", err)
		}
		for _, row := range rows {
			items = append(items, Item{Date: row.Date, Description: row.Description, Amount: row.Amount})
		}
	}

	periodText := period.Describe(low)
	var lines []string

	if intents.WantsTotal() {
		lines = append(lines, fmt.Sprintf("Total spent %s: **%s** %s.", periodText, FormatMoney(total), e.currency))
	}

	if intents.Remaining {
		if ref.Budget == nil {
			lines = append(lines, NoBudgetReply)
		} else {
			b := ref.Budget
			spent, err := e.store.BudgetSpent(ctx, owner, b.ID, period.Filter())
			if err != nil {
				return Reply{}, fmt.Errorf("统计预算消费失败: %w", err)
			}
			lines = append(lines,
				fmt.Sprintf("Budget **%s** (%s → %s) - spent: **%s** %s, remaining: **%s** %s.",
					b.Label, models.FormatDate(b.StartDate), models.FormatDate(b.EndDate),
					FormatMoney(spent), e.currency, FormatMoney(b.Remaining(spent)), e.currency),
				Advise(spent, b),
			)
		}
	}

	if intents.List {
		if len(items) > 0 {
			lines = append(lines, fmt.Sprintf("Here are up to %d rows %s (most recent first).", e.listLimit, periodText))
		} else {
			lines = append(lines, fmt.Sprintf("No expenses found %s.", periodText))
		}
	}

	if len(lines) == 0 {
		return Reply{Text: HelpReply, Items: items}, nil
	}
	return Reply{Text: strings.Join(lines, "\n"), Items: items}, nil
}
