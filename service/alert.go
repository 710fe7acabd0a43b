package service

import (
	"context"
	"time"

	"cashlog/logging"
	"cashlog/models"
	"cashlog/repository"

	"github.com/shopspring/decimal"
)

// Alert 预算状态变为 COMPLETE 或 EXCEEDED 时发出的提醒
type Alert struct {
	UserID    uint            `json:"user_id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	BudgetID  uint            `json:"budget_id"`
	Label     string          `json:"label"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	Status    string          `json:"status"`
	Spent     decimal.Decimal `json:"spent"`
	Cap       decimal.Decimal `json:"cap"`
	At        time.Time       `json:"at"`
}

// Notifier 提醒渠道
type Notifier interface {
	Name() string
	Notify(ctx context.Context, alert Alert) error
}

// BudgetSummaries 读取预算汇总
type BudgetSummaries interface {
	Summary(ctx context.Context, owner repository.Owner, id uint) (*models.BudgetSummary, error)
}

// UserReader 读取用户
type UserReader interface {
	Get(ctx context.Context, id uint) (*models.User, error)
}

// Alerter 比较写操作前后的预算状态，状态变差时通知所有渠道
// 渠道失败只记录日志
type Alerter struct {
	budgets   BudgetSummaries
	users     UserReader
	notifiers []Notifier
	logger    *logging.Logger
	now       func() time.Time
}

// NewAlerter 创建提醒服务，notifiers 为空时不做任何事
func NewAlerter(budgets BudgetSummaries, users UserReader, l *logging.Logger, notifiers ...Notifier) *Alerter {
	if l == nil {
		l = logging.Discard()
	}
	return &Alerter{
		budgets:   budgets,
		users:     users,
		notifiers: notifiers,
		logger:    l,
		now:       time.Now,
	}
}

var statusRank = map[string]int{
	models.BudgetStatusOK:       0,
	models.BudgetStatusComplete: 1,
	models.BudgetStatusExceeded: 2,
}

// Enabled 是否配置了任何通知渠道
func (a *Alerter) Enabled() bool {
	return a != nil && len(a.notifiers) > 0
}

// Status 当前状态，budgetID 为空或查询失败时返回空串
func (a *Alerter) Status(ctx context.Context, owner repository.Owner, budgetID *uint) string {
	if !a.Enabled() || budgetID == nil {
		return ""
	}
	s, err := a.budgets.Summary(ctx, owner, *budgetID)
	if err != nil {
		a.logger.Warn("读取预算状态失败", logging.FieldBudgetID, *budgetID, logging.FieldError, err)
		return ""
	}
	return s.Status
}

// Check 写操作后调用，before 为写操作前 Status 的结果
func (a *Alerter) Check(ctx context.Context, owner repository.Owner, budgetID *uint, before string) {
	if !a.Enabled() || budgetID == nil {
		return
	}
	s, err := a.budgets.Summary(ctx, owner, *budgetID)
	if err != nil {
		a.logger.Warn("读取预算状态失败", logging.FieldBudgetID, *budgetID, logging.FieldError, err)
		return
	}
	if s.Status == models.BudgetStatusOK || statusRank[s.Status] <= statusRank[before] {
		return
	}

	alert := Alert{
		UserID:    s.UserID,
		BudgetID:  s.ID,
		Label:     s.Label,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		Status:    s.Status,
		Spent:     s.Spent,
		Cap:       s.Amount,
		At:        a.now(),
	}
	if u, err := a.users.Get(ctx, s.UserID); err == nil {
		alert.Email = u.Email
		alert.Name = u.Name
	} else {
		a.logger.Warn("读取用户失败", logging.FieldUserID, s.UserID, logging.FieldError, err)
	}

	a.Dispatch(ctx, alert)
}

// Dispatch 依次通知所有渠道
func (a *Alerter) Dispatch(ctx context.Context, alert Alert) {
	for _, n := range a.notifiers {
		if err := n.Notify(ctx, alert); err != nil {
			a.logger.Error("预算提醒发送失败",
				"notifier", n.Name(),
				logging.FieldBudgetID, alert.BudgetID,
				logging.FieldError, err,
			)
			continue
		}
		a.logger.Info("预算提醒已发送",
			"notifier", n.Name(),
			logging.FieldBudgetID, alert.BudgetID,
			logging.FieldStatus, alert.Status,
		)
	}
}
