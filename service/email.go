package service

import (
	"context"
	"fmt"

	"cashlog/assistant"
	"cashlog/config"
	"cashlog/models"

	"gopkg.in/gomail.v2"
)

// EmailService 邮件服务
type EmailService struct {
	cfg      *config.EmailConfig
	currency string
	send     func(m *gomail.Message) error
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig, currency string) *EmailService {
	s := &EmailService{cfg: cfg, currency: currency}
	s.send = s.dialAndSend
	return s
}

// Name 通知渠道名
func (s *EmailService) Name() string {
	return "email"
}

// Notify 发送预算提醒邮件
func (s *EmailService) Notify(_ context.Context, alert Alert) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用")
	}
	if alert.Email == "" {
		return fmt.Errorf("用户 %d 没有邮箱", alert.UserID)
	}
	return s.sendEmail(alert.Email, s.alertSubject(alert), s.generateAlertEmailBody(alert))
}

func (s *EmailService) alertSubject(alert Alert) string {
	if alert.Status == models.BudgetStatusExceeded {
		return fmt.Sprintf("[CashLog] Budget %q exceeded", alert.Label)
	}
	return fmt.Sprintf("[CashLog] Budget %q reached", alert.Label)
}

// generateAlertEmailBody 生成预算提醒邮件内容
func (s *EmailService) generateAlertEmailBody(alert Alert) string {
	color := "#f59e0b"
	if alert.Status == models.BudgetStatusExceeded {
		color = "#ef4444"
	}
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; }
        .header { background: %s; color: white; padding: 24px; text-align: center; }
        .content { padding: 30px; color: #333; line-height: 1.8; }
        .footer { background: #f8f9fa; padding: 16px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>Budget %s</h1></div>
        <div class="content">
            <p>Hello <strong>%s</strong>,</p>
            <p>Your budget <strong>%s</strong> (%s → %s) is now <strong>%s</strong>.</p>
            <p>Spent: <strong>%s %s</strong><br>Cap: <strong>%s %s</strong><br>Remaining: <strong>%s %s</strong></p>
            <p>%s</p>
        </div>
        <div class="footer">
            <p>This message was sent automatically by CashLog.</p>
        </div>
    </div>
</body>
</html>
`, color, alert.Status, alert.Name, alert.Label,
		models.FormatDate(alert.StartDate), models.FormatDate(alert.EndDate), alert.Status,
		assistant.FormatMoney(alert.Spent), s.currency,
		assistant.FormatMoney(alert.Cap), s.currency,
		assistant.FormatMoney(alert.Cap.Sub(alert.Spent)), s.currency,
		assistant.Advise(alert.Spent, &models.Budget{Amount: alert.Cap}))
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.send(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}

func (s *EmailService) dialAndSend(m *gomail.Message) error {
	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}
