package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"cashlog/config"
	"cashlog/logging"

	"github.com/rabbitmq/amqp091-go"
)

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// AMQPPublisher 把预算提醒发布到交换机
type AMQPPublisher struct {
	mu         sync.Mutex
	conn       *amqp091.Connection
	channel    publishChannel
	exchange   string
	routingKey string
	logger     *logging.Logger
}

// NewAMQPPublisher 连接并声明 topic 交换机
func NewAMQPPublisher(cfg config.AMQPConfig, l *logging.Logger) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	p := newAMQPPublisher(ch, cfg.Exchange, cfg.RoutingKey, l)
	p.conn = conn
	return p, nil
}

func newAMQPPublisher(ch publishChannel, exchange, routingKey string, l *logging.Logger) *AMQPPublisher {
	return &AMQPPublisher{
		channel:    ch,
		exchange:   exchange,
		routingKey: routingKey,
		logger:     l,
	}
}

// Name 通知渠道名
func (p *AMQPPublisher) Name() string {
	return "amqp"
}

// Notify 发布 JSON 消息，持久化投递
func (p *AMQPPublisher) Notify(ctx context.Context, alert Alert) error {
	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,   // exchange
		p.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    alert.At,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish alert: %w", err)
	}

	p.logger.Info("已发布预算提醒",
		logging.FieldBudgetID, alert.BudgetID,
		logging.FieldStatus, alert.Status,
		"exchange", p.exchange,
		"routing_key", p.routingKey,
	)
	return nil
}

// Close 关闭通道和连接
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
