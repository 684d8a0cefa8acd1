// Package kafka 贷款领域事件的 Kafka 发布实现
package kafka

import (
	"context"
	"strconv"

	"github.com/wyfcoding/loanorigination/internal/loan/domain"
	"github.com/wyfcoding/loanorigination/pkg/mq"
)

// 事件类型常量
const (
	eventTypeCreated       = "loan.created"
	eventTypeStatusChanged = "loan.status.changed"
)

// envelope 事件信封，type 字段区分同 topic 的事件类型
type envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// EventPublisher 基于 Kafka 的事件发布器
type EventPublisher struct {
	producer *mq.KafkaProducer
	topic    string
}

// NewEventPublisher 创建事件发布器
func NewEventPublisher(producer *mq.KafkaProducer, topic string) *EventPublisher {
	return &EventPublisher{producer: producer, topic: topic}
}

// PublishLoanCreated 发布申请建档事件
func (p *EventPublisher) PublishLoanCreated(ctx context.Context, event *domain.LoanCreatedEvent) error {
	return p.producer.SendMessage(ctx, p.topic,
		strconv.FormatUint(uint64(event.LoanID), 10),
		envelope{Type: eventTypeCreated, Payload: event})
}

// PublishStatusChanged 发布状态转换事件
func (p *EventPublisher) PublishStatusChanged(ctx context.Context, event *domain.LoanStatusChangedEvent) error {
	return p.producer.SendMessage(ctx, p.topic,
		strconv.FormatUint(uint64(event.LoanID), 10),
		envelope{Type: eventTypeStatusChanged, Payload: event})
}
