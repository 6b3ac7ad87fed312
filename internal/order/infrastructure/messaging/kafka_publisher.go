// Package messaging publishes order events to Kafka.
package messaging

import (
	"context"

	"github.com/floresya/floresya/internal/order/domain"
	"github.com/floresya/floresya/pkg/mq"
)

type kafkaPublisher struct {
	producer *mq.KafkaProducer
	topic    string
}

func NewKafkaPublisher(producer *mq.KafkaProducer, topic string) domain.EventPublisher {
	return &kafkaPublisher{producer: producer, topic: topic}
}

// Publish keys messages by order number so one order's events stay ordered
// within a partition.
func (p *kafkaPublisher) Publish(event domain.OrderEvent) error {
	return p.producer.SendMessage(context.Background(), p.topic, event.OrderNumber, event)
}
