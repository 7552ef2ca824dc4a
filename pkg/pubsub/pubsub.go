package pubsub

import (
	"context"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/sirupsen/logrus"
)

// Publisher abstracts the message broker so use cases can emit domain events
// without depending on the concrete kafka client.
type Publisher interface {
	Publish(ctx context.Context, topic string, key string, headers map[string]string, message []byte)
	Close()
}

type confluentKafkaPublisher struct {
	logger   *logrus.Logger
	producer *kafka.Producer
}

// PublisherFromConfluentKafkaProducer wraps a confluent producer. Delivery is
// fire-and-forget; delivery failures are logged from the producer's event loop.
func PublisherFromConfluentKafkaProducer(logger *logrus.Logger, producer *kafka.Producer) Publisher {
	p := &confluentKafkaPublisher{
		logger:   logger,
		producer: producer,
	}

	go p.watchDeliveries()

	return p
}

func (p *confluentKafkaPublisher) watchDeliveries() {
	for e := range p.producer.Events() {
		m, ok := e.(*kafka.Message)
		if !ok {
			continue
		}
		if m.TopicPartition.Error != nil {
			p.logger.WithError(m.TopicPartition.Error).WithField("topic", *m.TopicPartition.Topic).Error("message delivery failed")
		}
	}
}

func (p *confluentKafkaPublisher) Publish(ctx context.Context, topic string, key string, headers map[string]string, message []byte) {
	kafkaHeaders := make([]kafka.Header, 0, len(headers))
	for k, v := range headers {
		kafkaHeaders = append(kafkaHeaders, kafka.Header{Key: k, Value: []byte(v)})
	}

	err := p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(key),
		Headers:        kafkaHeaders,
		Value:          message,
	}, nil)
	if err != nil {
		p.logger.WithContext(ctx).WithError(err).WithField("topic", topic).Error("an error occurred while publishing message")
	}
}

func (p *confluentKafkaPublisher) Close() {
	p.producer.Flush(5000)
	p.producer.Close()
}
