package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"ms-booking/internal/logger"
	"ms-booking/internal/models"

	"github.com/segmentio/kafka-go"
)

// Producer streams terminal booking outcomes to Kafka. Consumers downstream
// (notifications, analytics) react to outcomes; nothing in the booking flow
// depends on delivery.
type Producer struct {
	Writer *kafka.Writer
	Topics Topics
	Log    *logger.Logger
}

type Topics struct {
	BookingConfirmed string
	BookingRejected  string
}

func NewProducer(brokers []string, topics Topics, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{Writer: writer, Topics: topics, Log: log}
}

func (p *Producer) PublishBookingConfirmed(booking models.Booking) error {
	return p.publish(p.Topics.BookingConfirmed, booking)
}

func (p *Producer) PublishBookingRejected(booking models.Booking) error {
	return p.publish(p.Topics.BookingRejected, booking)
}

func (p *Producer) publish(topic string, booking models.Booking) error {
	msgBytes, err := json.Marshal(booking)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}

	err = p.Writer.WriteMessages(context.Background(), kafka.Message{
		Topic: topic,
		Key:   []byte(booking.BookingID),
		Value: msgBytes,
	})
	if err != nil {
		return fmt.Errorf("write to %s: %w", topic, err)
	}

	p.Log.LogKafka("PUBLISH", topic, booking.BookingID)
	return nil
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
