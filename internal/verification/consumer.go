package verification

import (
	"context"
	"encoding/json"

	"registration-service/internal/events"
	"registration-service/pkg/kafka"
	"registration-service/pkg/logger"
)

// Consumer listens for user.registered events and sends the verification
// email for accounts that still have verification pending.
type Consumer struct {
	kafka *kafka.Client
	svc   *Service
	log   logger.Logger
}

// NewConsumer creates a new consumer.
func NewConsumer(k *kafka.Client, svc *Service, log logger.Logger) *Consumer {
	return &Consumer{kafka: k, svc: svc, log: log}
}

// Start begins consuming user.registered in a background goroutine.
func (c *Consumer) Start(ctx context.Context) {
	c.kafka.Subscribe(ctx, kafka.TopicUserRegistered, "verification-group", func(data []byte) error {
		var ev events.UserRegisteredEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return err
		}
		if !ev.PendingVerification {
			return nil
		}

		if err := c.svc.SendVerification(ctx, ev.Email, ev.FirstName); err != nil {
			// Delivery is best-effort; the user can re-request from the app.
			c.log.Warn("verification email failed",
				logger.String("email", ev.Email),
				logger.Error(err))
		}
		return nil
	})
}
