package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"taxpadi-referral-be/internal/dto"
	"taxpadi-referral-be/internal/entity"
	"taxpadi-referral-be/internal/pkg/logger"
	"taxpadi-referral-be/internal/pkg/mailer"
)

type IConsumerService interface {
	// StartWithdrawalNotificationConsumer subscribes to the withdrawal
	// events topic and sends the matching email for each message. Blocks
	// until ctx ends.
	StartWithdrawalNotificationConsumer(ctx context.Context) error
}

type consumerService struct {
	topicName    string
	pubSub       *gochannel.GoChannel
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewConsumerService(
	topicName string,
	pubSub *gochannel.GoChannel,
	emailService mailer.IEmailService,
	sysLogger logger.ILogger,
) IConsumerService {
	return &consumerService{
		topicName:    topicName,
		pubSub:       pubSub,
		emailService: emailService,
		logger:       sysLogger,
	}
}

func (s *consumerService) StartWithdrawalNotificationConsumer(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	s.logger.Info("consumer", "withdrawal notification consumer started", map[string]interface{}{
		"topic": s.topicName,
	})

	for msg := range messages {
		s.handle(msg)
	}
	return nil
}

func (s *consumerService) handle(msg *message.Message) {
	var n dto.WithdrawalNotification
	if err := json.Unmarshal(msg.Payload, &n); err != nil {
		s.logger.Error("consumer", "failed to decode withdrawal notification", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// Malformed payloads never get better on redelivery.
		msg.Ack()
		return
	}

	var err error
	switch entity.WithdrawalStatus(n.Status) {
	case entity.WithdrawalStatusProcessing:
		err = s.emailService.SendWithdrawalProcessing(n.Email, n.Amount)
	case entity.WithdrawalStatusCompleted:
		err = s.emailService.SendWithdrawalCompleted(n.Email, n.Amount)
	case entity.WithdrawalStatusFailed:
		err = s.emailService.SendWithdrawalFailed(n.Email, n.Amount, n.Reason)
	default:
		s.logger.Warn("consumer", "withdrawal notification with unknown status dropped", map[string]interface{}{
			"message_id": msg.UUID,
			"status":     n.Status,
		})
		msg.Ack()
		return
	}

	if err != nil {
		s.logger.Error("consumer", "failed to send withdrawal email", map[string]interface{}{
			"withdrawal_id": n.WithdrawalId,
			"status":        n.Status,
			"error":         err.Error(),
		})
		msg.Nack()
		return
	}

	s.logger.Info("consumer", "withdrawal email sent", map[string]interface{}{
		"withdrawal_id": n.WithdrawalId,
		"status":        n.Status,
	})
	msg.Ack()
}
