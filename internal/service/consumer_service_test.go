package service

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxpadi-referral-be/internal/dto"
)

type sentEmail struct {
	kind   string
	to     string
	amount float64
	reason string
}

type fakeEmailService struct {
	sent chan sentEmail
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{sent: make(chan sentEmail, 10)}
}

func (s *fakeEmailService) SendWithdrawalProcessing(toEmail string, amount float64) error {
	s.sent <- sentEmail{kind: "processing", to: toEmail, amount: amount}
	return nil
}

func (s *fakeEmailService) SendWithdrawalCompleted(toEmail string, amount float64) error {
	s.sent <- sentEmail{kind: "completed", to: toEmail, amount: amount}
	return nil
}

func (s *fakeEmailService) SendWithdrawalFailed(toEmail string, amount float64, reason string) error {
	s.sent <- sentEmail{kind: "failed", to: toEmail, amount: amount, reason: reason}
	return nil
}

func TestWithdrawalNotificationPipeline(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	emails := newFakeEmailService()

	const topic = "WITHDRAWAL_EVENTS_TEST"

	consumer := NewConsumerService(topic, pubSub, emails, nopLogger{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = consumer.StartWithdrawalNotificationConsumer(ctx)
	}()

	// GoChannel drops messages published before the subscription exists.
	time.Sleep(50 * time.Millisecond)

	publisher := NewPublisherService(topic, pubSub)

	notifications := []dto.WithdrawalNotification{
		{WithdrawalId: uuid.New(), UserId: uuid.New(), Email: "a@example.com", Amount: 5000, Status: "processing"},
		{WithdrawalId: uuid.New(), UserId: uuid.New(), Email: "b@example.com", Amount: 2000, Status: "completed"},
		{WithdrawalId: uuid.New(), UserId: uuid.New(), Email: "c@example.com", Amount: 3000, Status: "failed", Reason: "payout rejected"},
	}
	for i := range notifications {
		require.NoError(t, publisher.PublishWithdrawalNotification(&notifications[i]))
	}

	got := map[string]sentEmail{}
	for i := 0; i < len(notifications); i++ {
		select {
		case e := <-emails.sent:
			got[e.kind] = e
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for email %d of %d", i+1, len(notifications))
		}
	}

	assert.Equal(t, "a@example.com", got["processing"].to)
	assert.Equal(t, 5000.0, got["processing"].amount)
	assert.Equal(t, "b@example.com", got["completed"].to)
	assert.Equal(t, "c@example.com", got["failed"].to)
	assert.Equal(t, "payout rejected", got["failed"].reason)
}
