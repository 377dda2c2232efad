package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"taxpadi-referral-be/internal/config"
	"taxpadi-referral-be/internal/controller"
	"taxpadi-referral-be/internal/pkg/logger"
	"taxpadi-referral-be/internal/pkg/mailer"
	"taxpadi-referral-be/internal/repository/unitofwork"
	"taxpadi-referral-be/internal/service"
	"taxpadi-referral-be/pkg/monnify"
	pktNats "taxpadi-referral-be/pkg/nats"
)

type Container struct {
	// Controllers
	ReferralController    *controller.ReferralController
	BankDetailsController *controller.BankDetailsController
	WithdrawalController  *controller.WithdrawalController

	// Background Services (Exposed for main.go to run)
	ConsumerService   service.IConsumerService
	WithdrawalService service.IWithdrawalService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// Monnify payout gateway
	monnifyClient := monnify.NewClient(monnify.Config{
		BaseURL:             cfg.Monnify.BaseURL,
		APIKey:              cfg.Monnify.APIKey,
		SecretKey:           cfg.Monnify.SecretKey,
		ContractCode:        cfg.Monnify.ContractCode,
		SourceAccountNumber: cfg.Monnify.SourceAccountNumber,
		Currency:            cfg.Monnify.Currency,
	})

	// 3. Services
	publisherService := service.NewPublisherService(cfg.Withdrawal.EventsTopic, pubSub)
	consumerService := service.NewConsumerService(
		cfg.Withdrawal.EventsTopic,
		pubSub,
		emailService,
		sysLogger,
	)

	referralService := service.NewReferralService(uowFactory, sysLogger, natsPub, cfg.Referral)
	bankDetailsService := service.NewBankDetailsService(uowFactory, sysLogger, monnifyClient)
	withdrawalService := service.NewWithdrawalService(
		uowFactory,
		sysLogger,
		monnifyClient,
		publisherService,
		natsPub,
		cfg.Withdrawal,
		cfg.Referral,
	)

	// 4. Controllers
	return &Container{
		ReferralController:    controller.NewReferralController(referralService),
		BankDetailsController: controller.NewBankDetailsController(bankDetailsService),
		WithdrawalController: controller.NewWithdrawalController(
			withdrawalService,
			rdb,
			cfg.Withdrawal.RateLimit,
			cfg.Withdrawal.RateWindow,
		),

		ConsumerService:   consumerService,
		WithdrawalService: withdrawalService,
	}
}
