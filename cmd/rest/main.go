package main

import (
	"context"
	"log"

	"taxpadi-referral-be/internal/bootstrap"
	"taxpadi-referral-be/internal/config"
	"taxpadi-referral-be/internal/server"
	"taxpadi-referral-be/internal/tracer"
	"taxpadi-referral-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Withdrawal Notification Consumer...")
		if err := container.ConsumerService.StartWithdrawalNotificationConsumer(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	go func() {
		log.Println("Background: Starting Withdrawal Reconciler...")
		container.WithdrawalService.StartReconciler(context.Background())
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
