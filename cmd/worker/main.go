// Command main runs the background worker: it consumes notification
// tasks from Redis and fires the weekly digest on a schedule.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"guildboard/internal/config"
	"guildboard/internal/database"
	"guildboard/internal/mail"
	"guildboard/internal/middleware"
	"guildboard/internal/notify"
	"guildboard/internal/repository"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.InitMiddleware(cfg)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	redisOpt, err := notify.RedisConnOpt(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}

	mailer := mail.NewSMTPMailer(cfg)
	dispatcher := notify.NewDispatcher(
		nil, // workers always deliver in-process
		mailer,
		repository.NewCategoryRepository(db),
		repository.NewPostRepository(db),
		cfg.SiteDomain,
	)

	srv := asynq.NewServer(redisOpt, asynq.Config{Concurrency: 10})
	scheduler := asynq.NewScheduler(redisOpt, nil)
	if err := notify.RegisterDigest(scheduler); err != nil {
		log.Fatalf("Failed to register digest schedule: %v", err)
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Fatalf("Scheduler stopped: %v", err)
		}
	}()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down worker...")
		scheduler.Shutdown()
		srv.Shutdown()
	}()

	if err := srv.Run(dispatcher.NewMux()); err != nil {
		log.Fatalf("Worker stopped: %v", err)
	}
}
