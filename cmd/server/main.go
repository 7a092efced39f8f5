package main

import (
	"context"
	"log"
	"time"

	"chopchop-order-service/internal/config"
	ohttp "chopchop-order-service/internal/controllers/http"
	"chopchop-order-service/internal/infra/exchange"
	mmysql "chopchop-order-service/internal/infra/mysql"
	"chopchop-order-service/internal/infra/notify"
	"chopchop-order-service/internal/infra/paypal"
	"chopchop-order-service/internal/infra/rabbitmq"
	mysqlrepo "chopchop-order-service/internal/repository/mysql"
	"chopchop-order-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	cfg := config.FromEnv()

	db, err := mmysql.NewMySQLFromEnv()
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	orderRepo := mysqlrepo.NewOrderRepository(db)
	accommodationRepo := mysqlrepo.NewAccommodationRepository(db)
	menuRepo := mysqlrepo.NewMenuRepository(db)

	gateway := paypal.New(cfg.PayPal)
	rates := exchange.NewRateCache(exchange.NewClient(cfg.ExchangeRateURL, cfg.FallbackUsdToKrw), cfg.ExchangeRateTTL)

	var channels []notify.Channel
	if cfg.DiscordWebhookURL != "" {
		channels = append(channels, notify.NewDiscordChannel(cfg.DiscordWebhookURL))
	}
	if cfg.SlackWebhookURL != "" {
		channels = append(channels, notify.NewSlackChannel(cfg.SlackWebhookURL))
	}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		channels = append(channels, notify.NewTelegramChannel(cfg.TelegramBotToken, cfg.TelegramChatID))
	}
	if cfg.RabbitURL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL, "order.exchange")
		if err != nil {
			log.Printf("rabbitmq unavailable, event channel disabled: %v", err)
		} else {
			defer publisher.Close()
			channels = append(channels, notify.NewEventChannel(publisher))
		}
	}

	dispatcher := notify.NewDispatcher(channels...)

	ctx := context.Background()
	dispatcher.Start(ctx)

	s := services.NewOrderService(orderRepo, accommodationRepo, menuRepo, gateway, dispatcher, cfg)

	go func() {
		ticker := time.NewTicker(cfg.ReconcileInterval)
		defer ticker.Stop()
		for range ticker.C {
			if _, err := s.ReconcilePendingPayments(ctx); err != nil {
				log.Printf("reconcile sweep failed: %v", err)
			}
		}
	}()

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisHost + ":6379",
		DB:           0,
		PoolSize:     100,
		MinIdleConns: 10,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	handler := ohttp.NewHandler(s, gateway, rates, redisClient, cfg)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)

	log.Printf("Starting order service on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
