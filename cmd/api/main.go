package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"

	"github.com/brightride/brightride-api/internal/config"
	"github.com/brightride/brightride-api/internal/db"
	"github.com/brightride/brightride-api/internal/events"
	"github.com/brightride/brightride-api/internal/mq"
	"github.com/brightride/brightride-api/internal/router"
	"github.com/brightride/brightride-api/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	log.SetLevel(logLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			log.Warnw("close database", "error", err)
		}
	}()
	if err := db.Migrate(gdb); err != nil {
		log.Fatal(err)
	}

	deps := router.Deps{DB: gdb, AccessLog: true}

	if cfg.RedisAddr != "" {
		rdb := session.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalw("redis ping failed", "addr", cfg.RedisAddr, "error", err)
		}
		deps.Revoker = session.NewRedisRevoker(rdb)
	} else {
		log.Warn("REDIS_ADDR not set, logout will not revoke tokens")
	}

	if cfg.RabbitMQURL != "" {
		broker, err := mq.Connect(ctx, cfg.RabbitMQURL)
		if err != nil {
			log.Fatal(err)
		}
		defer broker.Close()
		deps.Publisher = events.NewAMQPPublisher(broker, mq.DispatchExchange)
	}

	app := router.New(cfg, deps)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Errorw("shutdown", "error", err)
		}
	}()

	log.Infow("listening", "port", cfg.AppPort, "db_driver", cfg.DBDriver, "strict_transitions", cfg.StrictTransitions)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Errorw("server stopped", "error", err)
	}
}

func logLevel(s string) log.Level {
	switch strings.ToLower(s) {
	case "trace":
		return log.LevelTrace
	case "debug":
		return log.LevelDebug
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}
