package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/justHusniddin/Antikorbot/internal/api/handler"
	"github.com/justHusniddin/Antikorbot/internal/config"
	"github.com/justHusniddin/Antikorbot/internal/storage"
	"github.com/justHusniddin/Antikorbot/pkg/logger"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.LogLevel)
	defer logger.Sync(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalw("connect postgres", "err", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalw("connect redis", "addr", cfg.RedisAddr, "err", err)
	}

	st := storage.NewService(db, rdb)

	h := handler.NewHandler(st, st, &cfg, log)
	srv := &http.Server{
		Addr:           cfg.AdminAPIAddr,
		Handler:        h.Router(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Infow("admin api started", "addr", cfg.AdminAPIAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("admin api failed", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("shutdown admin api", "err", err)
	}
	log.Infow("admin api stopped")
}
