package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/justHusniddin/Antikorbot/internal/broadcast"
	"github.com/justHusniddin/Antikorbot/internal/config"
	"github.com/justHusniddin/Antikorbot/internal/localization"
	"github.com/justHusniddin/Antikorbot/internal/locations"
	"github.com/justHusniddin/Antikorbot/internal/notify"
	"github.com/justHusniddin/Antikorbot/internal/session"
	"github.com/justHusniddin/Antikorbot/internal/storage"
	"github.com/justHusniddin/Antikorbot/internal/telegram"
	"github.com/justHusniddin/Antikorbot/pkg/logger"
	"github.com/justHusniddin/Antikorbot/pkg/metrics"
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
	if err := st.AutoMigrate(); err != nil {
		log.Fatalw("run migrations", "err", err)
	}
	log.Infow("database ready")

	loc, err := localization.NewLocalizer(cfg.LocalesPath)
	if err != nil {
		log.Fatalw("load locales", "path", cfg.LocalesPath, "err", err)
	}
	locs := locations.Load(cfg.LocationsPath, log)

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalw("authorize bot", "err", err)
	}
	log.Infow("authorized", "account", bot.Self.UserName)

	metricsSrv := metrics.MustServe(cfg.MetricsAddr, log)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		metricsSrv.Shutdown(shutdownCtx)
	}()

	notifier := notify.NewService(bot, loc, cfg.GroupID, cfg.PDFFontPath, log)
	notifier.Start(ctx)

	broadcaster := broadcast.NewService(bot, st, log)

	svc := telegram.NewBotService(
		bot, st, session.NewRedisStore(rdb), loc, locs,
		notifier, broadcaster, &cfg, log,
	)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	log.Infow("bot started")
	svc.Run(ctx, updates)
	log.Infow("bot stopped")
}
