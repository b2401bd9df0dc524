// Package broadcast fans an admin message out to every active bot user and
// records the delivery outcome.
package broadcast

import (
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/justHusniddin/Antikorbot/internal/models"
	"github.com/justHusniddin/Antikorbot/internal/storage"
	"github.com/justHusniddin/Antikorbot/pkg/metrics"
)

// Sender is the one Bot API call the broadcaster needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Service struct {
	API     Sender
	Storage storage.Storage
	Log     *zap.SugaredLogger

	// Delay spaces out sends to stay under the Bot API flood limits.
	Delay time.Duration
}

func NewService(api Sender, st storage.Storage, log *zap.SugaredLogger) *Service {
	return &Service{
		API:     api,
		Storage: st,
		Log:     log,
		Delay:   50 * time.Millisecond,
	}
}

// Run starts the fan-out in the background so the admin's chat is not
// blocked for the duration of a large audience.
func (s *Service) Run(text string, createdBy int64) {
	go s.Execute(text, createdBy)
}

// Execute delivers the message to every active user. Users whose delivery
// fails with a blocked-bot error are marked blocked and excluded from
// future broadcasts.
func (s *Service) Execute(text string, createdBy int64) {
	users, err := s.Storage.ListActiveUsers()
	if err != nil {
		s.Log.Errorw("list broadcast audience", "error", err)
		return
	}

	record := &models.BroadcastMessage{
		Text:      text,
		CreatedBy: createdBy,
	}

	for _, user := range users {
		msg := tgbotapi.NewMessage(user.TelegramID, text)
		msg.ParseMode = tgbotapi.ModeHTML

		_, err := s.API.Send(msg)
		switch {
		case err == nil:
			record.SentCount++
			metrics.BroadcastDeliveries.WithLabelValues("sent").Inc()
		case RecipientUnreachable(err):
			record.FailedCount++
			record.FailedIDs = append(record.FailedIDs, user.TelegramID)
			metrics.BroadcastDeliveries.WithLabelValues("blocked").Inc()
			if err := s.Storage.SetUserBlocked(user.TelegramID, true); err != nil {
				s.Log.Warnw("mark user blocked", "telegram_id", user.TelegramID, "error", err)
			}
		default:
			record.FailedCount++
			record.FailedIDs = append(record.FailedIDs, user.TelegramID)
			metrics.BroadcastDeliveries.WithLabelValues("failed").Inc()
			s.Log.Warnw("broadcast delivery failed", "telegram_id", user.TelegramID, "error", err)
		}

		if s.Delay > 0 {
			time.Sleep(s.Delay)
		}
	}

	now := time.Now()
	record.CompletedAt = &now
	if err := s.Storage.SaveBroadcast(record); err != nil {
		s.Log.Errorw("save broadcast record", "error", err)
		return
	}
	s.Log.Infow("broadcast completed",
		"broadcast_id", record.ID,
		"sent", record.SentCount,
		"failed", record.FailedCount,
	)
}

// RecipientUnreachable reports whether the delivery error means the user
// can no longer be reached: the bot was blocked or the chat is gone. The
// Bot API signals both as 403.
func RecipientUnreachable(err error) bool {
	var apiErr *tgbotapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == 403
}
