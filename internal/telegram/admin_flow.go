package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/justHusniddin/Antikorbot/internal/export"
	"github.com/justHusniddin/Antikorbot/internal/session"
)

const (
	cbAdminExport    = "admin_export"
	cbAdminBroadcast = "admin_broadcast"
)

// handleAdminCommand shows the stats panel. Non-admins get an explicit
// denial here; the panel buttons stay silent for them.
func (s *BotService) handleAdminCommand(ctx context.Context, chatID int64) {
	lang := s.userLang(chatID)
	if !s.Config.IsAdmin(chatID) {
		s.sendText(chatID, s.Localizer.GetString(lang, "admin_access_denied"))
		return
	}

	stats, err := s.Storage.ComplaintStats()
	if err != nil {
		s.Log.Errorw("complaint stats", "error", err)
		s.sendError(chatID, lang)
		return
	}

	text := s.Localizer.Getf(lang, "admin_stats",
		stats.Total, stats.New, stats.InProgress, stats.Resolved, stats.Rejected,
		stats.Today, stats.Week, stats.Month, stats.TotalUsers)

	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(s.Localizer.GetString(lang, "btn_export_csv"), cbAdminExport),
			tgbotapi.NewInlineKeyboardButtonData(s.Localizer.GetString(lang, "btn_broadcast"), cbAdminBroadcast),
		),
	)
	s.sendWithMarkup(chatID, text, markup)
}

// handleAdminCallback serves the admin panel buttons.
func (s *BotService) handleAdminCallback(ctx context.Context, chatID int64, data string) {
	if !s.Config.IsAdmin(chatID) {
		return
	}
	lang := s.userLang(chatID)

	switch data {
	case cbAdminExport:
		s.sendComplaintsCSV(chatID, lang)
	case cbAdminBroadcast:
		_, err := s.Sessions.Update(ctx, chatID, func(sess *session.Session) {
			*sess = session.Session{State: session.StateBroadcastText}
		})
		if err != nil {
			s.Log.Errorw("enter broadcast state", "chat_id", chatID, "error", err)
			s.sendError(chatID, lang)
			return
		}
		s.sendText(chatID, s.Localizer.GetString(lang, "broadcast_prompt"))
	}
}

func (s *BotService) sendComplaintsCSV(chatID int64, lang string) {
	complaints, err := s.Storage.AllComplaints()
	if err != nil {
		s.Log.Errorw("load complaints for export", "error", err)
		s.sendError(chatID, lang)
		return
	}
	data, err := export.ComplaintsCSV(complaints)
	if err != nil {
		s.Log.Errorw("render csv", "error", err)
		s.sendError(chatID, lang)
		return
	}

	name := fmt.Sprintf("complaints_%s.csv", time.Now().Format("2006-01-02"))
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	if _, err := s.API.Send(doc); err != nil {
		s.Log.Errorw("send csv", "chat_id", chatID, "error", err)
		s.sendError(chatID, lang)
	}
}

// handleBroadcastText starts the fan-out with the admin's message.
func (s *BotService) handleBroadcastText(ctx context.Context, chatID int64, text string) {
	if !s.Config.IsAdmin(chatID) {
		// A stale session should never let a non-admin broadcast.
		if err := s.Sessions.Clear(ctx, chatID); err != nil {
			s.Log.Warnw("clear session", "chat_id", chatID, "error", err)
		}
		return
	}
	lang := s.userLang(chatID)

	if strings.TrimSpace(text) == "" {
		s.sendText(chatID, s.Localizer.GetString(lang, "broadcast_prompt"))
		return
	}

	if err := s.Sessions.Clear(ctx, chatID); err != nil {
		s.Log.Warnw("clear session", "chat_id", chatID, "error", err)
	}
	if s.Broadcaster != nil {
		s.Broadcaster.Run(text, chatID)
	}
	s.sendText(chatID, s.Localizer.GetString(lang, "broadcast_started"))
}
