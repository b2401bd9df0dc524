package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/justHusniddin/Antikorbot/internal/config"
	"github.com/justHusniddin/Antikorbot/internal/localization"
	"github.com/justHusniddin/Antikorbot/internal/locations"
	"github.com/justHusniddin/Antikorbot/internal/models"
	"github.com/justHusniddin/Antikorbot/internal/session"
	"github.com/justHusniddin/Antikorbot/internal/storage"
	"github.com/justHusniddin/Antikorbot/pkg/metrics"
)

// API is the slice of tgbotapi.BotAPI the bot service uses. Tests swap in
// a fake.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Notifier receives accepted complaints for delivery to the review group.
type Notifier interface {
	Enqueue(c *models.Complaint)
}

// Broadcaster fans a message out to every active user.
type Broadcaster interface {
	Run(text string, createdBy int64)
}

// BotService receives Telegram updates and drives the complaint intake
// conversation.
type BotService struct {
	API         API
	Storage     storage.Storage
	Sessions    session.Store
	Localizer   *localization.Localizer
	Locations   *locations.Store
	Notifier    Notifier
	Broadcaster Broadcaster
	Throttle    *Throttle
	Config      *config.Config
	Log         *zap.SugaredLogger
}

// NewBotService wires the bot service around an authorized Bot API client.
func NewBotService(
	api API,
	st storage.Storage,
	sessions session.Store,
	loc *localization.Localizer,
	locs *locations.Store,
	notifier Notifier,
	broadcaster Broadcaster,
	cfg *config.Config,
	log *zap.SugaredLogger,
) *BotService {
	return &BotService{
		API:         api,
		Storage:     st,
		Sessions:    sessions,
		Localizer:   loc,
		Locations:   locs,
		Notifier:    notifier,
		Broadcaster: broadcaster,
		Throttle:    NewThrottle(cfg.ThrottleInterval),
		Config:      cfg,
		Log:         log,
	}
}

// Run is the main loop for receiving Telegram updates.
func (s *BotService) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			s.handleUpdate(ctx, &update)
		}
	}
}

// handleUpdate dispatches one update. A panic in a handler is logged and
// must never take down the loop.
func (s *BotService) handleUpdate(ctx context.Context, update *tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			s.Log.Errorw("recovered from handler panic", "panic", r)
		}
	}()

	switch {
	case update.Message != nil:
		msg := update.Message
		if !msg.Chat.IsPrivate() {
			return
		}
		if !msg.IsCommand() && !s.Throttle.Allow(msg.Chat.ID) {
			metrics.ThrottledUpdates.Inc()
			return
		}
		s.handleMessage(ctx, msg)
	case update.CallbackQuery != nil:
		s.handleCallback(ctx, update.CallbackQuery)
	}
}

func (s *BotService) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	user, err := s.Storage.SaveUserIfNotExists(chatID, msg.From.UserName, msg.From.FirstName, msg.From.LastName)
	if err != nil {
		s.Log.Errorw("save user", "chat_id", chatID, "error", err)
		return
	}
	lang := user.Language

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			s.handleStart(ctx, chatID)
		case "language":
			s.sendWithMarkup(chatID, s.Localizer.GetString(lang, "welcome"), LanguageInlineKeyboard())
		case "admin":
			s.handleAdminCommand(ctx, chatID)
		case "cancel":
			s.handleCancel(ctx, chatID, lang)
		}
		return
	}

	sess, err := s.Sessions.Get(ctx, chatID)
	if err != nil {
		s.Log.Errorw("load session", "chat_id", chatID, "error", err)
		sess = session.Session{}
	}

	// Admin broadcast text entry runs outside the complaint flow.
	if sess.State == session.StateBroadcastText {
		s.handleBroadcastText(ctx, chatID, msg.Text)
		return
	}

	if sess.State != session.StateIdle {
		s.handleFlowMessage(ctx, chatID, lang, sess, msg)
		return
	}

	// Main menu buttons arrive as plain text in the user's language.
	switch msg.Text {
	case s.Localizer.GetString(lang, "submit_complaint"):
		s.startComplaint(ctx, chatID, lang)
	case s.Localizer.GetString(lang, "info"):
		s.sendText(chatID, s.Localizer.GetString(lang, "info_text"))
	case s.Localizer.GetString(lang, "change_language"):
		s.sendWithMarkup(chatID, s.Localizer.GetString(lang, "welcome"), LanguageInlineKeyboard())
	default:
		s.sendWithMarkup(chatID, s.Localizer.GetString(lang, "main_menu"), MainMenuKeyboard(s.Localizer, lang))
	}
}

func (s *BotService) handleStart(ctx context.Context, chatID int64) {
	if err := s.Sessions.Clear(ctx, chatID); err != nil {
		s.Log.Warnw("clear session", "chat_id", chatID, "error", err)
	}
	// The welcome text carries both languages, language is not chosen yet.
	s.sendWithMarkup(chatID, s.Localizer.GetString(models.LangRussian, "welcome"), LanguageInlineKeyboard())
}

func (s *BotService) handleCancel(ctx context.Context, chatID int64, lang string) {
	if err := s.Sessions.Clear(ctx, chatID); err != nil {
		s.Log.Warnw("clear session", "chat_id", chatID, "error", err)
	}
	s.sendWithMarkup(chatID, s.Localizer.GetString(lang, "complaint_cancelled"), MainMenuKeyboard(s.Localizer, lang))
}

func (s *BotService) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Acknowledge first to stop the client-side spinner.
	if _, err := s.API.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		s.Log.Warnw("answer callback", "error", err)
	}
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	switch {
	case strings.HasPrefix(cb.Data, cbLangPrefix):
		s.handleLanguageCallback(ctx, chatID, strings.TrimPrefix(cb.Data, cbLangPrefix))
	case strings.HasPrefix(cb.Data, "admin_"):
		s.handleAdminCallback(ctx, chatID, cb.Data)
	default:
		s.handleFlowCallback(ctx, chatID, cb)
	}
}

func (s *BotService) handleLanguageCallback(ctx context.Context, chatID int64, langCode string) {
	if langCode != models.LangRussian && langCode != models.LangUzbek {
		return
	}
	if err := s.Storage.UpdateUserLanguage(chatID, langCode); err != nil {
		s.Log.Errorw("update language", "chat_id", chatID, "error", err)
		return
	}
	s.sendText(chatID, s.Localizer.GetString(langCode, "language_selected"))
	s.sendWithMarkup(chatID, s.Localizer.GetString(langCode, "main_menu"), MainMenuKeyboard(s.Localizer, langCode))
}

// userLang reloads the stored language; callbacks have no fresh profile.
func (s *BotService) userLang(chatID int64) string {
	user, err := s.Storage.GetUserByTelegramID(chatID)
	if err != nil {
		return models.LangRussian
	}
	return user.Language
}

func (s *BotService) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := s.API.Send(msg); err != nil {
		s.Log.Warnw("send message", "chat_id", chatID, "error", err)
	}
}

func (s *BotService) sendWithMarkup(chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	if _, err := s.API.Send(msg); err != nil {
		s.Log.Warnw("send message", "chat_id", chatID, "error", err)
	}
}

func (s *BotService) editMarkup(chatID int64, messageID int, text string, markup tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := s.API.Send(edit); err != nil {
		s.Log.Warnw("edit message", "chat_id", chatID, "error", err)
	}
}

func (s *BotService) sendError(chatID int64, lang string) {
	s.sendText(chatID, s.Localizer.GetString(lang, "error"))
}
