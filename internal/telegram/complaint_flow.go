package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/justHusniddin/Antikorbot/internal/models"
	"github.com/justHusniddin/Antikorbot/internal/session"
	"github.com/justHusniddin/Antikorbot/pkg/metrics"
)

// startComplaint resets the draft and asks the anonymity question.
func (s *BotService) startComplaint(ctx context.Context, chatID int64, lang string) {
	_, err := s.Sessions.Update(ctx, chatID, func(sess *session.Session) {
		*sess = session.Session{
			State: session.StateAnonymity,
			Draft: session.Draft{Language: lang},
		}
	})
	if err != nil {
		s.Log.Errorw("start complaint", "chat_id", chatID, "error", err)
		s.sendError(chatID, lang)
		return
	}
	s.sendWithMarkup(chatID, s.Localizer.GetString(lang, "anonymity_choice"), AnonymityKeyboard(s.Localizer, lang))
}

// handleFlowMessage advances the intake machine on a plain message.
func (s *BotService) handleFlowMessage(ctx context.Context, chatID int64, lang string, sess session.Session, msg *tgbotapi.Message) {
	switch sess.State {
	case session.StateAnonymity:
		s.stepAnonymity(ctx, chatID, lang, msg.Text)
	case session.StateFullName:
		s.stepFullName(ctx, chatID, lang, msg.Text)
	case session.StatePhoneNumber:
		s.stepPhoneNumber(ctx, chatID, lang, msg)
	case session.StateRegion:
		s.sendRegionPicker(chatID, lang)
	case session.StateDistrict, session.StateMahalla:
		// Location picking goes through the inline keyboard only.
		s.sendText(chatID, s.Localizer.GetString(lang, "select_"+string(sess.State)))
	case session.StateTargetFullName:
		s.stepTextField(ctx, chatID, lang, msg.Text, session.StateTargetPosition, "enter_target_position",
			func(d *session.Draft, v string) { d.TargetFullName = v })
	case session.StateTargetPosition:
		s.stepTextField(ctx, chatID, lang, msg.Text, session.StateTargetOrganization, "enter_target_org",
			func(d *session.Draft, v string) { d.TargetPosition = v })
	case session.StateTargetOrganization:
		s.stepTextField(ctx, chatID, lang, msg.Text, session.StateComplaintText, "enter_complaint_text",
			func(d *session.Draft, v string) { d.TargetOrganization = v })
	case session.StateComplaintText:
		s.stepComplaintText(ctx, chatID, lang, msg.Text)
	case session.StateMediaFiles:
		s.stepMediaFiles(ctx, chatID, lang, msg)
	case session.StateConfirmation:
		s.stepConfirmation(ctx, chatID, lang, msg.Text)
	}
}

func (s *BotService) stepAnonymity(ctx context.Context, chatID int64, lang, text string) {
	switch text {
	case s.Localizer.GetString(lang, "with_data"):
		s.transition(ctx, chatID, session.StateFullName, nil)
		s.sendWithMarkup(chatID, s.Localizer.GetString(lang, "enter_full_name"), tgbotapi.NewRemoveKeyboard(false))
	case s.Localizer.GetString(lang, "anonymous"):
		// Anonymous reporters skip the personal data steps entirely.
		s.transition(ctx, chatID, session.StateRegion, func(d *session.Draft) {
			d.IsAnonymous = true
		})
		s.sendRegionPicker(chatID, lang)
	default:
		s.sendWithMarkup(chatID, s.Localizer.GetString(lang, "anonymity_choice"), AnonymityKeyboard(s.Localizer, lang))
	}
}

func (s *BotService) stepFullName(ctx context.Context, chatID int64, lang, text string) {
	if !ValidFullName(text) {
		s.sendText(chatID, s.Localizer.GetString(lang, "invalid_full_name"))
		return
	}
	name := strings.Join(strings.Fields(text), " ")
	s.transition(ctx, chatID, session.StatePhoneNumber, func(d *session.Draft) {
		d.FullName = name
	})
	s.sendWithMarkup(chatID, s.Localizer.GetString(lang, "enter_phone"), PhoneKeyboard(s.Localizer, lang))
}

func (s *BotService) stepPhoneNumber(ctx context.Context, chatID int64, lang string, msg *tgbotapi.Message) {
	raw := msg.Text
	if msg.Contact != nil {
		raw = msg.Contact.PhoneNumber
	}
	phone, ok := NormalizePhone(raw)
	if !ok {
		s.sendWithMarkup(chatID, s.Localizer.GetString(lang, "invalid_phone"), PhoneKeyboard(s.Localizer, lang))
		return
	}
	s.transition(ctx, chatID, session.StateRegion, func(d *session.Draft) {
		d.PhoneNumber = phone
	})
	s.sendRegionPicker(chatID, lang)
}

func (s *BotService) stepTextField(ctx context.Context, chatID int64, lang, text string, next session.State, promptKey string, set func(*session.Draft, string)) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	s.transition(ctx, chatID, next, func(d *session.Draft) { set(d, text) })
	s.sendText(chatID, s.Localizer.GetString(lang, promptKey))
}

func (s *BotService) stepComplaintText(ctx context.Context, chatID int64, lang, text string) {
	if !ValidComplaintText(text) {
		s.sendText(chatID, s.Localizer.GetString(lang, "complaint_text_too_short"))
		return
	}
	s.transition(ctx, chatID, session.StateMediaFiles, func(d *session.Draft) {
		d.ComplaintText = strings.TrimSpace(text)
	})
	s.sendWithMarkup(chatID, s.Localizer.GetString(lang, "attach_media"), MediaKeyboard(s.Localizer, lang))
}

func (s *BotService) stepMediaFiles(ctx context.Context, chatID int64, lang string, msg *tgbotapi.Message) {
	switch msg.Text {
	case s.Localizer.GetString(lang, "finish_media"), s.Localizer.GetString(lang, "skip"):
		s.showConfirmation(ctx, chatID, lang)
		return
	}

	var file session.MediaFile
	switch {
	case msg.Photo != nil:
		file = session.MediaFile{FileID: msg.Photo[len(msg.Photo)-1].FileID, FileType: models.MediaPhoto}
	case msg.Video != nil:
		file = session.MediaFile{FileID: msg.Video.FileID, FileType: models.MediaVideo}
	case msg.Document != nil:
		file = session.MediaFile{FileID: msg.Document.FileID, FileType: models.MediaDocument, FileName: msg.Document.FileName}
	default:
		s.sendWithMarkup(chatID, s.Localizer.GetString(lang, "attach_media"), MediaKeyboard(s.Localizer, lang))
		return
	}

	sess, err := s.Sessions.Update(ctx, chatID, func(sess *session.Session) {
		sess.Draft.MediaFiles = append(sess.Draft.MediaFiles, file)
	})
	if err != nil {
		s.Log.Errorw("append media", "chat_id", chatID, "error", err)
		s.sendError(chatID, lang)
		return
	}

	count := 0
	for _, m := range sess.Draft.MediaFiles {
		if m.FileType == file.FileType {
			count++
		}
	}
	s.sendText(chatID, s.Localizer.Getf(lang, "media_"+file.FileType+"_received", count))
}

func (s *BotService) showConfirmation(ctx context.Context, chatID int64, lang string) {
	sess, err := s.Sessions.Update(ctx, chatID, func(sess *session.Session) {
		sess.State = session.StateConfirmation
	})
	if err != nil {
		s.Log.Errorw("confirm transition", "chat_id", chatID, "error", err)
		s.sendError(chatID, lang)
		return
	}

	s.sendText(chatID, s.renderSummary(lang, sess.Draft))
	s.sendWithMarkup(chatID, s.Localizer.GetString(lang, "confirmation"), ConfirmationKeyboard(s.Localizer, lang))
}

func (s *BotService) stepConfirmation(ctx context.Context, chatID int64, lang, text string) {
	switch text {
	case s.Localizer.GetString(lang, "send"):
		s.submitComplaint(ctx, chatID, lang)
	case s.Localizer.GetString(lang, "cancel"):
		s.handleCancel(ctx, chatID, lang)
	default:
		s.sendWithMarkup(chatID, s.Localizer.GetString(lang, "confirmation"), ConfirmationKeyboard(s.Localizer, lang))
	}
}

// renderSummary formats the draft for the reporter's confirmation screen.
func (s *BotService) renderSummary(lang string, d session.Draft) string {
	var b strings.Builder
	b.WriteString(s.Localizer.GetString(lang, "summary_title"))
	b.WriteString("\n\n")

	if d.IsAnonymous {
		b.WriteString(s.Localizer.GetString(lang, "summary_anonymous"))
		b.WriteString("\n")
	} else {
		b.WriteString("<b>" + s.Localizer.GetString(lang, "summary_reporter") + ":</b> " + d.FullName + "\n")
		b.WriteString("<b>" + s.Localizer.GetString(lang, "summary_phone") + ":</b> " + d.PhoneNumber + "\n")
	}

	address := d.RegionName + ", " + d.DistrictName
	if d.StreetName != "" {
		address += ", " + d.StreetName
	}
	b.WriteString("<b>" + s.Localizer.GetString(lang, "summary_address") + ":</b> " + address + "\n\n")

	b.WriteString(s.Localizer.GetString(lang, "summary_target") + "\n")
	b.WriteString(s.Localizer.GetString(lang, "summary_target_name") + ": " + orDefault(d.TargetFullName, s.Localizer.GetString(lang, "not_specified")) + "\n")
	b.WriteString(s.Localizer.GetString(lang, "summary_target_position") + ": " + orDefault(d.TargetPosition, s.Localizer.GetString(lang, "not_specified")) + "\n")
	b.WriteString(s.Localizer.GetString(lang, "summary_target_org") + ": " + orDefault(d.TargetOrganization, s.Localizer.GetString(lang, "not_specified")) + "\n\n")

	b.WriteString("<b>" + s.Localizer.GetString(lang, "summary_text") + ":</b>\n" + d.ComplaintText + "\n")

	if n := len(d.MediaFiles); n > 0 {
		b.WriteString("\n" + s.Localizer.Getf(lang, "summary_media_count", n))
	}
	return b.String()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// submitComplaint persists the draft, notifies the review group, and
// returns the reporter to the main menu.
func (s *BotService) submitComplaint(ctx context.Context, chatID int64, lang string) {
	sess, err := s.Sessions.Get(ctx, chatID)
	if err != nil {
		s.Log.Errorw("load session", "chat_id", chatID, "error", err)
		s.sendError(chatID, lang)
		return
	}
	d := sess.Draft

	complaint := &models.Complaint{
		IsAnonymous:        d.IsAnonymous,
		RegionID:           d.RegionID,
		RegionName:         d.RegionName,
		DistrictID:         d.DistrictID,
		DistrictName:       d.DistrictName,
		TargetFullName:     d.TargetFullName,
		TargetPosition:     d.TargetPosition,
		TargetOrganization: d.TargetOrganization,
		ComplaintText:      d.ComplaintText,
		Status:             models.StatusNew,
	}
	if d.StreetID > 0 {
		streetID := d.StreetID
		complaint.StreetID = &streetID
		complaint.StreetName = d.StreetName
	}
	if !d.IsAnonymous {
		complaint.FullName = d.FullName
		complaint.PhoneNumber = d.PhoneNumber
		if user, err := s.Storage.GetUserByTelegramID(chatID); err == nil {
			userID := user.ID
			complaint.UserID = &userID
			complaint.TelegramUsername = user.Username
		}
	}

	media := make([]models.ComplaintMedia, 0, len(d.MediaFiles))
	for _, m := range d.MediaFiles {
		media = append(media, models.ComplaintMedia{
			FileID:   m.FileID,
			FileType: m.FileType,
			FileName: m.FileName,
		})
	}

	if err := s.Storage.CreateComplaintWithMedia(complaint, media); err != nil {
		s.Log.Errorw("save complaint", "chat_id", chatID, "error", err)
		s.sendError(chatID, lang)
		return
	}
	metrics.ComplaintsSubmitted.WithLabelValues(strconv.FormatBool(d.IsAnonymous)).Inc()

	if err := s.Storage.PublishComplaintCreated(complaint); err != nil {
		s.Log.Warnw("publish complaint event", "complaint_id", complaint.ID, "error", err)
	}
	if s.Notifier != nil {
		s.Notifier.Enqueue(complaint)
	}

	if err := s.Sessions.Clear(ctx, chatID); err != nil {
		s.Log.Warnw("clear session", "chat_id", chatID, "error", err)
	}
	s.sendWithMarkup(chatID, s.Localizer.Getf(lang, "complaint_sent", complaint.ID), MainMenuKeyboard(s.Localizer, lang))
}

// transition moves the machine to the next state, optionally mutating the
// draft in the same atomic update.
func (s *BotService) transition(ctx context.Context, chatID int64, next session.State, mutate func(*session.Draft)) {
	_, err := s.Sessions.Update(ctx, chatID, func(sess *session.Session) {
		if mutate != nil {
			mutate(&sess.Draft)
		}
		sess.State = next
	})
	if err != nil {
		s.Log.Errorw("session transition", "chat_id", chatID, "state", next, "error", err)
	}
}

func (s *BotService) sendRegionPicker(chatID int64, lang string) {
	s.sendWithMarkup(chatID, s.Localizer.GetString(lang, "select_region"), RegionsInlineKeyboard(s.Locations.Regions()))
}

// handleFlowCallback routes location-picker callbacks. Callbacks arriving
// in the wrong state (stale keyboards after a restart) are ignored.
func (s *BotService) handleFlowCallback(ctx context.Context, chatID int64, cb *tgbotapi.CallbackQuery) {
	lang := s.userLang(chatID)
	sess, err := s.Sessions.Get(ctx, chatID)
	if err != nil {
		s.Log.Errorw("load session", "chat_id", chatID, "error", err)
		return
	}
	messageID := cb.Message.MessageID
	data := cb.Data

	switch {
	case strings.HasPrefix(data, cbMahallaPagePrefix):
		if sess.State != session.StateMahalla {
			return
		}
		rest := strings.TrimPrefix(data, cbMahallaPagePrefix)
		parts := strings.SplitN(rest, "_", 2)
		if len(parts) != 2 {
			return
		}
		districtID, err1 := strconv.Atoi(parts[0])
		page, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return
		}
		streets := s.Locations.StreetsOf(districtID)
		s.editMarkup(chatID, messageID, s.Localizer.GetString(lang, "select_mahalla"),
			MahallasInlineKeyboard(streets, districtID, page, s.Localizer.GetString(lang, "back")))

	case strings.HasPrefix(data, cbRegionPrefix):
		if sess.State != session.StateRegion {
			return
		}
		id, err := strconv.Atoi(strings.TrimPrefix(data, cbRegionPrefix))
		if err != nil {
			return
		}
		region, ok := s.Locations.Region(id)
		if !ok {
			s.sendText(chatID, s.Localizer.GetString(lang, "location_error"))
			return
		}
		s.transition(ctx, chatID, session.StateDistrict, func(d *session.Draft) {
			d.RegionID = region.ID
			d.RegionName = region.Name
		})
		s.editMarkup(chatID, messageID, s.Localizer.GetString(lang, "select_district"),
			DistrictsInlineKeyboard(s.Locations.DistrictsOf(region.ID), s.Localizer.GetString(lang, "back")))

	case strings.HasPrefix(data, cbDistrictPrefix):
		if sess.State != session.StateDistrict {
			return
		}
		id, err := strconv.Atoi(strings.TrimPrefix(data, cbDistrictPrefix))
		if err != nil {
			return
		}
		district, ok := s.Locations.District(id)
		if !ok {
			s.sendText(chatID, s.Localizer.GetString(lang, "location_error"))
			return
		}
		streets := s.Locations.StreetsOf(district.ID)
		if len(streets) == 0 {
			// District without registered mahallas, go straight to the target.
			s.transition(ctx, chatID, session.StateTargetFullName, func(d *session.Draft) {
				d.DistrictID = district.ID
				d.DistrictName = district.Name
			})
			s.sendText(chatID, s.Localizer.GetString(lang, "enter_target_name"))
			return
		}
		s.transition(ctx, chatID, session.StateMahalla, func(d *session.Draft) {
			d.DistrictID = district.ID
			d.DistrictName = district.Name
		})
		s.editMarkup(chatID, messageID, s.Localizer.GetString(lang, "select_mahalla"),
			MahallasInlineKeyboard(streets, district.ID, 0, s.Localizer.GetString(lang, "back")))

	case strings.HasPrefix(data, cbMahallaPrefix):
		if sess.State != session.StateMahalla {
			return
		}
		id, err := strconv.Atoi(strings.TrimPrefix(data, cbMahallaPrefix))
		if err != nil {
			return
		}
		street, ok := s.Locations.Street(id)
		if !ok {
			s.sendText(chatID, s.Localizer.GetString(lang, "location_error"))
			return
		}
		s.transition(ctx, chatID, session.StateTargetFullName, func(d *session.Draft) {
			d.StreetID = street.ID
			d.StreetName = street.Name
		})
		s.sendText(chatID, s.Localizer.GetString(lang, "enter_target_name"))

	case data == cbBackToRegions:
		if sess.State != session.StateDistrict {
			return
		}
		s.transition(ctx, chatID, session.StateRegion, func(d *session.Draft) {
			d.RegionID = 0
			d.RegionName = ""
		})
		s.editMarkup(chatID, messageID, s.Localizer.GetString(lang, "select_region"),
			RegionsInlineKeyboard(s.Locations.Regions()))

	case data == cbBackToDistricts:
		if sess.State != session.StateMahalla {
			return
		}
		regionID := sess.Draft.RegionID
		s.transition(ctx, chatID, session.StateDistrict, func(d *session.Draft) {
			d.DistrictID = 0
			d.DistrictName = ""
		})
		s.editMarkup(chatID, messageID, s.Localizer.GetString(lang, "select_district"),
			DistrictsInlineKeyboard(s.Locations.DistrictsOf(regionID), s.Localizer.GetString(lang, "back")))
	}
}
