package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/justHusniddin/Antikorbot/internal/localization"
	"github.com/justHusniddin/Antikorbot/internal/locations"
)

// MahallasPerPage is how many mahalla buttons fit on one picker page.
const MahallasPerPage = 30

const (
	cbRegionPrefix      = "region_"
	cbDistrictPrefix    = "district_"
	cbMahallaPrefix     = "mahalla_"
	cbMahallaPagePrefix = "mahalla_page_"
	cbBackToRegions     = "back_to_regions"
	cbBackToDistricts   = "back_to_districts"
	cbLangPrefix        = "set_lang_"
)

// LanguageInlineKeyboard offers the two supported interface languages.
func LanguageInlineKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇺🇿 O'zbekcha", cbLangPrefix+"uz"),
			tgbotapi.NewInlineKeyboardButtonData("🇷🇺 Русский", cbLangPrefix+"ru"),
		),
	)
}

func MainMenuKeyboard(loc *localization.Localizer, lang string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(loc.GetString(lang, "submit_complaint")),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(loc.GetString(lang, "info")),
			tgbotapi.NewKeyboardButton(loc.GetString(lang, "change_language")),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func AnonymityKeyboard(loc *localization.Localizer, lang string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(loc.GetString(lang, "with_data")),
			tgbotapi.NewKeyboardButton(loc.GetString(lang, "anonymous")),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// PhoneKeyboard requests the phone via Telegram's contact-sharing button;
// the user may still type the number manually.
func PhoneKeyboard(loc *localization.Localizer, lang string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonContact(loc.GetString(lang, "send_phone")),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func MediaKeyboard(loc *localization.Localizer, lang string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(loc.GetString(lang, "finish_media")),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(loc.GetString(lang, "skip")),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func ConfirmationKeyboard(loc *localization.Localizer, lang string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(loc.GetString(lang, "send")),
			tgbotapi.NewKeyboardButton(loc.GetString(lang, "cancel")),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// RegionsInlineKeyboard lists every region, two buttons per row.
func RegionsInlineKeyboard(regions []locations.Region) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, r := range regions {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(r.Name, fmt.Sprintf("%s%d", cbRegionPrefix, r.ID)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// DistrictsInlineKeyboard lists a region's districts with a back row.
func DistrictsInlineKeyboard(districts []locations.District, backLabel string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, d := range districts {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(d.Name, fmt.Sprintf("%s%d", cbDistrictPrefix, d.ID)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(backLabel, cbBackToRegions),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// MahallasInlineKeyboard renders one page of a district's mahallas with
// pagination controls. Page numbering starts at zero; out-of-range pages
// are clamped.
func MahallasInlineKeyboard(streets []locations.Street, districtID, page int, backLabel string) tgbotapi.InlineKeyboardMarkup {
	lastPage := 0
	if len(streets) > 0 {
		lastPage = (len(streets) - 1) / MahallasPerPage
	}
	if page < 0 {
		page = 0
	}
	if page > lastPage {
		page = lastPage
	}

	start := page * MahallasPerPage
	end := start + MahallasPerPage
	if end > len(streets) {
		end = len(streets)
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, st := range streets[start:end] {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(st.Name, fmt.Sprintf("%s%d", cbMahallaPrefix, st.ID)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	var nav []tgbotapi.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⬅️", fmt.Sprintf("%s%d_%d", cbMahallaPagePrefix, districtID, page-1)))
	}
	if end < len(streets) {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("➡️", fmt.Sprintf("%s%d_%d", cbMahallaPagePrefix, districtID, page+1)))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(backLabel, cbBackToDistricts),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
