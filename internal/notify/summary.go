// Package notify delivers accepted complaints to the operator review group:
// a summary message plus an archive with the PDF report and any attachments.
package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/justHusniddin/Antikorbot/internal/localization"
	"github.com/justHusniddin/Antikorbot/internal/models"
)

// operatorLang is fixed: the review group works in Uzbek regardless of the
// reporter's interface language.
const operatorLang = models.LangUzbek

// RenderSummary formats the complaint for the operator group message.
func RenderSummary(loc *localization.Localizer, c *models.Complaint) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🆔 <b>Shikoyat #%d</b>\n", c.ID))
	b.WriteString("📅 " + c.CreatedAt.Format("02.01.2006 15:04") + "\n\n")

	if c.IsAnonymous {
		b.WriteString(loc.GetString(operatorLang, "summary_anonymous") + "\n")
	} else {
		b.WriteString("<b>" + loc.GetString(operatorLang, "summary_reporter") + ":</b> " + c.FullName + "\n")
		b.WriteString("<b>" + loc.GetString(operatorLang, "summary_phone") + ":</b> " + c.PhoneNumber + "\n")
		if c.TelegramUsername != "" {
			b.WriteString("<b>Telegram:</b> @" + c.TelegramUsername + "\n")
		}
	}

	b.WriteString("<b>" + loc.GetString(operatorLang, "summary_address") + ":</b> " + c.FullAddress() + "\n\n")

	notSpecified := loc.GetString(operatorLang, "not_specified")
	b.WriteString(loc.GetString(operatorLang, "summary_target") + "\n")
	b.WriteString(loc.GetString(operatorLang, "summary_target_name") + ": " + fallback(c.TargetFullName, notSpecified) + "\n")
	b.WriteString(loc.GetString(operatorLang, "summary_target_position") + ": " + fallback(c.TargetPosition, notSpecified) + "\n")
	b.WriteString(loc.GetString(operatorLang, "summary_target_org") + ": " + fallback(c.TargetOrganization, notSpecified) + "\n\n")

	b.WriteString("<b>" + loc.GetString(operatorLang, "summary_text") + ":</b>\n" + c.ComplaintText + "\n")

	if n := len(c.MediaFiles); n > 0 {
		b.WriteString("\n" + loc.Getf(operatorLang, "summary_media_count", n))
	}
	return b.String()
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// pdfLines flattens the complaint into plain-text lines for the PDF report.
func pdfLines(loc *localization.Localizer, c *models.Complaint) []string {
	notSpecified := loc.GetString(operatorLang, "not_specified")

	lines := []string{
		fmt.Sprintf("Shikoyat #%d", c.ID),
		"Sana: " + c.CreatedAt.Format(time.DateTime),
		"",
	}
	if c.IsAnonymous {
		lines = append(lines, "Turi: anonim shikoyat")
	} else {
		lines = append(lines,
			"Ariza beruvchi: "+c.FullName,
			"Telefon: "+c.PhoneNumber,
		)
	}
	lines = append(lines,
		"Manzil: "+c.FullAddress(),
		"",
		"Kimga: "+fallback(c.TargetFullName, notSpecified),
		"Lavozim: "+fallback(c.TargetPosition, notSpecified),
		"Tashkilot: "+fallback(c.TargetOrganization, notSpecified),
		"",
		"Shikoyat matni:",
		c.ComplaintText,
	)
	if n := len(c.MediaFiles); n > 0 {
		lines = append(lines, "", fmt.Sprintf("Biriktirilgan fayllar: %d", n))
	}
	return lines
}
