// Package export renders complaint reports in the formats the admin panel
// serves: CSV for spreadsheets and XLSX for the office suite.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/justHusniddin/Antikorbot/internal/models"
)

// csvHeader is bilingual so the file opens readable for both operator
// audiences without a separate localized export.
var csvHeader = []string{
	"ID",
	"Дата / Sana",
	"Статус / Holat",
	"Анонимно / Anonim",
	"ФИО заявителя / Ariza beruvchi",
	"Телефон / Telefon",
	"Регион / Viloyat",
	"Район / Tuman",
	"Махалля / MFY",
	"На кого / Kimga",
	"Должность / Lavozim",
	"Организация / Tashkilot",
	"Текст жалобы / Shikoyat matni",
	"Файлы / Fayllar",
	"Примечания / Izohlar",
}

// ComplaintsCSV renders the complaints as UTF-8 CSV. A BOM is prepended so
// Excel detects the encoding and Cyrillic survives the double-click open.
func ComplaintsCSV(items []models.Complaint) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("\uFEFF")

	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, c := range items {
		if err := w.Write(complaintRow(c)); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", c.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func complaintRow(c models.Complaint) []string {
	anon := "—"
	fullName := c.FullName
	phone := c.PhoneNumber
	if c.IsAnonymous {
		anon = "✓"
		fullName = ""
		phone = ""
	}
	return []string{
		strconv.FormatUint(uint64(c.ID), 10),
		c.CreatedAt.Format(time.DateTime),
		string(c.Status),
		anon,
		fullName,
		phone,
		c.RegionName,
		c.DistrictName,
		c.StreetName,
		c.TargetFullName,
		c.TargetPosition,
		c.TargetOrganization,
		c.ComplaintText,
		strconv.Itoa(len(c.MediaFiles)),
		c.AdminNotes,
	}
}
