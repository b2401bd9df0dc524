package notify

import (
	"archive/zip"
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justHusniddin/Antikorbot/internal/localization"
	"github.com/justHusniddin/Antikorbot/internal/models"
)

func testLocalizer(t *testing.T) *localization.Localizer {
	t.Helper()
	loc, err := localization.NewLocalizer("../../locales")
	require.NoError(t, err)
	return loc
}

func testComplaint() *models.Complaint {
	return &models.Complaint{
		ID:             7,
		FullName:       "Иван Петров",
		PhoneNumber:    "+998901234567",
		RegionName:     "Toshkent",
		DistrictName:   "Chilonzor",
		StreetName:     "Olmazor",
		TargetFullName: "Karimov K.",
		ComplaintText:  "Hujjat uchun pora talab qilindi",
		CreatedAt:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		MediaFiles: []models.ComplaintMedia{
			{FileID: "f1", FileType: models.MediaPhoto},
			{FileID: "f2", FileType: models.MediaDocument, FileName: "dalil.pdf"},
		},
	}
}

func TestRenderSummary(t *testing.T) {
	loc := testLocalizer(t)
	text := RenderSummary(loc, testComplaint())

	assert.Contains(t, text, "Shikoyat #7")
	assert.Contains(t, text, "Иван Петров")
	assert.Contains(t, text, "+998901234567")
	assert.Contains(t, text, "Toshkent, Chilonzor, Olmazor")
	assert.Contains(t, text, "Karimov K.")
	assert.Contains(t, text, "Hujjat uchun pora talab qilindi")
	assert.Contains(t, text, "2") // attachment count
}

func TestRenderSummaryAnonymousHidesReporter(t *testing.T) {
	loc := testLocalizer(t)
	c := testComplaint()
	c.IsAnonymous = true

	text := RenderSummary(loc, c)

	assert.NotContains(t, text, "Иван Петров")
	assert.NotContains(t, text, "+998901234567")
	assert.Contains(t, text, loc.GetString("uz", "summary_anonymous"))
}

func TestPDFLinesFallBackToNotSpecified(t *testing.T) {
	loc := testLocalizer(t)
	c := testComplaint()
	c.TargetPosition = ""
	c.TargetOrganization = ""

	lines := pdfLines(loc, c)
	joined := ""
	for _, l := range lines {
		joined += l + "\n"
	}

	assert.Contains(t, joined, "Lavozim: "+loc.GetString("uz", "not_specified"))
	assert.Contains(t, joined, "Tashkilot: "+loc.GetString("uz", "not_specified"))
	assert.Contains(t, joined, "Shikoyat #7")
}

func TestWriteZipEntry(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	require.NoError(t, writeZipEntry(zw, "a.txt", []byte("hello")))
	require.NoError(t, writeZipEntry(zw, "b.txt", []byte("world")))
	require.NoError(t, zw.Close())

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "a.txt", zr.File[0].Name)
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".jpg", extensionFor(models.MediaPhoto, "https://api.telegram.org/file/bot123/photos/file_1"))
	assert.Equal(t, ".mp4", extensionFor(models.MediaVideo, "https://api.telegram.org/file/bot123/videos/file_2"))
	assert.Equal(t, ".png", extensionFor(models.MediaPhoto, "https://api.telegram.org/file/bot123/photos/file.png"))
	assert.Equal(t, ".bin", extensionFor(models.MediaDocument, "https://api.telegram.org/file/bot123/documents/file_3"))
}
