package notify

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/justHusniddin/Antikorbot/internal/localization"
	"github.com/justHusniddin/Antikorbot/internal/models"
	"github.com/justHusniddin/Antikorbot/pkg/metrics"
)

// API covers the Bot API calls the notifier makes.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

const jobBuffer = 100

// Service delivers accepted complaints to the review group off the intake
// path: the reporter gets their confirmation immediately, delivery runs on
// a worker goroutine fed by a job channel.
type Service struct {
	API       API
	Localizer *localization.Localizer
	Log       *zap.SugaredLogger

	GroupID  int64
	FontPath string

	jobs   chan *models.Complaint
	client *http.Client
}

func NewService(api API, loc *localization.Localizer, groupID int64, fontPath string, log *zap.SugaredLogger) *Service {
	return &Service{
		API:       api,
		Localizer: loc,
		Log:       log,
		GroupID:   groupID,
		FontPath:  fontPath,
		jobs:      make(chan *models.Complaint, jobBuffer),
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Enqueue hands a complaint to the worker. It never blocks the caller: if
// the queue is full the job is dropped and logged, the complaint itself is
// already persisted.
func (s *Service) Enqueue(c *models.Complaint) {
	select {
	case s.jobs <- c:
	default:
		metrics.NotifierJobs.WithLabelValues("failed").Inc()
		s.Log.Errorw("notifier queue full, dropping job", "complaint_id", c.ID)
	}
}

// Start runs the delivery worker until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case c := <-s.jobs:
				if err := s.deliver(c); err != nil {
					metrics.NotifierJobs.WithLabelValues("failed").Inc()
					s.Log.Errorw("deliver complaint to group", "complaint_id", c.ID, "error", err)
					continue
				}
				metrics.NotifierJobs.WithLabelValues("delivered").Inc()
			}
		}
	}()
}

// deliver posts the summary message and, when the complaint has a report
// worth bundling, the archive document.
func (s *Service) deliver(c *models.Complaint) error {
	msg := tgbotapi.NewMessage(s.GroupID, RenderSummary(s.Localizer, c))
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := s.API.Send(msg); err != nil {
		return fmt.Errorf("send summary: %w", err)
	}

	archive, err := s.buildArchive(c)
	if err != nil {
		return fmt.Errorf("build archive: %w", err)
	}

	doc := tgbotapi.NewDocument(s.GroupID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("complaint_%d.zip", c.ID),
		Bytes: archive,
	})
	if _, err := s.API.Send(doc); err != nil {
		return fmt.Errorf("send archive: %w", err)
	}
	return nil
}

// buildArchive zips the PDF report together with every attachment that
// could be downloaded. A failed download skips the file, never the job.
func (s *Service) buildArchive(c *models.Complaint) ([]byte, error) {
	dir := filepath.Join(os.TempDir(), "antikor-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	report, err := BuildPDF(s.Localizer, c, s.FontPath)
	if err != nil {
		return nil, err
	}
	if err := writeZipEntry(zw, fmt.Sprintf("complaint_%d.pdf", c.ID), report); err != nil {
		return nil, err
	}

	for i, m := range c.MediaFiles {
		path, err := s.downloadMedia(dir, i, m)
		if err != nil {
			s.Log.Warnw("skip attachment", "complaint_id", c.ID, "file_id", m.FileID, "error", err)
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			s.Log.Warnw("skip attachment", "complaint_id", c.ID, "file_id", m.FileID, "error", err)
			continue
		}
		if err := writeZipEntry(zw, filepath.Base(path), data); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) downloadMedia(dir string, index int, m models.ComplaintMedia) (string, error) {
	url, err := s.API.GetFileDirectURL(m.FileID)
	if err != nil {
		return "", fmt.Errorf("resolve file url: %w", err)
	}

	resp, err := s.client.Get(url)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download: unexpected status %d", resp.StatusCode)
	}

	name := m.FileName
	if name == "" {
		name = fmt.Sprintf("%s_%d%s", m.FileType, index+1, extensionFor(m.FileType, url))
	}
	path := filepath.Join(dir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

func extensionFor(fileType, url string) string {
	if ext := filepath.Ext(url); ext != "" && len(ext) <= 5 {
		return ext
	}
	switch fileType {
	case models.MediaPhoto:
		return ".jpg"
	case models.MediaVideo:
		return ".mp4"
	default:
		return ".bin"
	}
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write zip entry %s: %w", name, err)
	}
	return nil
}
