package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/justHusniddin/Antikorbot/internal/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrComplaintResolved is returned when a status change is attempted on
	// a resolved complaint. Only admin notes may change after resolution.
	ErrComplaintResolved = errors.New("complaint is resolved and its status is immutable")
)

// ComplaintEventChannel is the Redis pub/sub channel carrying newly created
// complaints for the admin live feed.
const ComplaintEventChannel = "complaints:new"

// ComplaintFilter narrows ListComplaints. Zero values mean "no constraint".
type ComplaintFilter struct {
	Status      models.ComplaintStatus
	RegionID    int
	IsAnonymous *bool
	From        *time.Time
	To          *time.Time
	Query       string // matches reporter, target, organization, text
	Limit       int
	Offset      int
}

// ComplaintStats is the point-in-time aggregate shown in the admin panel.
type ComplaintStats struct {
	Total      int64 `json:"total"`
	New        int64 `json:"new"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
	Rejected   int64 `json:"rejected"`
	Today      int64 `json:"today"`
	Week       int64 `json:"week"`
	Month      int64 `json:"month"`
	Anonymous  int64 `json:"anonymous"`
	TotalUsers int64 `json:"total_users"`
}

type Storage interface {
	SaveUserIfNotExists(telegramID int64, username, firstName, lastName string) (*models.TelegramUser, error)
	GetUserByTelegramID(telegramID int64) (*models.TelegramUser, error)
	UpdateUserLanguage(telegramID int64, lang string) error
	SetUserBlocked(telegramID int64, blocked bool) error
	ListActiveUsers() ([]models.TelegramUser, error)
	ListUsers(limit, offset int) ([]models.TelegramUser, int64, error)

	CreateComplaintWithMedia(c *models.Complaint, media []models.ComplaintMedia) error
	GetComplaintByID(id uint) (*models.Complaint, error)
	ListComplaints(f ComplaintFilter) ([]models.Complaint, int64, error)
	AllComplaints() ([]models.Complaint, error)
	UpdateComplaint(id uint, status *models.ComplaintStatus, adminNotes *string) (*models.Complaint, error)
	BulkUpdateStatus(ids []uint, status models.ComplaintStatus) (int64, error)
	ComplaintStats() (*ComplaintStats, error)

	SaveBroadcast(b *models.BroadcastMessage) error
	ListBroadcasts() ([]models.BroadcastMessage, error)

	PublishComplaintCreated(c *models.Complaint) error
}

// Service implements Storage on top of Postgres (gorm) and Redis (events).
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client

	ctx context.Context
}

// NewService constructs the storage service. Redis may be nil; complaint
// events are then silently skipped (tests, offline tools).
func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

// AutoMigrate creates or updates the schema for every model.
func (s *Service) AutoMigrate() error {
	return s.DB.AutoMigrate(
		&models.TelegramUser{},
		&models.Complaint{},
		&models.ComplaintMedia{},
		&models.BroadcastMessage{},
	)
}

// SaveUserIfNotExists upserts the user by telegram ID and refreshes the
// profile name fields on every contact.
func (s *Service) SaveUserIfNotExists(telegramID int64, username, firstName, lastName string) (*models.TelegramUser, error) {
	var user models.TelegramUser

	defaults := models.TelegramUser{
		TelegramID: telegramID,
		Username:   username,
		FirstName:  firstName,
		LastName:   lastName,
	}

	result := s.DB.Where("telegram_id = ?", telegramID).FirstOrCreate(&user, defaults)
	if result.Error != nil {
		return nil, fmt.Errorf("upsert user %d: %w", telegramID, result.Error)
	}

	if result.RowsAffected == 0 {
		// Existing user: refresh the profile fields.
		user.Username = username
		user.FirstName = firstName
		user.LastName = lastName
		if err := s.DB.Save(&user).Error; err != nil {
			return nil, fmt.Errorf("refresh user %d: %w", telegramID, err)
		}
	}

	return &user, nil
}

func (s *Service) GetUserByTelegramID(telegramID int64) (*models.TelegramUser, error) {
	var user models.TelegramUser
	err := s.DB.Where("telegram_id = ?", telegramID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) UpdateUserLanguage(telegramID int64, lang string) error {
	return s.DB.Model(&models.TelegramUser{}).
		Where("telegram_id = ?", telegramID).
		Update("language", lang).Error
}

func (s *Service) SetUserBlocked(telegramID int64, blocked bool) error {
	return s.DB.Model(&models.TelegramUser{}).
		Where("telegram_id = ?", telegramID).
		Update("is_blocked", blocked).Error
}

// ListActiveUsers returns every non-blocked user, the broadcast audience.
func (s *Service) ListActiveUsers() ([]models.TelegramUser, error) {
	var users []models.TelegramUser
	if err := s.DB.Where("is_blocked = ?", false).Order("created_at asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Service) ListUsers(limit, offset int) ([]models.TelegramUser, int64, error) {
	var users []models.TelegramUser
	var total int64

	tx := s.DB.Model(&models.TelegramUser{})
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if offset > 0 {
		tx = tx.Offset(offset)
	}
	if err := tx.Order("created_at desc").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// CreateComplaintWithMedia persists the complaint and all its media rows in
// one transaction, so a crash can never leave a complaint with partial
// attachments.
func (s *Service) CreateComplaintWithMedia(c *models.Complaint, media []models.ComplaintMedia) error {
	if c.Status == "" {
		c.Status = models.StatusNew
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return fmt.Errorf("create complaint: %w", err)
		}
		for i := range media {
			media[i].ComplaintID = c.ID
			if err := tx.Create(&media[i]).Error; err != nil {
				return fmt.Errorf("create media %d: %w", i, err)
			}
		}
		c.MediaFiles = media
		return nil
	})
}

func (s *Service) GetComplaintByID(id uint) (*models.Complaint, error) {
	var c models.Complaint
	err := s.DB.Preload("MediaFiles").Preload("User").First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) ListComplaints(f ComplaintFilter) ([]models.Complaint, int64, error) {
	var items []models.Complaint
	var total int64

	tx := s.DB.Model(&models.Complaint{})
	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	if f.RegionID != 0 {
		tx = tx.Where("region_id = ?", f.RegionID)
	}
	if f.IsAnonymous != nil {
		tx = tx.Where("is_anonymous = ?", *f.IsAnonymous)
	}
	if f.From != nil {
		tx = tx.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		tx = tx.Where("created_at < ?", *f.To)
	}
	if f.Query != "" {
		q := "%" + f.Query + "%"
		tx = tx.Where(
			"full_name ILIKE ? OR phone_number ILIKE ? OR target_full_name ILIKE ? OR target_organization ILIKE ? OR complaint_text ILIKE ?",
			q, q, q, q, q,
		)
	}

	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if f.Limit > 0 {
		tx = tx.Limit(f.Limit)
	}
	if f.Offset > 0 {
		tx = tx.Offset(f.Offset)
	}
	if err := tx.Order("created_at desc").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// AllComplaints returns the full table newest-first, for exports.
func (s *Service) AllComplaints() ([]models.Complaint, error) {
	var items []models.Complaint
	if err := s.DB.Preload("MediaFiles").Order("created_at desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateComplaint applies a status and/or admin-notes change. A resolved
// complaint accepts only notes changes; ResolvedAt is stamped on the
// transition into resolved.
func (s *Service) UpdateComplaint(id uint, status *models.ComplaintStatus, adminNotes *string) (*models.Complaint, error) {
	var c models.Complaint
	if err := s.DB.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	changes := map[string]interface{}{}
	if status != nil && *status != c.Status {
		if c.Status == models.StatusResolved {
			return nil, ErrComplaintResolved
		}
		changes["status"] = *status
		if *status == models.StatusResolved {
			changes["resolved_at"] = time.Now()
		}
	}
	if adminNotes != nil {
		changes["admin_notes"] = *adminNotes
	}
	if len(changes) == 0 {
		return &c, nil
	}

	if err := s.DB.Model(&c).Updates(changes).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// BulkUpdateStatus transitions every selected complaint in one transaction;
// either all selected records change or none do. Resolved complaints in the
// selection abort the batch.
func (s *Service) BulkUpdateStatus(ids []uint, status models.ComplaintStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var updated int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var resolved int64
		if err := tx.Model(&models.Complaint{}).
			Where("id IN ? AND status = ?", ids, models.StatusResolved).
			Count(&resolved).Error; err != nil {
			return err
		}
		if resolved > 0 && status != models.StatusResolved {
			return ErrComplaintResolved
		}

		changes := map[string]interface{}{"status": status}
		if status == models.StatusResolved {
			changes["resolved_at"] = time.Now()
		}
		result := tx.Model(&models.Complaint{}).Where("id IN ?", ids).Updates(changes)
		if result.Error != nil {
			return result.Error
		}
		updated = result.RowsAffected
		return nil
	})
	return updated, err
}

func (s *Service) ComplaintStats() (*ComplaintStats, error) {
	stats := &ComplaintStats{}
	counts := []struct {
		dst  *int64
		cond func(*gorm.DB) *gorm.DB
	}{
		{&stats.Total, func(tx *gorm.DB) *gorm.DB { return tx }},
		{&stats.New, byStatus(models.StatusNew)},
		{&stats.InProgress, byStatus(models.StatusInProgress)},
		{&stats.Resolved, byStatus(models.StatusResolved)},
		{&stats.Rejected, byStatus(models.StatusRejected)},
		{&stats.Anonymous, func(tx *gorm.DB) *gorm.DB { return tx.Where("is_anonymous = ?", true) }},
		{&stats.Today, since(startOfToday())},
		{&stats.Week, since(time.Now().AddDate(0, 0, -7))},
		{&stats.Month, since(time.Now().AddDate(0, 0, -30))},
	}

	for _, c := range counts {
		if err := c.cond(s.DB.Model(&models.Complaint{})).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	if err := s.DB.Model(&models.TelegramUser{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func byStatus(status models.ComplaintStatus) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB { return tx.Where("status = ?", status) }
}

func since(t time.Time) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB { return tx.Where("created_at >= ?", t) }
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func (s *Service) SaveBroadcast(b *models.BroadcastMessage) error {
	return s.DB.Create(b).Error
}

func (s *Service) ListBroadcasts() ([]models.BroadcastMessage, error) {
	var items []models.BroadcastMessage
	if err := s.DB.Order("created_at desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// PublishComplaintCreated pushes the new complaint onto the Redis channel
// consumed by the admin live feed. A nil Redis client makes this a no-op.
func (s *Service) PublishComplaintCreated(c *models.Complaint) error {
	if s.Redis == nil {
		return nil
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.ctx, ComplaintEventChannel, payload).Err()
}

// SubscribeComplaintEvents subscribes to the new-complaint channel. Caller
// owns the returned PubSub and must Close it.
func (s *Service) SubscribeComplaintEvents() *redis.PubSub {
	return s.Redis.Subscribe(s.ctx, ComplaintEventChannel)
}
