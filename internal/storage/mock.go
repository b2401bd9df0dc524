package storage

import (
	"github.com/stretchr/testify/mock"

	"github.com/justHusniddin/Antikorbot/internal/models"
)

// MockStorage is a testify mock of Storage for handler and service tests.
type MockStorage struct {
	mock.Mock
}

var _ Storage = (*MockStorage)(nil)

func (m *MockStorage) SaveUserIfNotExists(telegramID int64, username, firstName, lastName string) (*models.TelegramUser, error) {
	args := m.Called(telegramID, username, firstName, lastName)
	if u := args.Get(0); u != nil {
		return u.(*models.TelegramUser), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) GetUserByTelegramID(telegramID int64) (*models.TelegramUser, error) {
	args := m.Called(telegramID)
	if u := args.Get(0); u != nil {
		return u.(*models.TelegramUser), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) UpdateUserLanguage(telegramID int64, lang string) error {
	return m.Called(telegramID, lang).Error(0)
}

func (m *MockStorage) SetUserBlocked(telegramID int64, blocked bool) error {
	return m.Called(telegramID, blocked).Error(0)
}

func (m *MockStorage) ListActiveUsers() ([]models.TelegramUser, error) {
	args := m.Called()
	if u := args.Get(0); u != nil {
		return u.([]models.TelegramUser), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) ListUsers(limit, offset int) ([]models.TelegramUser, int64, error) {
	args := m.Called(limit, offset)
	var users []models.TelegramUser
	if u := args.Get(0); u != nil {
		users = u.([]models.TelegramUser)
	}
	return users, args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) CreateComplaintWithMedia(c *models.Complaint, media []models.ComplaintMedia) error {
	return m.Called(c, media).Error(0)
}

func (m *MockStorage) GetComplaintByID(id uint) (*models.Complaint, error) {
	args := m.Called(id)
	if c := args.Get(0); c != nil {
		return c.(*models.Complaint), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) ListComplaints(f ComplaintFilter) ([]models.Complaint, int64, error) {
	args := m.Called(f)
	var items []models.Complaint
	if c := args.Get(0); c != nil {
		items = c.([]models.Complaint)
	}
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) AllComplaints() ([]models.Complaint, error) {
	args := m.Called()
	if c := args.Get(0); c != nil {
		return c.([]models.Complaint), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) UpdateComplaint(id uint, status *models.ComplaintStatus, adminNotes *string) (*models.Complaint, error) {
	args := m.Called(id, status, adminNotes)
	if c := args.Get(0); c != nil {
		return c.(*models.Complaint), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) BulkUpdateStatus(ids []uint, status models.ComplaintStatus) (int64, error) {
	args := m.Called(ids, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) ComplaintStats() (*ComplaintStats, error) {
	args := m.Called()
	if s := args.Get(0); s != nil {
		return s.(*ComplaintStats), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) SaveBroadcast(b *models.BroadcastMessage) error {
	return m.Called(b).Error(0)
}

func (m *MockStorage) ListBroadcasts() ([]models.BroadcastMessage, error) {
	args := m.Called()
	if b := args.Get(0); b != nil {
		return b.([]models.BroadcastMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) PublishComplaintCreated(c *models.Complaint) error {
	return m.Called(c).Error(0)
}
