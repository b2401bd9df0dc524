package models

import (
	"strings"
	"time"
)

type ComplaintStatus string

const (
	StatusNew        ComplaintStatus = "new"
	StatusInProgress ComplaintStatus = "in_progress"
	StatusResolved   ComplaintStatus = "resolved"
	StatusRejected   ComplaintStatus = "rejected"
)

// ValidStatus reports whether s is one of the known complaint statuses.
func ValidStatus(s ComplaintStatus) bool {
	switch s {
	case StatusNew, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// Complaint is a finalized corruption report submitted through the bot.
// Region and district are always present; street and reporter identity are
// filled only when selected or when the report is not anonymous.
type Complaint struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// UserID is a nullable back-reference so the complaint survives user
	// deletion.
	UserID *uint         `gorm:"index" json:"user_id,omitempty"`
	User   *TelegramUser `gorm:"constraint:OnDelete:SET NULL" json:"user,omitempty"`

	IsAnonymous bool `gorm:"default:false;index" json:"is_anonymous"`

	// Reporter identity, empty for anonymous complaints.
	FullName         string `gorm:"type:varchar(255)" json:"full_name,omitempty"`
	PhoneNumber      string `gorm:"type:varchar(20)" json:"phone_number,omitempty"`
	TelegramUsername string `gorm:"type:varchar(255)" json:"telegram_username,omitempty"`

	RegionID     int    `gorm:"not null;index:idx_region_created" json:"region_id"`
	RegionName   string `gorm:"type:varchar(255);not null" json:"region_name"`
	DistrictID   int    `gorm:"not null" json:"district_id"`
	DistrictName string `gorm:"type:varchar(255);not null" json:"district_name"`
	StreetID     *int   `json:"street_id,omitempty"`
	StreetName   string `gorm:"type:varchar(255)" json:"street_name,omitempty"`

	TargetFullName     string `gorm:"type:varchar(255);not null" json:"target_full_name"`
	TargetPosition     string `gorm:"type:varchar(255);not null" json:"target_position"`
	TargetOrganization string `gorm:"type:varchar(500);not null" json:"target_organization"`

	ComplaintText string `gorm:"type:text;not null" json:"complaint_text"`

	Status     ComplaintStatus `gorm:"type:varchar(20);default:'new';index:idx_status_created" json:"status"`
	AdminNotes string          `gorm:"type:text" json:"admin_notes,omitempty"`

	MediaFiles []ComplaintMedia `gorm:"foreignKey:ComplaintID;constraint:OnDelete:CASCADE" json:"media_files,omitempty"`

	CreatedAt  time.Time  `gorm:"index:idx_status_created;index:idx_region_created" json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// FullAddress renders "region, district[, street]".
func (c *Complaint) FullAddress() string {
	parts := []string{c.RegionName, c.DistrictName}
	if c.StreetName != "" {
		parts = append(parts, c.StreetName)
	}
	return strings.Join(parts, ", ")
}

// Media file kinds accepted by the intake flow.
const (
	MediaPhoto    = "photo"
	MediaVideo    = "video"
	MediaDocument = "document"
)

// ComplaintMedia is one attached file reference, owned by exactly one
// complaint and cascade-deleted with it.
type ComplaintMedia struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ComplaintID uint   `gorm:"not null;index" json:"complaint_id"`
	FileID      string `gorm:"type:varchar(255);not null" json:"file_id"`
	FileType    string `gorm:"type:varchar(20);not null" json:"file_type"`
	FileName    string `gorm:"type:varchar(255)" json:"file_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
