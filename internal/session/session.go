// Package session holds the per-chat conversation state: the current state
// label of the intake machine and the complaint draft accumulated so far.
// All mutation goes through Store.Update, an atomic read-modify-write per
// chat key, so two rapid updates for the same chat can never interleave.
package session

import "context"

// State labels of the conversation state machine.
type State string

const (
	StateIdle State = ""

	StateAnonymity          State = "anonymity"
	StateFullName           State = "full_name"
	StatePhoneNumber        State = "phone_number"
	StateRegion             State = "region"
	StateDistrict           State = "district"
	StateMahalla            State = "mahalla"
	StateTargetFullName     State = "target_full_name"
	StateTargetPosition     State = "target_position"
	StateTargetOrganization State = "target_organization"
	StateComplaintText      State = "complaint_text"
	StateMediaFiles         State = "media_files"
	StateConfirmation       State = "confirmation"

	StateBroadcastText State = "broadcast_text"
)

// MediaFile is one attachment accumulated during the media_files state.
type MediaFile struct {
	FileID   string `json:"file_id"`
	FileType string `json:"file_type"`
	FileName string `json:"file_name,omitempty"`
}

// Draft is the in-progress complaint. It lives only inside the session and
// is discarded on cancel or cleared after a successful submission.
type Draft struct {
	Language    string `json:"language,omitempty"`
	IsAnonymous bool   `json:"is_anonymous,omitempty"`

	FullName    string `json:"full_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`

	RegionID     int    `json:"region_id,omitempty"`
	RegionName   string `json:"region_name,omitempty"`
	DistrictID   int    `json:"district_id,omitempty"`
	DistrictName string `json:"district_name,omitempty"`
	StreetID     int    `json:"street_id,omitempty"`
	StreetName   string `json:"street_name,omitempty"`

	TargetFullName     string `json:"target_full_name,omitempty"`
	TargetPosition     string `json:"target_position,omitempty"`
	TargetOrganization string `json:"target_organization,omitempty"`
	ComplaintText      string `json:"complaint_text,omitempty"`

	MediaFiles []MediaFile `json:"media_files,omitempty"`
}

// Session is the value stored per chat.
type Session struct {
	State State `json:"state"`
	Draft Draft `json:"draft"`
}

// Store is the session-keyed state store. Get returns a zero Session for
// unknown chats. Update applies fn to the current session under a per-key
// lock and persists the result. Clear discards the session entirely.
type Store interface {
	Get(ctx context.Context, chatID int64) (Session, error)
	Update(ctx context.Context, chatID int64, fn func(*Session)) (Session, error)
	Clear(ctx context.Context, chatID int64) error
}
