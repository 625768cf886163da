package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enumerated attribute values.
var (
	Industries      = []string{"tech", "healthcare", "finance", "education"}
	Stages          = []string{"idea", "mvp", "launched", "scaling"}
	BusinessModels  = []string{"B2B", "B2C", "C2C", "Other"}
	FundingStatuses = []string{"bootstrapped", "seedFunded", "seriesA", "seriesB", "seriesC"}
	ContactOptions  = []string{"Email", "Phone", "Fax"}
)

// DefaultContactMethods applies when no preference was given.
var DefaultContactMethods = ContactMethods{"Email"}

// Attachment is an uploaded file kept inline with its record.
type Attachment struct {
	Data        []byte `gorm:"type:mediumblob"`
	ContentType string `gorm:"type:varchar(255)"`
	FileName    string `gorm:"type:varchar(255)"`
}

// IsZero reports whether nothing was ever stored.
func (a Attachment) IsZero() bool {
	return len(a.Data) == 0 && a.ContentType == "" && a.FileName == ""
}

// ContactMethods is stored as a comma separated column.
type ContactMethods []string

// ParseContactMethods splits a comma separated list, trimming blanks and
// dropping duplicates while keeping the first-seen order.
func ParseContactMethods(raw string) ContactMethods {
	methods := ContactMethods{}
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		methods = append(methods, part)
	}
	return methods
}

func (m ContactMethods) Value() (driver.Value, error) {
	return strings.Join(m, ","), nil
}

func (m *ContactMethods) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = ContactMethods{}
	case []byte:
		*m = ParseContactMethods(string(v))
	case string:
		*m = ParseContactMethods(v)
	default:
		return fmt.Errorf("cannot scan %T into ContactMethods", src)
	}
	return nil
}

type Startup struct {
	ID          string    `gorm:"type:char(36);primaryKey"`
	Name        string    `gorm:"type:varchar(20);uniqueIndex:idx_startups_name;not null"`
	Tagline     string    `gorm:"type:varchar(160);not null"`
	Industry    string    `gorm:"type:varchar(32);not null"`
	Stage       string    `gorm:"type:varchar(32);not null"`
	FoundedDate time.Time `gorm:"not null"`

	// Media
	CoverImage Attachment `gorm:"embedded;embeddedPrefix:cover_image_"`

	// Business details
	BusinessModel string     `gorm:"type:varchar(16);not null"`
	FundingStatus string     `gorm:"type:varchar(32);not null"`
	FundingAmount float64    `gorm:"not null"`
	RevenueModel  string     `gorm:"type:varchar(1000);not null"`
	YearsInOp     int        `gorm:"not null"`
	PitchDeck     Attachment `gorm:"embedded;embeddedPrefix:pitch_deck_"`

	// Preferences
	PreferredContactMethod ContactMethods `gorm:"type:varchar(64);not null"`
	NewsletterSubscription bool           `gorm:"not null;default:false"`

	OwnerID   string    `gorm:"type:char(36);index;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Startup) TableName() string {
	return "startups"
}

// BeforeCreate assigns the id when the caller did not.
func (s *Startup) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Summary is the owner listing projection; no binary payloads.
type Summary struct {
	ID            string
	Name          string
	Industry      string
	Stage         string
	BusinessModel string
	FoundedDate   time.Time
}

// DashboardCard is the public home page projection.
type DashboardCard struct {
	ID          string
	Name        string
	FoundedDate time.Time
	CoverImage  Attachment `gorm:"embedded;embeddedPrefix:cover_image_"`
}

func AutoMigrate(db *gorm.DB) error {
	return db.Set("gorm:table_options", "COMMENT='startup profiles'").
		AutoMigrate(&Startup{})
}
