package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// Profile is a job-seeker portfolio. Structured fields are written by the owner only;
// the embedding pipeline touches the embedding_vectors table, never this row's content.
type Profile struct {
	ID      string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OwnerID string `gorm:"column:owner_id;type:uuid;index" json:"owner_id"`
	Name    string `gorm:"column:name;type:text" json:"name"`
	Summary string `gorm:"column:summary;type:text" json:"summary"`

	Skills      pq.StringArray                  `gorm:"column:skills;type:text[]" json:"skills"`
	Experiences datatypes.JSONSlice[Experience] `gorm:"column:experiences;type:jsonb" json:"experiences"`
	Projects    datatypes.JSONSlice[Project]    `gorm:"column:projects;type:jsonb" json:"projects"`
	Keywords    pq.StringArray                  `gorm:"column:keywords;type:text[]" json:"keywords"`

	ExperienceLevel    string         `gorm:"column:experience_level;type:text" json:"experience_level,omitempty"` // entry|junior|mid|senior|lead
	PreferredLocations pq.StringArray `gorm:"column:preferred_locations;type:text[]" json:"preferred_locations"`

	Visibility  Visibility `gorm:"column:visibility;type:text;index;default:private" json:"visibility"`
	ContentHash string     `gorm:"column:content_hash;type:text" json:"content_hash"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;type:timestamptz;index" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

type Experience struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Period      string `json:"period,omitempty"`
	Description string `json:"description,omitempty"`
}

type Project struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	TechStack   []string `json:"tech_stack,omitempty"`
	Role        string   `json:"role,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}
