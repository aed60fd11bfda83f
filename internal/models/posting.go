package models

import (
	"time"

	"github.com/lib/pq"
)

type PostingStatus string

const (
	PostingDraft     PostingStatus = "draft"
	PostingPublished PostingStatus = "published"
	PostingClosed    PostingStatus = "closed"
)

func (s PostingStatus) Valid() bool {
	switch s {
	case PostingDraft, PostingPublished, PostingClosed:
		return true
	}
	return false
}

type Posting struct {
	ID             string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrganizationID string `gorm:"column:organization_id;type:uuid;index" json:"organization_id"`
	Title          string `gorm:"column:title;type:text" json:"title"`
	Company        string `gorm:"column:company;type:text" json:"company"`
	Description    string `gorm:"column:description;type:text" json:"description"`

	Requirements pq.StringArray `gorm:"column:requirements;type:text[]" json:"requirements"`
	Preferred    pq.StringArray `gorm:"column:preferred;type:text[]" json:"preferred"`
	Location     string         `gorm:"column:location;type:text" json:"location,omitempty"`
	Salary       string         `gorm:"column:salary;type:text" json:"salary,omitempty"`

	// Accepted experience bucket range; both empty means no requirement.
	MinExperience string `gorm:"column:min_experience;type:text" json:"min_experience,omitempty"`
	MaxExperience string `gorm:"column:max_experience;type:text" json:"max_experience,omitempty"`

	Status      PostingStatus `gorm:"column:status;type:text;index;default:draft" json:"status"`
	ContentHash string        `gorm:"column:content_hash;type:text" json:"content_hash"`
	UpdatedAt   time.Time     `gorm:"column:updated_at;type:timestamptz;index" json:"updated_at"`
}

func (Posting) TableName() string { return "postings" }
