package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventType string

const (
	EventPublic  EventType = "public"
	EventPrivate EventType = "private"
)

func (t EventType) Valid() bool {
	return t == EventPublic || t == EventPrivate
}

type Event struct {
	EventID        string    `gorm:"type:char(36);primaryKey" json:"eventId"`
	EventTitle     string    `gorm:"size:100;not null" json:"eventTitle"`
	Description    string    `gorm:"size:1000" json:"description"`
	EventCategory  string    `gorm:"size:50" json:"eventCategory"`
	EventType      EventType `gorm:"type:enum('public','private');default:'public';not null" json:"eventType"`
	OrganizerID    string    `gorm:"type:char(36);index;not null" json:"organizerId"`
	OrganizationID string    `gorm:"type:char(36);index;not null" json:"organizationId"`
	VenueID        string    `gorm:"type:char(36);index;not null" json:"venueId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.EventType == "" {
		e.EventType = EventPublic
	}
	return nil
}
