package repository

import (
	"context"
	"fmt"
	"strings"

	"event_org/internal/models"
	"event_org/internal/validation"
)

// EventInput is the body accepted when creating an event.
type EventInput struct {
	EventTitle     string `json:"EventTitle" validate:"required,min=3,max=100"`
	Description    string `json:"Description" validate:"max=1000"`
	EventCategory  string `json:"EventCategory" validate:"max=50"`
	EventType      string `json:"EventType" validate:"omitempty,oneof=public private"`
	OrganizerID    string `json:"OrganizerId" validate:"required,uuid4"`
	OrganizationID string `json:"OrganizationId" validate:"required,uuid4"`
	VenueID        string `json:"VenueId" validate:"required,uuid4"`
}

type EventPatch struct {
	EventTitle     *string `json:"EventTitle"`
	Description    *string `json:"Description"`
	EventCategory  *string `json:"EventCategory"`
	EventType      *string `json:"EventType"`
	OrganizerID    *string `json:"OrganizerId"`
	OrganizationID *string `json:"OrganizationId"`
	VenueID        *string `json:"VenueId"`
}

type EventRepository struct {
	events EventStore
	orgs   OrganizationStore
	users  UserStore
}

func NewEventRepository(events EventStore, orgs OrganizationStore, users UserStore) *EventRepository {
	return &EventRepository{events: events, orgs: orgs, users: users}
}

func (r *EventRepository) GetAll(ctx context.Context) ([]models.Event, error) {
	events, err := r.events.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrIDRequired
	}
	e, err := r.events.FindEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch event: %w", err)
	}
	if e == nil {
		return nil, &NotFoundError{Entity: "event", ID: id}
	}
	return e, nil
}

func (r *EventRepository) Create(ctx context.Context, in EventInput) (*models.Event, error) {
	in = trimEventInput(in)
	if err := invalid(validation.Struct(in)); err != nil {
		return nil, err
	}
	if err := r.checkReferences(ctx, in.OrganizerID, in.OrganizationID); err != nil {
		return nil, err
	}

	e := &models.Event{
		EventTitle:     in.EventTitle,
		Description:    in.Description,
		EventCategory:  in.EventCategory,
		EventType:      models.EventType(in.EventType),
		OrganizerID:    in.OrganizerID,
		OrganizationID: in.OrganizationID,
		VenueID:        in.VenueID,
	}
	if e.EventType == "" {
		e.EventType = models.EventPublic
	}
	if err := r.events.CreateEvent(ctx, e); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return e, nil
}

func (r *EventRepository) Update(ctx context.Context, id string, patch EventPatch) (*models.Event, error) {
	e, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	mergeString(&e.EventTitle, patch.EventTitle)
	mergeString(&e.Description, patch.Description)
	mergeString(&e.EventCategory, patch.EventCategory)
	if patch.EventType != nil {
		e.EventType = models.EventType(strings.ToLower(strings.TrimSpace(*patch.EventType)))
		if e.EventType == "" {
			e.EventType = models.EventPublic
		}
	}
	organizerChanged := patch.OrganizerID != nil && strings.TrimSpace(*patch.OrganizerID) != e.OrganizerID
	orgChanged := patch.OrganizationID != nil && strings.TrimSpace(*patch.OrganizationID) != e.OrganizationID
	mergeString(&e.OrganizerID, patch.OrganizerID)
	mergeString(&e.OrganizationID, patch.OrganizationID)
	mergeString(&e.VenueID, patch.VenueID)

	merged := EventInput{
		EventTitle:     e.EventTitle,
		Description:    e.Description,
		EventCategory:  e.EventCategory,
		EventType:      string(e.EventType),
		OrganizerID:    e.OrganizerID,
		OrganizationID: e.OrganizationID,
		VenueID:        e.VenueID,
	}
	if err := invalid(validation.Struct(merged)); err != nil {
		return nil, err
	}
	if organizerChanged || orgChanged {
		if err := r.checkReferences(ctx, e.OrganizerID, e.OrganizationID); err != nil {
			return nil, err
		}
	}

	if err := r.events.UpdateEvent(ctx, e); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return e, nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrIDRequired
	}
	n, err := r.events.DeleteEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n == 0 {
		return &NotFoundError{Entity: "event", ID: id}
	}
	return nil
}

func (r *EventRepository) checkReferences(ctx context.Context, organizerID, organizationID string) error {
	org, err := r.orgs.FindOrganization(ctx, organizationID)
	if err != nil {
		return fmt.Errorf("fetch organization: %w", err)
	}
	if org == nil {
		return &NotFoundError{Entity: "organization", ID: organizationID}
	}
	organizer, err := r.users.FindUser(ctx, organizerID)
	if err != nil {
		return fmt.Errorf("fetch organizer: %w", err)
	}
	if organizer == nil {
		return &NotFoundError{Entity: "user", ID: organizerID}
	}
	return nil
}

func trimEventInput(in EventInput) EventInput {
	in.EventTitle = strings.TrimSpace(in.EventTitle)
	in.Description = strings.TrimSpace(in.Description)
	in.EventCategory = strings.TrimSpace(in.EventCategory)
	in.EventType = strings.ToLower(strings.TrimSpace(in.EventType))
	in.OrganizerID = strings.TrimSpace(in.OrganizerID)
	in.OrganizationID = strings.TrimSpace(in.OrganizationID)
	in.VenueID = strings.TrimSpace(in.VenueID)
	return in
}
