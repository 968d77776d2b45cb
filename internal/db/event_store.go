package db

import (
	"context"
	"fmt"

	"event_org/internal/models"
	"event_org/internal/repository"
)

func (s *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *Store) FindEvent(ctx context.Context, id string) (*models.Event, error) {
	var e models.Event
	err := s.db.WithContext(ctx).Where("event_id = ?", id).First(&e).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find event: %w", err)
	}
	return &e, nil
}

func (s *Store) CreateEvent(ctx context.Context, e *models.Event) error {
	return translate(s.db.WithContext(ctx).Create(e).Error)
}

func (s *Store) UpdateEvent(ctx context.Context, e *models.Event) error {
	err := s.db.WithContext(ctx).Model(&models.Event{}).
		Where("event_id = ?", e.EventID).
		Updates(map[string]any{
			"event_title":     e.EventTitle,
			"description":     e.Description,
			"event_category":  e.EventCategory,
			"event_type":      e.EventType,
			"organizer_id":    e.OrganizerID,
			"organization_id": e.OrganizationID,
			"venue_id":        e.VenueID,
		}).Error
	return translate(err)
}

func (s *Store) DeleteEvent(ctx context.Context, id string) (int64, error) {
	res := s.db.WithContext(ctx).Where("event_id = ?", id).Delete(&models.Event{})
	return res.RowsAffected, res.Error
}

func (s *Store) RecordAudit(ctx context.Context, entry *models.AuditLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

// ListAudit returns entries newest first, starting below AfterID when set.
func (s *Store) ListAudit(ctx context.Context, q repository.AuditQuery) ([]models.AuditLog, error) {
	query := s.db.WithContext(ctx).Model(&models.AuditLog{}).Order("id DESC")
	if q.AfterID > 0 {
		query = query.Where("id < ?", q.AfterID)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		query = query.Where("(initiator_name LIKE ? OR action LIKE ? OR entity_type LIKE ? OR ip LIKE ?)",
			like, like, like, like)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var logs []models.AuditLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	return logs, nil
}
