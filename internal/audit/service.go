// Package audit provides high-level audit logging for shelf mutations,
// sharing, and authentication, backed by the audit_events table.
package audit

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/booktracker/booktracker/internal/database/audit"
	"github.com/booktracker/booktracker/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo      *audit.Repository
	retention time.Duration
	cron      *cron.Cron
}

// NewService creates a new audit service. retention bounds how long
// events are kept; cleanup is scheduled separately via StartCleanup.
func NewService(repo *audit.Repository, retention time.Duration) *Service {
	return &Service{repo: repo, retention: retention}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	if event.TraceID == "" {
		event.TraceID = uuid.NewString()
	}
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	if event.TraceID == "" {
		event.TraceID = uuid.NewString()
	}
	go func() {
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// LogSave records a book being added to a shelf.
func (s *Service) LogSave(userID, bookID uint, title string, shelf entities.Shelf, err error) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventSave,
		Action:      "book_save",
		Description: fmt.Sprintf("Saved %q to %s", title, shelf),
		EntityType:  "book",
		EntityID:    &bookID,
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogUpdate records a progress, notes, or shelf change.
func (s *Service) LogUpdate(userID, bookID uint, description string, err error) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventUpdate,
		Action:      "book_update",
		Description: description,
		EntityType:  "book",
		EntityID:    &bookID,
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogDelete records a book being removed from the library.
func (s *Service) LogDelete(userID, bookID uint, title string) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventDelete,
		Action:      "book_delete",
		Description: "Deleted book: " + title,
		EntityType:  "book",
		EntityID:    &bookID,
		Status:      entities.AuditStatusSuccess,
	}

	s.LogAsync(event)
}

// LogShare records a recommendation being attached to a saved book.
func (s *Service) LogShare(userID, bookID uint, rating int, err error) {
	event := &entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventShare,
		Action:      "recommendation_save",
		Description: fmt.Sprintf("Shared recommendation (rating %d)", rating),
		EntityType:  "recommendation",
		EntityID:    &bookID,
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogAuth records an authentication event.
func (s *Service) LogAuth(userID uint, action, ipAddr string, success bool) {
	event := &entities.AuditEvent{
		UserID:    userID,
		EventType: entities.AuditEventAuth,
		Action:    action,
		IPAddress: ipAddr,
		Status:    entities.AuditStatusSuccess,
	}

	if !success {
		event.Status = entities.AuditStatusFailed
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(userID uint, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(userID, limit, offset)
}

// DeleteOldEvents removes events older than the retention window.
func (s *Service) DeleteOldEvents() (int64, error) {
	cutoff := time.Now().Add(-s.retention)
	return s.repo.DeleteOldEvents(cutoff)
}

// StartCleanup schedules periodic retention cleanup with the given cron
// expression (standard 5-field syntax).
func (s *Service) StartCleanup(schedule string) error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(schedule, func() {
		deleted, err := s.DeleteOldEvents()
		if err != nil {
			log.Printf("Audit cleanup failed: %v", err)
			return
		}
		if deleted > 0 {
			log.Printf("Audit cleanup removed %d events", deleted)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule audit cleanup: %w", err)
	}
	s.cron.Start()
	return nil
}

// StopCleanup stops the cleanup scheduler if it is running.
func (s *Service) StopCleanup() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
