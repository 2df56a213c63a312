package service

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"

	eventserrors "eventy/internal/events/errors"
	"eventy/internal/events/repository"
	"eventy/internal/events/validator"
	"eventy/pkg/config"
	apperrors "eventy/pkg/errors"
	"eventy/pkg/model"
)

// BookingPurger removes all bookings referencing an event. Implemented by
// the bookings repository; injected so event deletion can cascade inside
// one transaction.
type BookingPurger interface {
	DeleteByEvent(ctx context.Context, eventID string) (int64, error)
}

type EventService interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	GetAll(ctx context.Context, search string, limit int, offset int64) ([]*model.Event, int64, error)
	Update(ctx context.Context, id string, updates *model.EventUpdate) (*model.Event, error)
	Delete(ctx context.Context, id string) error
	TopBooked(ctx context.Context, limit int) ([]*model.TopBookedEvent, error)
}

type eventService struct {
	repo      repository.EventRepository
	purger    BookingPurger
	validator *validator.EventValidator
	cfg       *config.Config
}

func NewEventService(
	repo repository.EventRepository,
	purger BookingPurger,
	eventValidator *validator.EventValidator,
	cfg *config.Config,
) EventService {
	return &eventService{
		repo:      repo,
		purger:    purger,
		validator: eventValidator,
		cfg:       cfg,
	}
}

func (s *eventService) Create(ctx context.Context, event *model.Event) error {
	if err := s.validate(event); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, event); err != nil {
		s.cfg.Log.Error("Failed to create event", "error", err)
		return apperrors.Internal("Failed to create event", err)
	}

	s.cfg.Log.Info("Event created successfully", "id", event.ID, "name", event.Name)
	return nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Event ID cannot be empty")
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, eventserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Event", id)
		}
		if errors.Is(err, eventserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid event ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve event", err)
	}

	return event, nil
}

func (s *eventService) GetAll(ctx context.Context, search string, limit int, offset int64) ([]*model.Event, int64, error) {
	var count int64
	var events []*model.Event
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, search)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count events", "search", search, "error", errCount)
			errCount = apperrors.Internal("Failed to count events", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		events, errFind = s.repo.Find(ctx, search, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list events", "search", search, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve events", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return events, count, nil
}

func (s *eventService) Update(ctx context.Context, id string, updates *model.EventUpdate) (*model.Event, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Event ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Event update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Event validation failed", validationDetails(err))
	}

	merged := s.mergeEventUpdates(existing, updates)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, eventserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Event", id)
		}
		s.cfg.Log.Error("Failed to update event", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update event", err)
	}

	s.cfg.Log.Info("Event updated successfully", "id", id)
	return s.GetByID(ctx, id)
}

// Delete removes the event and every booking referencing it in a single
// transaction, so a crash cannot leave orphaned bookings behind.
func (s *eventService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Event ID cannot be empty")
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		purged, err := s.purger.DeleteByEvent(sessCtx, id)
		if err != nil {
			return apperrors.Internal("Failed to delete event bookings", err)
		}

		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, eventserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Event", id)
			}
			if errors.Is(err, eventserrors.ErrInvalidID) {
				return apperrors.InvalidInput("Invalid event ID format")
			}
			return apperrors.Internal("Failed to delete event", err)
		}

		s.cfg.Log.Info("Event deleted with cascade", "id", id, "bookings_removed", purged)
		return nil
	})

	return err
}

func (s *eventService) TopBooked(ctx context.Context, limit int) ([]*model.TopBookedEvent, error) {
	if limit <= 0 {
		limit = s.cfg.TopBookedLimit
	}

	events, err := s.repo.TopBooked(ctx, limit)
	if err != nil {
		s.cfg.Log.Error("Failed to rank top booked events", "error", err)
		return nil, apperrors.Internal("Failed to retrieve top booked events", err)
	}

	return events, nil
}

// --- Helpers ---

func (s *eventService) mergeEventUpdates(existing *model.Event, updates *model.EventUpdate) *model.Event {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Description != "" {
		merged.Description = updates.Description
	}
	if len(updates.Category) > 0 {
		merged.Category = updates.Category
	}
	if updates.Date != nil {
		merged.Date = *updates.Date
	}
	if updates.Venue != "" {
		merged.Venue = updates.Venue
	}
	if updates.Price != nil {
		merged.Price = *updates.Price
	}
	if updates.Image != "" {
		merged.Image = updates.Image
	}

	return &merged
}

func (s *eventService) validate(event *model.Event) error {
	if err := s.validator.Validate(event); err != nil {
		s.cfg.Log.Warn("Event validation failed", "error", err)
		return apperrors.Validation("Event validation failed", validationDetails(err))
	}
	return nil
}

func validationDetails(err error) map[string]any {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]map[string]string, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			fields = append(fields, map[string]string{
				"field":   fieldErr.Field,
				"message": fieldErr.Message,
			})
		}
		return map[string]any{"fields": fields}
	}
	return map[string]any{"error": err.Error()}
}
