package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "eventy/internal/bookings/errors"
	"eventy/internal/bookings/repository"
	"eventy/pkg/config"
	apperrors "eventy/pkg/errors"
	"eventy/pkg/kafka"
	"eventy/pkg/model"
	"eventy/pkg/monitoring"
)

// EventCatalog is the slice of the event service bookings depend on:
// verifying that a booked event exists.
type EventCatalog interface {
	GetByID(ctx context.Context, id string) (*model.Event, error)
}

// EventPublisher emits booking lifecycle events. May be nil when no broker
// is configured; publishing is best-effort and never fails the request.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type BookingService interface {
	Create(ctx context.Context, userID, eventID string) (*model.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*model.UserBooking, error)
	Cancel(ctx context.Context, userID, bookingID string) (*model.Booking, error)
	ListByEvent(ctx context.Context, eventID string) ([]*model.EventBooking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	catalog   EventCatalog
	publisher EventPublisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	catalog EventCatalog,
	publisher EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create books one unit of the event for the user. The duplicate check and
// insert run in a transaction; the storage-level partial unique index backs
// the same invariant against concurrent double-submission.
func (s *bookingService) Create(ctx context.Context, userID, eventID string) (*model.Booking, error) {
	if userID == "" || eventID == "" {
		return nil, apperrors.InvalidInput("User ID and Event ID are required")
	}

	if _, err := s.catalog.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	booking := &model.Booking{
		UserID:   userID,
		EventID:  eventID,
		Quantity: 1,
		Status:   model.BookingStatusConfirmed,
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.repo.FindConfirmed(sessCtx, userID, eventID); err == nil {
			return apperrors.Conflict("You have already booked this event")
		} else if !errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.Internal("Failed to check existing bookings", err)
		}

		if err := s.repo.Create(sessCtx, booking); err != nil {
			if errors.Is(err, bookingserrors.ErrDuplicate) {
				return apperrors.Conflict("You have already booked this event")
			}
			return apperrors.Internal("Failed to create booking", err)
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "user_id", userID, "event_id", eventID, "error", err)
		return nil, err
	}

	monitoring.ObserveBookingCreated()
	s.publish(ctx, kafka.EventBookingCreated, booking)

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"user_id", userID,
		"event_id", eventID,
	)
	return booking, nil
}

func (s *bookingService) ListByUser(ctx context.Context, userID string) ([]*model.UserBooking, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	bookings, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list user bookings", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return bookings, nil
}

// Cancel sets the booking's status to cancelled. Only the owner may cancel;
// cancelling an already-cancelled booking is an idempotent no-op.
func (s *bookingService) Cancel(ctx context.Context, userID, bookingID string) (*model.Booking, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", bookingID)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	if booking.UserID != userID {
		return nil, apperrors.Forbidden("Not authorized")
	}

	if booking.Status == model.BookingStatusCancelled {
		return booking, nil
	}

	if err := s.repo.UpdateStatus(ctx, bookingID, model.BookingStatusCancelled); err != nil {
		s.cfg.Log.Error("Failed to cancel booking", "id", bookingID, "error", err)
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}

	booking.Status = model.BookingStatusCancelled
	monitoring.ObserveBookingCancelled()
	s.publish(ctx, kafka.EventBookingCancelled, booking)

	s.cfg.Log.Info("Booking cancelled successfully", "id", bookingID, "user_id", userID)
	return booking, nil
}

func (s *bookingService) ListByEvent(ctx context.Context, eventID string) ([]*model.EventBooking, error) {
	if eventID == "" {
		return nil, apperrors.InvalidInput("Event ID cannot be empty")
	}

	bookings, err := s.repo.FindConfirmedByEvent(ctx, eventID)
	if err != nil {
		s.cfg.Log.Error("Failed to list event bookings", "event_id", eventID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return bookings, nil
}

func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking) {
	if s.publisher == nil {
		return
	}

	msg, err := kafka.NewEventMessage(eventType, booking.ID, booking)
	if err != nil {
		s.cfg.Log.Error("Failed to build booking event", "type", eventType, "error", err)
		return
	}

	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish booking event",
			"type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}
