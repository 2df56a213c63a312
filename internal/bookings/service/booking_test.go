package service

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "eventy/internal/bookings/errors"
	"eventy/pkg/config"
	mongotx "eventy/pkg/db/mongo"
	apperrors "eventy/pkg/errors"
	"eventy/pkg/kafka"
	"eventy/pkg/logger"
	"eventy/pkg/model"
)

type mockBookingRepository struct {
	createFunc               func(ctx context.Context, booking *model.Booking) error
	findByIDFunc             func(ctx context.Context, id string) (*model.Booking, error)
	findConfirmedFunc        func(ctx context.Context, userID, eventID string) (*model.Booking, error)
	findByUserFunc           func(ctx context.Context, userID string) ([]*model.UserBooking, error)
	findConfirmedByEventFunc func(ctx context.Context, eventID string) ([]*model.EventBooking, error)
	updateStatusFunc         func(ctx context.Context, id, status string) error
	capturedBooking          *model.Booking
	capturedStatus           string
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	m.capturedBooking = booking
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = "64a000000000000000000001"
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindConfirmed(ctx context.Context, userID, eventID string) (*model.Booking, error) {
	if m.findConfirmedFunc != nil {
		return m.findConfirmedFunc(ctx, userID, eventID)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindByUser(ctx context.Context, userID string) ([]*model.UserBooking, error) {
	if m.findByUserFunc != nil {
		return m.findByUserFunc(ctx, userID)
	}
	return []*model.UserBooking{}, nil
}

func (m *mockBookingRepository) FindConfirmedByEvent(ctx context.Context, eventID string) ([]*model.EventBooking, error) {
	if m.findConfirmedByEventFunc != nil {
		return m.findConfirmedByEventFunc(ctx, eventID)
	}
	return []*model.EventBooking{}, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	m.capturedStatus = status
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockBookingRepository) DeleteByEvent(ctx context.Context, eventID string) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	sessCtx := mongo.NewSessionContext(ctx, nil)
	return fn(sessCtx)
}

type mockCatalog struct {
	getByIDFunc func(ctx context.Context, id string) (*model.Event, error)
}

func (m *mockCatalog) GetByID(ctx context.Context, id string) (*model.Event, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.Event{ID: id, Name: "Jazz Night"}, nil
}

type mockPublisher struct {
	published []kafka.Message
}

func (m *mockPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	m.published = append(m.published, msg)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

const (
	testUserID  = "507f1f77bcf86cd799439011"
	testEventID = "64a000000000000000000099"
)

func TestCreate_Success(t *testing.T) {
	repo := &mockBookingRepository{}
	publisher := &mockPublisher{}
	svc := NewBookingService(repo, &mockCatalog{}, publisher, testConfig())

	booking, err := svc.Create(context.Background(), testUserID, testEventID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if booking.UserID != testUserID || booking.EventID != testEventID {
		t.Errorf("unexpected booking: %+v", booking)
	}
	if booking.Status != model.BookingStatusConfirmed {
		t.Errorf("status = %s, want confirmed", booking.Status)
	}
	if booking.Quantity != 1 {
		t.Errorf("quantity = %d, want 1", booking.Quantity)
	}

	if len(publisher.published) != 1 {
		t.Fatalf("published %d messages, want 1", len(publisher.published))
	}
	if got := publisher.published[0].Headers[kafka.HeaderEventType]; got != kafka.EventBookingCreated {
		t.Errorf("message type = %s", got)
	}
}

func TestCreate_DuplicateConfirmedBooking(t *testing.T) {
	repo := &mockBookingRepository{
		findConfirmedFunc: func(ctx context.Context, userID, eventID string) (*model.Booking, error) {
			return &model.Booking{ID: "existing", UserID: userID, EventID: eventID}, nil
		},
	}
	svc := NewBookingService(repo, &mockCatalog{}, nil, testConfig())

	_, err := svc.Create(context.Background(), testUserID, testEventID)
	assertAlreadyBooked(t, err)
}

func TestCreate_DuplicateRaceCaughtByIndex(t *testing.T) {
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			return bookingserrors.ErrDuplicate
		},
	}
	svc := NewBookingService(repo, &mockCatalog{}, nil, testConfig())

	_, err := svc.Create(context.Background(), testUserID, testEventID)
	assertAlreadyBooked(t, err)
}

func assertAlreadyBooked(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected a conflict error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("code = %s, want %s", appErr.Code, apperrors.CodeConflict)
	}
	if appErr.Message != "You have already booked this event" {
		t.Errorf("message = %q", appErr.Message)
	}
}

func TestCreate_EventMissing(t *testing.T) {
	catalog := &mockCatalog{
		getByIDFunc: func(ctx context.Context, id string) (*model.Event, error) {
			return nil, apperrors.NotFoundWithID("Event", id)
		},
	}
	repo := &mockBookingRepository{}
	svc := NewBookingService(repo, catalog, nil, testConfig())

	_, err := svc.Create(context.Background(), testUserID, testEventID)
	if err == nil {
		t.Fatal("expected a not found error")
	}
	if apperrors.AsAppError(err).StatusCode() != 404 {
		t.Errorf("status = %d, want 404", apperrors.AsAppError(err).StatusCode())
	}
	if repo.capturedBooking != nil {
		t.Error("no booking should be created for a missing event")
	}
}

func TestCancel_Success(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{
				ID:      id,
				UserID:  testUserID,
				EventID: testEventID,
				Status:  model.BookingStatusConfirmed,
			}, nil
		},
	}
	publisher := &mockPublisher{}
	svc := NewBookingService(repo, &mockCatalog{}, publisher, testConfig())

	booking, err := svc.Cancel(context.Background(), testUserID, "64a000000000000000000001")
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	if booking.Status != model.BookingStatusCancelled {
		t.Errorf("status = %s, want cancelled", booking.Status)
	}
	if repo.capturedStatus != model.BookingStatusCancelled {
		t.Errorf("persisted status = %s", repo.capturedStatus)
	}
	if len(publisher.published) != 1 || publisher.published[0].Headers[kafka.HeaderEventType] != kafka.EventBookingCancelled {
		t.Errorf("unexpected published messages: %+v", publisher.published)
	}
}

func TestCancel_WrongOwner(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{
				ID:     id,
				UserID: "64a0000000000000000000ff",
				Status: model.BookingStatusConfirmed,
			}, nil
		},
	}
	svc := NewBookingService(repo, &mockCatalog{}, nil, testConfig())

	_, err := svc.Cancel(context.Background(), testUserID, "64a000000000000000000001")
	if err == nil {
		t.Fatal("expected a forbidden error")
	}

	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeForbidden {
		t.Errorf("code = %s, want %s", appErr.Code, apperrors.CodeForbidden)
	}
	if repo.capturedStatus != "" {
		t.Error("status must not change for a non-owner")
	}
}

func TestCancel_AlreadyCancelledIsNoOp(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{
				ID:     id,
				UserID: testUserID,
				Status: model.BookingStatusCancelled,
			}, nil
		},
	}
	publisher := &mockPublisher{}
	svc := NewBookingService(repo, &mockCatalog{}, publisher, testConfig())

	booking, err := svc.Cancel(context.Background(), testUserID, "64a000000000000000000001")
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if booking.Status != model.BookingStatusCancelled {
		t.Errorf("status = %s", booking.Status)
	}
	if repo.capturedStatus != "" {
		t.Error("no write expected for an already cancelled booking")
	}
	if len(publisher.published) != 0 {
		t.Error("no event expected for an already cancelled booking")
	}
}

func TestCancel_NotFound(t *testing.T) {
	svc := NewBookingService(&mockBookingRepository{}, &mockCatalog{}, nil, testConfig())

	_, err := svc.Cancel(context.Background(), testUserID, "64a000000000000000000001")
	if err == nil {
		t.Fatal("expected a not found error")
	}
	if apperrors.AsAppError(err).StatusCode() != 404 {
		t.Errorf("status = %d, want 404", apperrors.AsAppError(err).StatusCode())
	}
}

func TestListByUser(t *testing.T) {
	repo := &mockBookingRepository{
		findByUserFunc: func(ctx context.Context, userID string) ([]*model.UserBooking, error) {
			return []*model.UserBooking{
				{
					Booking: model.Booking{ID: "b1", UserID: userID, Status: model.BookingStatusConfirmed},
					Event:   &model.Event{ID: testEventID, Name: "Jazz Night"},
				},
			}, nil
		},
	}
	svc := NewBookingService(repo, &mockCatalog{}, nil, testConfig())

	bookings, err := svc.ListByUser(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(bookings) != 1 || bookings[0].Event == nil || bookings[0].Event.Name != "Jazz Night" {
		t.Errorf("unexpected bookings: %+v", bookings)
	}
}

func TestListByEvent(t *testing.T) {
	repo := &mockBookingRepository{
		findConfirmedByEventFunc: func(ctx context.Context, eventID string) ([]*model.EventBooking, error) {
			return []*model.EventBooking{
				{
					Booking: model.Booking{ID: "b1", EventID: eventID, Status: model.BookingStatusConfirmed},
					User:    &model.UserSummary{ID: testUserID, Name: "Dana", Email: "dana@example.com"},
				},
			}, nil
		},
	}
	svc := NewBookingService(repo, &mockCatalog{}, nil, testConfig())

	bookings, err := svc.ListByEvent(context.Background(), testEventID)
	if err != nil {
		t.Fatalf("ListByEvent failed: %v", err)
	}
	if len(bookings) != 1 || bookings[0].User == nil || bookings[0].User.Email != "dana@example.com" {
		t.Errorf("unexpected bookings: %+v", bookings)
	}
}
