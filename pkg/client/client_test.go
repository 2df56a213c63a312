package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	authhandler "eventy/internal/auth/handler"
	authservice "eventy/internal/auth/service"
	"eventy/internal/auth/token"
	authvalidator "eventy/internal/auth/validator"
	bookinghandler "eventy/internal/bookings/handler"
	bookingservice "eventy/internal/bookings/service"
	eventhandler "eventy/internal/events/handler"
	eventservice "eventy/internal/events/service"
	healthhandler "eventy/internal/health/handler"
	"eventy/pkg/client"
	apperrors "eventy/pkg/errors"
	"eventy/pkg/logger"
	"eventy/pkg/middleware"
	"eventy/pkg/model"
)

type mockAuthService struct {
	registerFunc    func(ctx context.Context, req *authvalidator.RegisterRequest) (*authservice.Session, error)
	loginFunc       func(ctx context.Context, req *authvalidator.LoginRequest) (*authservice.Session, error)
	currentUserFunc func(ctx context.Context, userID string) (*model.UserSummary, error)
}

var _ authservice.AuthService = (*mockAuthService)(nil)

func (m *mockAuthService) Register(ctx context.Context, req *authvalidator.RegisterRequest) (*authservice.Session, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, req)
	}
	return nil, apperrors.Internal("not configured", nil)
}

func (m *mockAuthService) Login(ctx context.Context, req *authvalidator.LoginRequest) (*authservice.Session, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, req)
	}
	return nil, apperrors.Internal("not configured", nil)
}

func (m *mockAuthService) CurrentUser(ctx context.Context, userID string) (*model.UserSummary, error) {
	if m.currentUserFunc != nil {
		return m.currentUserFunc(ctx, userID)
	}
	return nil, apperrors.Internal("not configured", nil)
}

type mockEventService struct {
	createFunc    func(ctx context.Context, event *model.Event) error
	getByIDFunc   func(ctx context.Context, id string) (*model.Event, error)
	getAllFunc    func(ctx context.Context, search string, limit int, offset int64) ([]*model.Event, int64, error)
	updateFunc    func(ctx context.Context, id string, updates *model.EventUpdate) (*model.Event, error)
	deleteFunc    func(ctx context.Context, id string) error
	topBookedFunc func(ctx context.Context, limit int) ([]*model.TopBookedEvent, error)
}

var _ eventservice.EventService = (*mockEventService)(nil)

func (m *mockEventService) Create(ctx context.Context, event *model.Event) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, event)
	}
	event.ID = "68a1b2c3d4e5f60718293a4b"
	return nil
}

func (m *mockEventService) GetByID(ctx context.Context, id string) (*model.Event, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.Event{ID: id, Name: "Jazz Night"}, nil
}

func (m *mockEventService) GetAll(ctx context.Context, search string, limit int, offset int64) ([]*model.Event, int64, error) {
	if m.getAllFunc != nil {
		return m.getAllFunc(ctx, search, limit, offset)
	}
	return []*model.Event{}, 0, nil
}

func (m *mockEventService) Update(ctx context.Context, id string, updates *model.EventUpdate) (*model.Event, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, updates)
	}
	return &model.Event{ID: id}, nil
}

func (m *mockEventService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockEventService) TopBooked(ctx context.Context, limit int) ([]*model.TopBookedEvent, error) {
	if m.topBookedFunc != nil {
		return m.topBookedFunc(ctx, limit)
	}
	return []*model.TopBookedEvent{}, nil
}

type mockBookingService struct {
	createFunc      func(ctx context.Context, userID, eventID string) (*model.Booking, error)
	listByUserFunc  func(ctx context.Context, userID string) ([]*model.UserBooking, error)
	cancelFunc      func(ctx context.Context, userID, bookingID string) (*model.Booking, error)
	listByEventFunc func(ctx context.Context, eventID string) ([]*model.EventBooking, error)
}

var _ bookingservice.BookingService = (*mockBookingService)(nil)

func (m *mockBookingService) Create(ctx context.Context, userID, eventID string) (*model.Booking, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, userID, eventID)
	}
	return &model.Booking{ID: "b1", UserID: userID, EventID: eventID, Quantity: 1, Status: model.BookingStatusConfirmed}, nil
}

func (m *mockBookingService) ListByUser(ctx context.Context, userID string) ([]*model.UserBooking, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(ctx, userID)
	}
	return []*model.UserBooking{}, nil
}

func (m *mockBookingService) Cancel(ctx context.Context, userID, bookingID string) (*model.Booking, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, userID, bookingID)
	}
	return &model.Booking{ID: bookingID, UserID: userID, Status: model.BookingStatusCancelled}, nil
}

func (m *mockBookingService) ListByEvent(ctx context.Context, eventID string) ([]*model.EventBooking, error) {
	if m.listByEventFunc != nil {
		return m.listByEventFunc(ctx, eventID)
	}
	return []*model.EventBooking{}, nil
}

// fixture runs the real routers behind an httptest.Server so the API clients
// exercise the full HTTP surface, auth guards included.
type fixture struct {
	server   *httptest.Server
	tokens   *token.Manager
	auth     *mockAuthService
	events   *mockEventService
	bookings *mockBookingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	tokens := token.NewManager("client-test-secret", time.Hour)

	f := &fixture{
		tokens:   tokens,
		auth:     &mockAuthService{},
		events:   &mockEventService{},
		bookings: &mockBookingService{},
	}

	authenticated := middleware.Authenticated(tokens, log)
	adminOnly := middleware.AdminOnly(tokens, log)

	router := httprouter.New()
	authhandler.NewAuthHandler(f.auth, log).RegisterRoutes(router, authenticated)
	eventhandler.NewEventHandler(f.events, log).RegisterRoutes(router, adminOnly)
	bookinghandler.NewBookingHandler(f.bookings, log).RegisterRoutes(router, authenticated, adminOnly)
	healthhandler.NewHealthHandler(nil, log).RegisterRoutes(router)

	f.server = httptest.NewServer(router)
	t.Cleanup(f.server.Close)

	return f
}

func (f *fixture) issueToken(t *testing.T, userID, role string) string {
	t.Helper()

	tok, err := f.tokens.Issue(userID, role)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return tok
}

func TestAuthClient_SessionRoundTrip(t *testing.T) {
	f := newFixture(t)
	issued := f.issueToken(t, "u1", model.RoleUser)

	f.auth.registerFunc = func(ctx context.Context, req *authvalidator.RegisterRequest) (*authservice.Session, error) {
		if req.Email != "dana@example.com" {
			t.Errorf("email = %q", req.Email)
		}
		return &authservice.Session{
			Token: issued,
			User:  model.UserSummary{ID: "u1", Name: "Dana", Email: req.Email, Role: model.RoleUser},
		}, nil
	}
	f.auth.currentUserFunc = func(ctx context.Context, userID string) (*model.UserSummary, error) {
		if userID != "u1" {
			t.Errorf("current user id = %q", userID)
		}
		return &model.UserSummary{ID: userID, Name: "Dana", Email: "dana@example.com", Role: model.RoleUser}, nil
	}

	authClient := client.NewAuthClient(f.server.URL)

	resp, err := authClient.Register(map[string]string{
		"name":     "Dana",
		"email":    "dana@example.com",
		"password": "pass1234",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: %s", resp.ToString())
	}

	session, err := authClient.DecodeSession(resp)
	if err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.Token != issued || session.User == nil || session.User.ID != "u1" {
		t.Errorf("unexpected session: %+v", session)
	}

	authClient.SetToken(session.Token)
	resp, err = authClient.Me()
	if err != nil {
		t.Fatalf("me failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: %s", resp.ToString())
	}

	user, err := authClient.DecodeUser(resp)
	if err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.Email != "dana@example.com" {
		t.Errorf("user = %+v", user)
	}
}

func TestAuthClient_MeWithoutToken(t *testing.T) {
	f := newFixture(t)

	authClient := client.NewAuthClient(f.server.URL)
	resp, err := authClient.Me()
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
	if msg := client.GetErrorMessage(resp); msg != "Missing or invalid authorization header" {
		t.Errorf("error message = %q", msg)
	}
}

func TestAuthClient_LoginFailureMessage(t *testing.T) {
	f := newFixture(t)
	f.auth.loginFunc = func(ctx context.Context, req *authvalidator.LoginRequest) (*authservice.Session, error) {
		return nil, apperrors.Unauthenticated("Invalid email or password")
	}

	authClient := client.NewAuthClient(f.server.URL)
	resp, err := authClient.Login("dana@example.com", "wrong")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
	if msg := client.GetErrorMessage(resp); msg != "Invalid email or password" {
		t.Errorf("error message = %q", msg)
	}
}

func TestEventClient_CatalogRoundTrip(t *testing.T) {
	f := newFixture(t)

	var gotSearch string
	var gotLimit int
	var gotOffset int64
	f.events.getAllFunc = func(ctx context.Context, search string, limit int, offset int64) ([]*model.Event, int64, error) {
		gotSearch, gotLimit, gotOffset = search, limit, offset
		return []*model.Event{{ID: "e1", Name: "Jazz Night"}}, 42, nil
	}

	eventClient := client.NewEventClient(f.server.URL)
	eventClient.SetToken(f.issueToken(t, "a1", model.RoleAdmin))

	resp, err := eventClient.Create(map[string]any{
		"name":        "Jazz Night",
		"description": "Late night session",
		"category":    []string{"Music"},
		"date":        "2026-10-01T20:00:00Z",
		"venue":       "Blue Note",
		"price":       25.0,
		"image":       "/uploads/jazz.png",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: %s", resp.ToString())
	}
	created, err := eventClient.DecodeEvent(resp)
	if err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if created.ID == "" || created.Name != "Jazz Night" {
		t.Errorf("created = %+v", created)
	}

	resp, err = eventClient.GetAll("jazz", 5, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	events, metadata, err := eventClient.DecodeEvents(resp)
	if err != nil {
		t.Fatalf("decode events: %v", err)
	}
	if gotSearch != "jazz" || gotLimit != 5 || gotOffset != 10 {
		t.Errorf("search=%q limit=%d offset=%d", gotSearch, gotLimit, gotOffset)
	}
	if len(events) != 1 || metadata.TotalCount != 42 {
		t.Errorf("events=%d total=%d", len(events), metadata.TotalCount)
	}

	resp, err = eventClient.GetByID("e1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	event, err := eventClient.DecodeEvent(resp)
	if err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if event.ID != "e1" {
		t.Errorf("event = %+v", event)
	}

	resp, err = eventClient.Delete("e1")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	var deleted struct {
		Data map[string]string `json:"data"`
	}
	if err := resp.DecodeJSON(&deleted); err != nil {
		t.Fatalf("decode delete: %v", err)
	}
	if deleted.Data["message"] != "Event and associated bookings removed" {
		t.Errorf("delete payload = %+v", deleted.Data)
	}
}

func TestEventClient_TopBooked(t *testing.T) {
	f := newFixture(t)

	var gotLimit int
	f.events.topBookedFunc = func(ctx context.Context, limit int) ([]*model.TopBookedEvent, error) {
		gotLimit = limit
		return []*model.TopBookedEvent{
			{Event: model.Event{ID: "e1", Name: "Jazz Night"}, BookingCount: 7},
		}, nil
	}

	eventClient := client.NewEventClient(f.server.URL)
	resp, err := eventClient.TopBooked(2)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	ranked, err := eventClient.DecodeTopBooked(resp)
	if err != nil {
		t.Fatalf("decode top-booked: %v", err)
	}
	if gotLimit != 2 {
		t.Errorf("limit = %d, want 2", gotLimit)
	}
	if len(ranked) != 1 || ranked[0].BookingCount != 7 {
		t.Errorf("ranked = %+v", ranked)
	}
}

func TestEventClient_WritesRequireAdmin(t *testing.T) {
	f := newFixture(t)

	eventClient := client.NewEventClient(f.server.URL)
	eventClient.SetToken(f.issueToken(t, "u1", model.RoleUser))

	resp, err := eventClient.Create(map[string]string{"name": "Jazz Night"})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
	if msg := client.GetErrorMessage(resp); msg != "Not authorized" {
		t.Errorf("error message = %q", msg)
	}
}

func TestBookingClient_Flow(t *testing.T) {
	f := newFixture(t)

	var gotUserID, gotEventID string
	f.bookings.createFunc = func(ctx context.Context, userID, eventID string) (*model.Booking, error) {
		gotUserID, gotEventID = userID, eventID
		return &model.Booking{ID: "b1", UserID: userID, EventID: eventID, Quantity: 1, Status: model.BookingStatusConfirmed}, nil
	}
	f.bookings.listByUserFunc = func(ctx context.Context, userID string) ([]*model.UserBooking, error) {
		return []*model.UserBooking{
			{
				Booking: model.Booking{ID: "b1", UserID: userID, Status: model.BookingStatusConfirmed},
				Event:   &model.Event{ID: "e1", Name: "Jazz Night"},
			},
		}, nil
	}

	bookingClient := client.NewBookingClient(f.server.URL)
	bookingClient.SetToken(f.issueToken(t, "u1", model.RoleUser))

	resp, err := bookingClient.Create("e1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: %s", resp.ToString())
	}
	booking, err := bookingClient.DecodeBooking(resp)
	if err != nil {
		t.Fatalf("decode booking: %v", err)
	}
	if gotUserID != "u1" || gotEventID != "e1" || booking.Status != model.BookingStatusConfirmed {
		t.Errorf("user=%q event=%q booking=%+v", gotUserID, gotEventID, booking)
	}

	resp, err = bookingClient.ListMine()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	mine, err := bookingClient.DecodeUserBookings(resp)
	if err != nil {
		t.Fatalf("decode bookings: %v", err)
	}
	if len(mine) != 1 || mine[0].Event == nil || mine[0].Event.Name != "Jazz Night" {
		t.Errorf("bookings = %+v", mine)
	}

	resp, err = bookingClient.Cancel("b1")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	cancelled, err := bookingClient.DecodeBooking(resp)
	if err != nil {
		t.Fatalf("decode booking: %v", err)
	}
	if cancelled.Status != model.BookingStatusCancelled {
		t.Errorf("status = %q", cancelled.Status)
	}
}

func TestBookingClient_DuplicateMessage(t *testing.T) {
	f := newFixture(t)
	f.bookings.createFunc = func(ctx context.Context, userID, eventID string) (*model.Booking, error) {
		return nil, apperrors.Conflict("You have already booked this event")
	}

	bookingClient := client.NewBookingClient(f.server.URL)
	bookingClient.SetToken(f.issueToken(t, "u1", model.RoleUser))

	resp, err := bookingClient.Create("e1")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
	if msg := client.GetErrorMessage(resp); msg != "You have already booked this event" {
		t.Errorf("error message = %q", msg)
	}
}

func TestBookingClient_RosterNeedsAdmin(t *testing.T) {
	f := newFixture(t)
	f.bookings.listByEventFunc = func(ctx context.Context, eventID string) ([]*model.EventBooking, error) {
		return []*model.EventBooking{
			{
				Booking: model.Booking{ID: "b1", EventID: eventID, Status: model.BookingStatusConfirmed},
				User:    &model.UserSummary{ID: "u1", Name: "Dana", Email: "dana@example.com"},
			},
		}, nil
	}

	bookingClient := client.NewBookingClient(f.server.URL)

	bookingClient.SetToken(f.issueToken(t, "u1", model.RoleUser))
	resp, err := bookingClient.ListByEvent("e1")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}

	bookingClient.SetToken(f.issueToken(t, "a1", model.RoleAdmin))
	resp, err = bookingClient.ListByEvent("e1")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("roster: %s", resp.ToString())
	}

	roster, err := bookingClient.DecodeEventBookings(resp)
	if err != nil {
		t.Fatalf("decode roster: %v", err)
	}
	if len(roster) != 1 || roster[0].User == nil || roster[0].User.Name != "Dana" {
		t.Errorf("roster = %+v", roster)
	}
}

func TestHttpClient_WaitForHealthy(t *testing.T) {
	f := newFixture(t)

	httpClient := client.NewHttpClient(f.server.URL)
	if err := httpClient.WaitForHealthy(2 * time.Second); err != nil {
		t.Errorf("service never reported healthy: %v", err)
	}
}
