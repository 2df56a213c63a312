package monitoring

import "testing"

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		name string
		path string
		want string
	}{
		{"static route untouched", "/api/events", "/api/events"},
		{"top-booked untouched", "/api/events/top-booked", "/api/events/top-booked"},
		{"object id collapsed", "/api/events/68a1b2c3d4e5f60718293a4b", "/api/events/:id"},
		{"uppercase hex collapsed", "/api/events/68A1B2C3D4E5F60718293A4B", "/api/events/:id"},
		{"id mid-path", "/api/bookings/68a1b2c3d4e5f60718293a4b/cancel", "/api/bookings/:id/cancel"},
		{"roster event id", "/api/bookings/event/68a1b2c3d4e5f60718293a4b", "/api/bookings/event/:id"},
		{"uuid filename collapsed", "/uploads/0194c2f7-9e1b-7c3d-8a5e-6f7081920a3b.png", "/uploads/:id"},
		{"plain filename untouched", "/uploads/banner.png", "/uploads/banner.png"},
		{"short hex untouched", "/api/events/deadbeef", "/api/events/deadbeef"},
		{"non-hex 24 chars untouched", "/api/events/not-an-object-id-segment", "/api/events/not-an-object-id-segment"},
		{"metrics route untouched", "/metrics", "/metrics"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizePath(tc.path); got != tc.want {
				t.Errorf("normalizePath(%q) = %q, want %q", tc.path, got, tc.want)
			}
		})
	}
}
