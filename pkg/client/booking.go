package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"eventy/pkg/model"
)

type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseURL string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *BookingClient) SetToken(token string) {
	c.httpClient.SetToken(token)
}

func (c *BookingClient) Create(eventID string) (*Response, error) {
	return c.httpClient.POST("/api/bookings", map[string]string{
		"event_id": eventID,
	})
}

func (c *BookingClient) ListMine() (*Response, error) {
	return c.httpClient.GET("/api/bookings")
}

func (c *BookingClient) Cancel(id string) (*Response, error) {
	return c.httpClient.PUT("/api/bookings/"+url.PathEscape(id)+"/cancel", nil)
}

func (c *BookingClient) ListByEvent(eventID string) (*Response, error) {
	return c.httpClient.GET("/api/bookings/event/" + url.PathEscape(eventID))
}

func (c *BookingClient) DecodeBooking(resp *Response) (*model.Booking, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode booking wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var booking model.Booking
	if err := json.Unmarshal(wrapper.Data, &booking); err != nil {
		return nil, fmt.Errorf("could not decode booking json:\n%+v\n%s", resp.ToString(), err)
	}

	return &booking, nil
}

func (c *BookingClient) DecodeUserBookings(resp *Response) ([]*model.UserBooking, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode bookings wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var bookings []*model.UserBooking
	if err := json.Unmarshal(wrapper.Data, &bookings); err != nil {
		return nil, fmt.Errorf("could not decode booking list:\n%+v\n%s", resp.ToString(), err)
	}

	return bookings, nil
}

func (c *BookingClient) DecodeEventBookings(resp *Response) ([]*model.EventBooking, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode bookings wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var bookings []*model.EventBooking
	if err := json.Unmarshal(wrapper.Data, &bookings); err != nil {
		return nil, fmt.Errorf("could not decode booking list:\n%+v\n%s", resp.ToString(), err)
	}

	return bookings, nil
}
