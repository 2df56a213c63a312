package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"eventy/pkg/model"
)

type EventClient struct {
	httpClient *HttpClient
}

func NewEventClient(baseURL string) *EventClient {
	return &EventClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *EventClient) SetToken(token string) {
	c.httpClient.SetToken(token)
}

func (c *EventClient) Create(body any) (*Response, error) {
	return c.httpClient.POST("/api/events", body)
}

func (c *EventClient) GetAll(search string, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))

	return c.httpClient.GET("/api/events?" + q.Encode())
}

func (c *EventClient) GetByID(id string) (*Response, error) {
	return c.httpClient.GET("/api/events/" + url.PathEscape(id))
}

func (c *EventClient) TopBooked(limit int) (*Response, error) {
	path := "/api/events/top-booked"
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}
	return c.httpClient.GET(path)
}

func (c *EventClient) Update(id string, body any) (*Response, error) {
	return c.httpClient.PUT("/api/events/"+url.PathEscape(id), body)
}

func (c *EventClient) Delete(id string) (*Response, error) {
	return c.httpClient.DELETE("/api/events/" + url.PathEscape(id))
}

func (c *EventClient) CreateRaw(rawBody []byte) (*Response, error) {
	return c.httpClient.POSTRaw("/api/events", rawBody)
}

func (c *EventClient) UpdateRaw(id string, rawBody []byte) (*Response, error) {
	return c.httpClient.PUTRaw("/api/events/"+url.PathEscape(id), rawBody)
}

func (c *EventClient) DecodeEvent(resp *Response) (*model.Event, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode event wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var event model.Event
	if err := json.Unmarshal(wrapper.Data, &event); err != nil {
		return nil, fmt.Errorf("could not decode event json:\n%+v\n%s", resp.ToString(), err)
	}

	return &event, nil
}

func (c *EventClient) DecodeEvents(resp *Response) ([]*model.Event, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%+v\n%s", resp.ToString(), err)
	}

	var events []*model.Event
	if err := json.Unmarshal(wrapper.Data, &events); err != nil {
		return nil, nil, fmt.Errorf("could not decode event list:\n%+v\n%s", resp.ToString(), err)
	}

	metadata := &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}

	return events, metadata, nil
}

func (c *EventClient) DecodeTopBooked(resp *Response) ([]*model.TopBookedEvent, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode top-booked wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var events []*model.TopBookedEvent
	if err := json.Unmarshal(wrapper.Data, &events); err != nil {
		return nil, fmt.Errorf("could not decode top-booked list:\n%+v\n%s", resp.ToString(), err)
	}

	return events, nil
}
