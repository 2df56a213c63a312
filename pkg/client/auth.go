package client

import (
	"encoding/json"
	"fmt"

	"eventy/pkg/model"
)

type AuthClient struct {
	httpClient *HttpClient
}

func NewAuthClient(baseURL string) *AuthClient {
	return &AuthClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *AuthClient) SetToken(token string) {
	c.httpClient.SetToken(token)
}

func (c *AuthClient) Register(body any) (*Response, error) {
	return c.httpClient.POST("/api/auth/register", body)
}

func (c *AuthClient) Login(email, password string) (*Response, error) {
	return c.httpClient.POST("/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

func (c *AuthClient) Me() (*Response, error) {
	return c.httpClient.GET("/api/auth/me")
}

type SessionPayload struct {
	Token string             `json:"token"`
	User  *model.UserSummary `json:"user"`
}

func (c *AuthClient) DecodeSession(resp *Response) (*SessionPayload, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode session wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var session SessionPayload
	if err := json.Unmarshal(wrapper.Data, &session); err != nil {
		return nil, fmt.Errorf("could not decode session json:\n%+v\n%s", resp.ToString(), err)
	}

	return &session, nil
}

func (c *AuthClient) DecodeUser(resp *Response) (*model.UserSummary, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode user wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var user model.UserSummary
	if err := json.Unmarshal(wrapper.Data, &user); err != nil {
		return nil, fmt.Errorf("could not decode user json:\n%+v\n%s", resp.ToString(), err)
	}

	return &user, nil
}
