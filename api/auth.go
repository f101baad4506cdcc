package api

import (
	"context"
	"fmt"
	"net/http"
)

type AuthResponse struct {
	AccessToken           string `json:"access_token"`
	AccessTokenExpiration string `json:"access_token_expiration"`
	UserID                FlexID `json:"user_id"`
	CompanyID             FlexID `json:"company_id"`
	Name                  string `json:"name"`
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/login", nil, payload)
	if err != nil {
		return AuthResponse{}, err
	}

	var resp AuthResponse
	if err := c.doJSON(req, &resp); err != nil {
		return AuthResponse{}, err
	}
	if resp.AccessToken == "" {
		return AuthResponse{}, fmt.Errorf("login failed: missing access_token")
	}

	c.AccessToken = resp.AccessToken
	return resp, nil
}
