package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-flight-admin/flights"
	"github.com/jrsteele09/go-flight-admin/internal/errors"
)

// LoginResponse is the normalized result of POST /auth/login. Every response
// shape the backend has used is folded into these fields by UnmarshalJSON.
type LoginResponse struct {
	Token    string
	Roles    []string
	Email    string
	ClientID string
}

// UnmarshalJSON accepts token/jwtToken/accessToken, roles/role/authorities
// (string, list, or Spring authority objects), email/username/correoElectronico
// and idCliente/id.
func (r *LoginResponse) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = LoginResponse{
		Token:    firstString(raw, "token", "jwtToken", "accessToken", "access_token"),
		Email:    firstString(raw, "email", "correoElectronico", "username"),
		ClientID: firstString(raw, "idCliente", "id"),
	}
	for _, key := range []string{"roles", "role", "authorities"} {
		if v, ok := raw[key]; ok {
			if r.Roles = decodeRoles(v); len(r.Roles) > 0 {
				break
			}
		}
	}
	return nil
}

// firstString returns the first key present as a string or number.
func firstString(raw map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil && s != "" {
			return s
		}
		var n json.Number
		if err := json.Unmarshal(v, &n); err == nil {
			if _, err := strconv.ParseFloat(n.String(), 64); err == nil {
				return n.String()
			}
		}
	}
	return ""
}

func decodeRoles(v json.RawMessage) []string {
	var single string
	if err := json.Unmarshal(v, &single); err == nil {
		return []string{single}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		return nil
	}
	roles := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			roles = append(roles, s)
			continue
		}
		var authority struct {
			Authority string `json:"authority"`
			Name      string `json:"name"`
		}
		if err := json.Unmarshal(item, &authority); err == nil {
			if authority.Authority != "" {
				roles = append(roles, authority.Authority)
			} else if authority.Name != "" {
				roles = append(roles, authority.Name)
			}
		}
	}
	return roles
}

// Login exchanges credentials for a bearer token. Rejected credentials are
// reported as errors.ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, req flights.LoginRequest) (LoginResponse, error) {
	var resp LoginResponse
	err := c.do(ctx, c.anon, http.MethodPost, "/auth/login", req, &resp)
	if err != nil {
		var apiErr *errors.APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized ||
			apiErr.StatusCode == http.StatusForbidden || apiErr.StatusCode == http.StatusBadRequest) {
			return LoginResponse{}, fmt.Errorf("[Login] %w: %w", errors.ErrInvalidCredentials, err)
		}
		return LoginResponse{}, fmt.Errorf("[Login] %w", err)
	}
	if strings.TrimSpace(resp.Token) == "" {
		return LoginResponse{}, fmt.Errorf("[Login] response carried no token: %w", errors.ErrInvalidCredentials)
	}
	if resp.Email == "" {
		resp.Email = req.CorreoElectronico
	}
	return resp, nil
}

// Signup registers a new customer account.
func (c *Client) Signup(ctx context.Context, req flights.SignupRequest) error {
	if err := c.do(ctx, c.anon, http.MethodPost, "/auth/signup", req, nil); err != nil {
		return fmt.Errorf("[Signup] %w", err)
	}
	return nil
}
