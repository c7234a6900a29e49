package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/internhub/portal-client/internal/core/domain"
	"github.com/internhub/portal-client/internal/infrastructure/transport"
)

// UsersClient covers the profile and admin user endpoints.
type UsersClient struct {
	http *transport.Client
}

func NewUsersClient(http *transport.Client) *UsersClient {
	return &UsersClient{http: http}
}

// ProfileUpdate carries the editable profile fields; zero values are omitted
// from the request so the server treats them as untouched.
type ProfileUpdate struct {
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`

	University     string `json:"university,omitempty"`
	Major          string `json:"major,omitempty"`
	GraduationYear int    `json:"graduationYear,omitempty"`

	CompanyName string `json:"companyName,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
}

// Current fetches the authenticated user's profile.
func (c *UsersClient) Current(ctx context.Context) (*domain.User, error) {
	var p userPayload
	if err := c.http.Get(ctx, "/users/profile", nil, &p); err != nil {
		return nil, err
	}
	u := p.toDomain()
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile applies a partial update and returns the resulting profile.
func (c *UsersClient) UpdateProfile(ctx context.Context, update ProfileUpdate) (*domain.User, error) {
	var p userPayload
	if err := c.http.Put(ctx, "/users/profile", nil, update, &p); err != nil {
		return nil, err
	}
	u := p.toDomain()
	return &u, nil
}

// List pages through all users. role and search are optional filters. Admin
// only.
func (c *UsersClient) List(ctx context.Context, page, size int, role domain.Role, search string) (*UserPage, error) {
	q := pageQuery(page, size)
	if role != "" {
		q.Set("role", string(role))
	}
	if search != "" {
		q.Set("search", search)
	}
	var out UserPage
	if err := c.http.Get(ctx, "/users/admin/all", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ByID fetches a single user. Admin only.
func (c *UsersClient) ByID(ctx context.Context, id int64) (*domain.User, error) {
	var p userPayload
	if err := c.http.Get(ctx, fmt.Sprintf("/users/admin/%d", id), nil, &p); err != nil {
		return nil, err
	}
	u := p.toDomain()
	return &u, nil
}

// SetEnabled toggles an account. Admin only.
func (c *UsersClient) SetEnabled(ctx context.Context, id int64, enabled bool) (*domain.User, error) {
	q := url.Values{}
	q.Set("enabled", strconv.FormatBool(enabled))
	var p userPayload
	if err := c.http.Put(ctx, fmt.Sprintf("/users/admin/%d/enable", id), q, nil, &p); err != nil {
		return nil, err
	}
	u := p.toDomain()
	return &u, nil
}

// Delete removes an account. Admin only.
func (c *UsersClient) Delete(ctx context.Context, id int64) error {
	return c.http.Delete(ctx, fmt.Sprintf("/users/admin/%d", id), nil)
}
