package api

import (
	"context"
	"fmt"

	"github.com/internhub/portal-client/internal/core/domain"
	"github.com/internhub/portal-client/internal/infrastructure/transport"
)

// InternshipsClient covers the posting endpoints for all three roles.
type InternshipsClient struct {
	http *transport.Client
}

func NewInternshipsClient(http *transport.Client) *InternshipsClient {
	return &InternshipsClient{http: http}
}

// InternshipRequest is the create/update payload for a posting.
type InternshipRequest struct {
	Title               string `json:"title"`
	Description         string `json:"description"`
	Location            string `json:"location"`
	Requirements        string `json:"requirements"`
	Responsibilities    string `json:"responsibilities"`
	Salary              string `json:"salary,omitempty"`
	StartDate           string `json:"startDate,omitempty"`
	EndDate             string `json:"endDate,omitempty"`
	ApplicationDeadline string `json:"applicationDeadline,omitempty"`
	Type                string `json:"type,omitempty"`
	Remote              bool   `json:"isRemote,omitempty"`
}

// PublicListOptions filters the public posting feed.
type PublicListOptions struct {
	Page     int
	Size     int
	SortBy   string
	SortDir  string
	Search   string
	Location string
}

// ListPublic fetches the public feed of published postings. No credential
// required.
func (c *InternshipsClient) ListPublic(ctx context.Context, opts PublicListOptions) (*InternshipPage, error) {
	q := pageQuery(opts.Page, opts.Size)
	if opts.SortBy != "" {
		q.Set("sortBy", opts.SortBy)
	}
	if opts.SortDir != "" {
		q.Set("sortDir", opts.SortDir)
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.Location != "" {
		q.Set("location", opts.Location)
	}
	var out InternshipPage
	if err := c.http.Get(ctx, "/internships/public", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPublic fetches one published posting by id.
func (c *InternshipsClient) GetPublic(ctx context.Context, id int64) (*domain.Internship, error) {
	var out domain.Internship
	if err := c.http.Get(ctx, fmt.Sprintf("/internships/public/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create posts a new internship. Company only.
func (c *InternshipsClient) Create(ctx context.Context, req InternshipRequest) (*domain.Internship, error) {
	var out domain.Internship
	if err := c.http.Post(ctx, "/internships/company", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Mine pages through the caller's own postings. Company only.
func (c *InternshipsClient) Mine(ctx context.Context, page, size int) (*InternshipPage, error) {
	var out InternshipPage
	if err := c.http.Get(ctx, "/internships/company/my", pageQuery(page, size), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update rewrites a posting the caller owns.
func (c *InternshipsClient) Update(ctx context.Context, id int64, req InternshipRequest) (*domain.Internship, error) {
	var out domain.Internship
	if err := c.http.Put(ctx, fmt.Sprintf("/internships/company/%d", id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetStatus moves a posting through its lifecycle. Company only.
func (c *InternshipsClient) SetStatus(ctx context.Context, id int64, status domain.InternshipStatus) (*domain.Internship, error) {
	q := statusQuery(string(status))
	var out domain.Internship
	if err := c.http.Put(ctx, fmt.Sprintf("/internships/company/%d/status", id), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a posting the caller owns.
func (c *InternshipsClient) Delete(ctx context.Context, id int64) error {
	return c.http.Delete(ctx, fmt.Sprintf("/internships/company/%d", id), nil)
}

// AdminList pages through every posting regardless of owner or status.
func (c *InternshipsClient) AdminList(ctx context.Context, page, size int, status domain.InternshipStatus) (*InternshipPage, error) {
	q := pageQuery(page, size)
	if status != "" {
		q.Set("status", string(status))
	}
	var out InternshipPage
	if err := c.http.Get(ctx, "/internships/admin/all", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminSetStatus forces a posting status. Admin only.
func (c *InternshipsClient) AdminSetStatus(ctx context.Context, id int64, status domain.InternshipStatus) (*domain.Internship, error) {
	q := statusQuery(string(status))
	var out domain.Internship
	if err := c.http.Put(ctx, fmt.Sprintf("/internships/admin/%d/status", id), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
