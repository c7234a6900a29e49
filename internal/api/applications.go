package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/internhub/portal-client/internal/core/domain"
	"github.com/internhub/portal-client/internal/infrastructure/transport"
)

// ApplicationsClient covers the application endpoints for all three roles.
type ApplicationsClient struct {
	http *transport.Client
}

func NewApplicationsClient(http *transport.Client) *ApplicationsClient {
	return &ApplicationsClient{http: http}
}

// ApplicationRequest is the apply payload.
type ApplicationRequest struct {
	InternshipID int64  `json:"internshipPostId"`
	CoverLetter  string `json:"coverLetter,omitempty"`
}

// Apply submits an application to a posting. Student only.
func (c *ApplicationsClient) Apply(ctx context.Context, req ApplicationRequest) (*domain.Application, error) {
	var out domain.Application
	if err := c.http.Post(ctx, "/applications/student/apply", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Mine pages through the caller's applications. Student only.
func (c *ApplicationsClient) Mine(ctx context.Context, page, size int) (*ApplicationPage, error) {
	var out ApplicationPage
	if err := c.http.Get(ctx, "/applications/student/my", pageQuery(page, size), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Withdraw retracts a pending application. Student only.
func (c *ApplicationsClient) Withdraw(ctx context.Context, id int64) (*domain.Application, error) {
	var out domain.Application
	if err := c.http.Put(ctx, fmt.Sprintf("/applications/student/%d/withdraw", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Received pages through applications to the caller's postings. Company
// only; status is an optional filter.
func (c *ApplicationsClient) Received(ctx context.Context, page, size int, status domain.ApplicationStatus) (*ApplicationPage, error) {
	q := pageQuery(page, size)
	if status != "" {
		q.Set("status", string(status))
	}
	var out ApplicationPage
	if err := c.http.Get(ctx, "/applications/company/received", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForInternship pages through applications to one posting. Company only.
func (c *ApplicationsClient) ForInternship(ctx context.Context, internshipID int64, page, size int) (*ApplicationPage, error) {
	var out ApplicationPage
	path := fmt.Sprintf("/applications/company/internship/%d", internshipID)
	if err := c.http.Get(ctx, path, pageQuery(page, size), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetStatus accepts or rejects an application. Company only.
func (c *ApplicationsClient) SetStatus(ctx context.Context, id int64, status domain.ApplicationStatus) (*domain.Application, error) {
	q := statusQuery(string(status))
	var out domain.Application
	if err := c.http.Put(ctx, fmt.Sprintf("/applications/company/%d/status", id), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminList pages through every application. Admin only.
func (c *ApplicationsClient) AdminList(ctx context.Context, page, size int, status domain.ApplicationStatus) (*ApplicationPage, error) {
	q := pageQuery(page, size)
	if status != "" {
		q.Set("status", string(status))
	}
	var out ApplicationPage
	if err := c.http.Get(ctx, "/applications/admin/all", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// statusQuery builds the single-parameter query used by status toggles.
func statusQuery(status string) url.Values {
	q := url.Values{}
	q.Set("status", status)
	return q
}
