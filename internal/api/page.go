package api

import (
	"net/url"
	"strconv"

	"github.com/internhub/portal-client/internal/core/domain"
)

// Page is the pagination envelope the server wraps list responses in.
type Page struct {
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// UserPage is one page of user records.
type UserPage struct {
	Page
	Content []userPayload `json:"content"`
}

// Users folds the page content into domain users.
func (p *UserPage) Users() []domain.User {
	users := make([]domain.User, 0, len(p.Content))
	for _, u := range p.Content {
		users = append(users, u.toDomain())
	}
	return users
}

// InternshipPage is one page of postings.
type InternshipPage struct {
	Page
	Content []domain.Internship `json:"content"`
}

// ApplicationPage is one page of applications.
type ApplicationPage struct {
	Page
	Content []domain.Application `json:"content"`
}

// pageQuery builds the standard page/size parameters.
func pageQuery(page, size int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return q
}
