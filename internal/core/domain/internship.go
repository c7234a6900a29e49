package domain

import "time"

// InternshipStatus represents the lifecycle state of a posting.
type InternshipStatus string

const (
	InternshipDraft     InternshipStatus = "DRAFT"
	InternshipPublished InternshipStatus = "PUBLISHED"
	InternshipClosed    InternshipStatus = "CLOSED"
	InternshipDeleted   InternshipStatus = "DELETED"
)

// validPostingTransitions defines the allowed posting state changes.
var validPostingTransitions = map[InternshipStatus][]InternshipStatus{
	InternshipDraft:     {InternshipPublished, InternshipDeleted},
	InternshipPublished: {InternshipClosed, InternshipDeleted},
	InternshipClosed:    {InternshipPublished, InternshipDeleted},
}

// CanTransitionTo reports whether a posting may move from s to next.
func (s InternshipStatus) CanTransitionTo(next InternshipStatus) bool {
	for _, allowed := range validPostingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known posting status.
func (s InternshipStatus) Valid() bool {
	switch s {
	case InternshipDraft, InternshipPublished, InternshipClosed, InternshipDeleted:
		return true
	}
	return false
}

// Internship is a posting as served by the marketplace API. The optional date
// fields travel as plain strings on the wire.
type Internship struct {
	ID                  int64            `json:"id"`
	Title               string           `json:"title"`
	Description         string           `json:"description"`
	Location            string           `json:"location"`
	Requirements        string           `json:"requirements"`
	Responsibilities    string           `json:"responsibilities"`
	Salary              string           `json:"salary,omitempty"`
	StartDate           string           `json:"startDate,omitempty"`
	EndDate             string           `json:"endDate,omitempty"`
	ApplicationDeadline string           `json:"applicationDeadline,omitempty"`
	Type                string           `json:"type,omitempty"`
	Remote              bool             `json:"isRemote"`
	CompanyName         string           `json:"companyName,omitempty"`
	Status              InternshipStatus `json:"status"`
	ApplicationsCount   int              `json:"applicationsCount"`
	CreatedAt           time.Time        `json:"createdAt"`
}
