package domain

import "time"

// ApplicationStatus represents the lifecycle state of an application.
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "PENDING"
	ApplicationAccepted  ApplicationStatus = "ACCEPTED"
	ApplicationRejected  ApplicationStatus = "REJECTED"
	ApplicationWithdrawn ApplicationStatus = "WITHDRAWN"
)

// Only pending applications can move; every other state is terminal.
var validApplicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationPending: {ApplicationAccepted, ApplicationRejected, ApplicationWithdrawn},
}

// CanTransitionTo reports whether an application may move from s to next.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range validApplicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known application status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationAccepted, ApplicationRejected, ApplicationWithdrawn:
		return true
	}
	return false
}

// Application ties a student to a posting.
type Application struct {
	ID              int64             `json:"id"`
	InternshipID    int64             `json:"internshipPostId"`
	InternshipTitle string            `json:"internshipTitle,omitempty"`
	StudentID       int64             `json:"studentId"`
	StudentName     string            `json:"studentName,omitempty"`
	CoverLetter     string            `json:"coverLetter,omitempty"`
	Status          ApplicationStatus `json:"status"`
	AppliedAt       time.Time         `json:"appliedAt"`
}
