package ports

import (
	"context"

	"github.com/internhub/portal-client/internal/core/domain"
)

// SignInResult is a credential plus the profile the server attached to it.
type SignInResult struct {
	Token string
	User  domain.User
}

// SignUpResult is the server's confirmation of a registration.
type SignUpResult struct {
	Message string
	User    domain.User
}

// RegisterPayload mirrors the wire shape of the sign-up request: a flat
// record whose role-specific fields are only meaningful for the matching
// role.
type RegisterPayload struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     domain.Role

	// student
	University     string
	Major          string
	GraduationYear int

	// company
	CompanyName string
	Industry    string
	Website     string
	Description string
}

// AuthAPI is the authentication facade the session manager delegates to.
// Implementations classify every failure into the domain error taxonomy and
// never leak raw transport errors.
type AuthAPI interface {
	SignIn(ctx context.Context, identifier, secret string) (*SignInResult, error)
	SignUp(ctx context.Context, payload RegisterPayload) (*SignUpResult, error)
}
