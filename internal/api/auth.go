// Package api contains the typed endpoint clients for the marketplace API.
package api

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/internhub/portal-client/internal/core/domain"
	"github.com/internhub/portal-client/internal/core/ports"
	"github.com/internhub/portal-client/internal/infrastructure/transport"
)

// AuthClient implements ports.AuthAPI over the transport, translating the
// two authentication verbs into typed outcomes.
type AuthClient struct {
	http     *transport.Client
	validate *validator.Validate
	log      zerolog.Logger
}

var _ ports.AuthAPI = (*AuthClient)(nil)

func NewAuthClient(http *transport.Client, log zerolog.Logger) *AuthClient {
	return &AuthClient{
		http:     http,
		validate: validator.New(),
		log:      log.With().Str("component", "auth_api").Logger(),
	}
}

type signInRequest struct {
	// The backend has accepted either field name for the identifier; send
	// both.
	Username        string `json:"username"`
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

type signInResponse struct {
	Token    string `json:"token"`
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// SignIn submits the identifier and secret. An authorization-rejected reply
// maps to invalid credentials; a success reply without a token is a
// malformed response, distinct from "wrong credentials".
func (c *AuthClient) SignIn(ctx context.Context, identifier, secret string) (*ports.SignInResult, error) {
	if identifier == "" || secret == "" {
		return nil, domain.NewError(domain.CodeRequestSetup, "username and password are required")
	}

	var resp signInResponse
	err := c.http.Post(ctx, "/auth/signin", signInRequest{
		Username:        identifier,
		UsernameOrEmail: identifier,
		Password:        secret,
	}, &resp)
	if err != nil {
		if domain.IsCode(err, domain.CodeInvalidCredentials) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if resp.Token == "" {
		return nil, domain.ErrMissingToken
	}

	user := domain.User{
		ID:       resp.ID,
		Username: resp.Username,
		Email:    resp.Email,
		FullName: resp.FullName,
		Role:     domain.Role(resp.Role),
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	c.log.Debug().Str("username", user.Username).Msg("sign-in accepted")
	return &ports.SignInResult{Token: resp.Token, User: user}, nil
}

type signUpRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"fullName" validate:"required"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=STUDENT COMPANY ADMIN"`

	University     string `json:"university,omitempty"`
	Major          string `json:"major,omitempty"`
	GraduationYear int    `json:"graduationYear,omitempty"`

	CompanyName string `json:"companyName,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
}

type signUpResponse struct {
	Message string      `json:"message"`
	User    userPayload `json:"user"`
}

// SignUp submits a registration payload. Payload problems are caught before
// any network I/O and classified as request-setup failures.
func (c *AuthClient) SignUp(ctx context.Context, payload ports.RegisterPayload) (*ports.SignUpResult, error) {
	req := signUpRequest{
		Username:       payload.Username,
		Email:          payload.Email,
		Password:       payload.Password,
		FullName:       payload.FullName,
		Role:           string(payload.Role),
		University:     payload.University,
		Major:          payload.Major,
		GraduationYear: payload.GraduationYear,
		CompanyName:    payload.CompanyName,
		Industry:       payload.Industry,
		Website:        payload.Website,
		Description:    payload.Description,
	}
	if err := c.validate.Struct(req); err != nil {
		return nil, domain.NewError(domain.CodeRequestSetup, validationMessage(err))
	}

	var resp signUpResponse
	if err := c.http.Post(ctx, "/auth/signup", req, &resp); err != nil {
		return nil, err
	}

	user := resp.User.toDomain()
	if err := user.Validate(); err != nil {
		return nil, err
	}

	c.log.Debug().Str("username", user.Username).Msg("sign-up accepted")
	return &ports.SignUpResult{Message: resp.Message, User: user}, nil
}
