package sandbox

import (
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/internhub/portal-client/internal/core/domain"
)

type signInRequest struct {
	Username        string `json:"username"`
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// signInResponse is the flat envelope the real backend returns: the token
// plus the base profile fields.
type signInResponse struct {
	Token    string `json:"token"`
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// signIn authenticates a user and returns a bearer token.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  signInResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/signin [post]
func (s *Server) signIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	identifier := req.UsernameOrEmail
	if identifier == "" {
		identifier = req.Username
	}
	if identifier == "" || req.Password == "" {
		signInsTotal.WithLabelValues("rejected").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}

	user, ok := s.store.findByIdentifier(identifier)
	if !ok {
		signInsTotal.WithLabelValues("rejected").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}
	if !user.Enabled {
		signInsTotal.WithLabelValues("disabled").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "account is disabled")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		signInsTotal.WithLabelValues("rejected").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return err
	}

	signInsTotal.WithLabelValues("accepted").Inc()
	s.log.Debug().Str("username", user.Username).Msg("sign-in accepted")

	return c.JSON(http.StatusOK, signInResponse{
		Token:    token,
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     string(user.Role),
	})
}

type signUpRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"fullName" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=STUDENT COMPANY ADMIN"`

	University     string `json:"university"`
	Major          string `json:"major"`
	GraduationYear int    `json:"graduationYear"`

	CompanyName string `json:"companyName"`
	Industry    string `json:"industry"`
	Website     string `json:"website"`
	Description string `json:"description"`
}

type signUpResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

// signUp registers a new account. Role defaults to STUDENT when omitted.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      201  {object}  signUpResponse
// @Failure      400  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /auth/signup [post]
func (s *Server) signUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role := domain.Role(req.Role)
	if role == "" {
		role = domain.RoleStudent
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user, err := s.store.createUser(&userRecord{
		Username:       req.Username,
		Email:          req.Email,
		PasswordHash:   string(hash),
		FullName:       req.FullName,
		Role:           role,
		University:     req.University,
		Major:          req.Major,
		GraduationYear: req.GraduationYear,
		CompanyName:    req.CompanyName,
		Industry:       req.Industry,
		Website:        req.Website,
		Description:    req.Description,
	})
	if err != nil {
		return err
	}

	registrationsTotal.WithLabelValues(string(role)).Inc()
	s.log.Debug().Str("username", user.Username).Str("role", string(role)).Msg("account registered")

	return c.JSON(http.StatusCreated, signUpResponse{
		Message: "User registered successfully",
		User:    toUserResponse(user),
	})
}

func (s *Server) issueToken(user *userRecord) (string, error) {
	claims := jwt.MapClaims{
		"sub":      strconv.FormatInt(user.ID, 10),
		"username": user.Username,
		"role":     string(user.Role),
		"jti":      uuid.NewString(),
		"exp":      time.Now().Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.secret))
}
