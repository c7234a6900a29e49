package sandbox

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/internhub/portal-client/internal/core/domain"
)

// userResponse is the flat user record served on the wire; role-specific
// fields are populated only for the matching role.
type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`

	University     string `json:"university,omitempty"`
	Major          string `json:"major,omitempty"`
	GraduationYear int    `json:"graduationYear,omitempty"`

	CompanyName string `json:"companyName,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`

	Enabled   bool   `json:"enabled"`
	CreatedAt string `json:"createdAt,omitempty"`
}

func toUserResponse(u *userRecord) userResponse {
	resp := userResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     string(u.Role),
		Enabled:  u.Enabled,
	}
	if !u.CreatedAt.IsZero() {
		resp.CreatedAt = u.CreatedAt.Format(time.RFC3339)
	}
	switch u.Role {
	case domain.RoleStudent:
		resp.University = u.University
		resp.Major = u.Major
		resp.GraduationYear = u.GraduationYear
	case domain.RoleCompany:
		resp.CompanyName = u.CompanyName
		resp.Industry = u.Industry
		resp.Website = u.Website
		resp.Description = u.Description
	}
	return resp
}

// profile returns the caller's own record.
func (s *Server) profile(c echo.Context) error {
	user, ok := s.store.userByID(callerID(c))
	if !ok {
		return errUserNotFound
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

type profileUpdateRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email" validate:"omitempty,email"`

	University     string `json:"university"`
	Major          string `json:"major"`
	GraduationYear int    `json:"graduationYear"`

	CompanyName string `json:"companyName"`
	Industry    string `json:"industry"`
	Website     string `json:"website"`
	Description string `json:"description"`
}

// updateProfile applies a partial update; empty fields are left untouched.
func (s *Server) updateProfile(c echo.Context) error {
	var req profileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := s.store.updateUser(callerID(c), func(u *userRecord) {
		if req.FullName != "" {
			u.FullName = req.FullName
		}
		if req.Email != "" {
			u.Email = req.Email
		}
		if u.Role == domain.RoleStudent {
			if req.University != "" {
				u.University = req.University
			}
			if req.Major != "" {
				u.Major = req.Major
			}
			if req.GraduationYear != 0 {
				u.GraduationYear = req.GraduationYear
			}
		}
		if u.Role == domain.RoleCompany {
			if req.CompanyName != "" {
				u.CompanyName = req.CompanyName
			}
			if req.Industry != "" {
				u.Industry = req.Industry
			}
			if req.Website != "" {
				u.Website = req.Website
			}
			if req.Description != "" {
				u.Description = req.Description
			}
		}
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// adminListUsers pages through all accounts with optional role and search
// filters.
func (s *Server) adminListUsers(c echo.Context) error {
	role := domain.Role(c.QueryParam("role"))
	users := s.store.listUsers(role, c.QueryParam("search"))

	page, size := pageParams(c)
	window, meta := paginate(len(users), page, size)
	content := make([]userResponse, 0, window.len())
	for i := window.lo; i < window.hi; i++ {
		content = append(content, toUserResponse(users[i]))
	}
	return c.JSON(http.StatusOK, pagedResponse[userResponse]{Content: content, pageMeta: meta})
}

func (s *Server) adminGetUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, ok := s.store.userByID(id)
	if !ok {
		return errUserNotFound
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// adminSetEnabled toggles an account via the ?enabled= query parameter.
func (s *Server) adminSetEnabled(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	enabled, err := strconv.ParseBool(c.QueryParam("enabled"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "enabled must be true or false")
	}
	user, uerr := s.store.updateUser(id, func(u *userRecord) { u.Enabled = enabled })
	if uerr != nil {
		return uerr
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func (s *Server) adminDeleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if id == callerID(c) {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot delete your own account")
	}
	if err := s.store.deleteUser(id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user deleted"})
}
