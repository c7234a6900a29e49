package api

import "github.com/internhub/portal-client/internal/core/domain"

// userPayload is the flat user record the server sends: role-specific fields
// live at the top level and are only populated for the matching role.
type userPayload struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`

	University     string `json:"university,omitempty"`
	Major          string `json:"major,omitempty"`
	GraduationYear int    `json:"graduationYear,omitempty"`
	Resume         string `json:"resume,omitempty"`

	CompanyName string `json:"companyName,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`

	Enabled   *bool  `json:"enabled,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// toDomain folds the flat wire record into the role-tagged user type.
func (p userPayload) toDomain() domain.User {
	u := domain.User{
		ID:       p.ID,
		Username: p.Username,
		Email:    p.Email,
		FullName: p.FullName,
		Role:     domain.Role(p.Role),
	}
	switch u.Role {
	case domain.RoleStudent:
		if p.University != "" || p.Major != "" || p.GraduationYear != 0 || p.Resume != "" {
			u.Student = &domain.StudentProfile{
				University:     p.University,
				Major:          p.Major,
				GraduationYear: p.GraduationYear,
				Resume:         p.Resume,
			}
		}
	case domain.RoleCompany:
		if p.CompanyName != "" || p.Industry != "" || p.Website != "" || p.Description != "" {
			u.Company = &domain.CompanyProfile{
				CompanyName: p.CompanyName,
				Industry:    p.Industry,
				Website:     p.Website,
				Description: p.Description,
			}
		}
	}
	return u
}
