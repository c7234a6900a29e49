package sandbox

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/internhub/portal-client/internal/core/domain"
)

// seed loads the demo accounts and one published posting so the sandbox is
// usable out of the box. Passwords are development-only.
func (s *Server) seed() {
	accounts := []struct {
		record   userRecord
		password string
	}{
		{
			record: userRecord{
				Username:       "john_student",
				Email:          "john@student.com",
				FullName:       "John Smith",
				Role:           domain.RoleStudent,
				University:     "MIT",
				Major:          "Computer Science",
				GraduationYear: 2025,
			},
			password: "password123",
		},
		{
			record: userRecord{
				Username:    "tech_corp",
				Email:       "hr@techcorp.com",
				FullName:    "TechCorp HR",
				Role:        domain.RoleCompany,
				CompanyName: "TechCorp Solutions",
				Industry:    "Technology",
				Website:     "https://techcorp.com",
			},
			password: "password123",
		},
		{
			record: userRecord{
				Username: "admin",
				Email:    "admin@portal.com",
				FullName: "System Administrator",
				Role:     domain.RoleAdmin,
			},
			password: "admin123",
		},
	}

	var companyID int64
	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.MinCost)
		if err != nil {
			s.log.Error().Err(err).Str("username", a.record.Username).Msg("seed: hash failed")
			continue
		}
		rec := a.record
		rec.PasswordHash = string(hash)
		created, err := s.store.createUser(&rec)
		if err != nil {
			s.log.Error().Err(err).Str("username", a.record.Username).Msg("seed: create failed")
			continue
		}
		if created.Role == domain.RoleCompany {
			companyID = created.ID
		}
	}

	if companyID != 0 {
		s.store.createInternship(&internshipRecord{
			Internship: domain.Internship{
				Title:            "Software Engineering Intern",
				Description:      "Work on backend services with the platform team.",
				Location:         "Boston, MA",
				Requirements:     "Go or Java, basic SQL",
				Responsibilities: "Build and test API endpoints",
				Salary:           "$30/hour",
				Type:             "FULL_TIME",
				Remote:           true,
				CompanyName:      "TechCorp Solutions",
				Status:           domain.InternshipPublished,
			},
			OwnerID: companyID,
		})
	}
}
