package sandbox

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/internhub/portal-client/internal/core/domain"
)

type internshipRequest struct {
	Title               string `json:"title" validate:"required"`
	Description         string `json:"description" validate:"required"`
	Location            string `json:"location" validate:"required"`
	Requirements        string `json:"requirements"`
	Responsibilities    string `json:"responsibilities"`
	Salary              string `json:"salary"`
	StartDate           string `json:"startDate"`
	EndDate             string `json:"endDate"`
	ApplicationDeadline string `json:"applicationDeadline"`
	Type                string `json:"type"`
	Remote              bool   `json:"isRemote"`
}

func (req *internshipRequest) apply(rec *internshipRecord) {
	rec.Title = req.Title
	rec.Description = req.Description
	rec.Location = req.Location
	rec.Requirements = req.Requirements
	rec.Responsibilities = req.Responsibilities
	rec.Salary = req.Salary
	rec.StartDate = req.StartDate
	rec.EndDate = req.EndDate
	rec.ApplicationDeadline = req.ApplicationDeadline
	rec.Type = req.Type
	rec.Remote = req.Remote
}

// publicInternships serves the anonymous feed of published postings with
// optional search and location filters.
func (s *Server) publicInternships(c echo.Context) error {
	needle := strings.ToLower(c.QueryParam("search"))
	location := strings.ToLower(c.QueryParam("location"))

	records := s.store.listInternships(func(rec *internshipRecord) bool {
		if rec.Status != domain.InternshipPublished {
			return false
		}
		if needle != "" {
			haystack := strings.ToLower(rec.Title + " " + rec.Description + " " + rec.CompanyName)
			if !strings.Contains(haystack, needle) {
				return false
			}
		}
		if location != "" && !strings.Contains(strings.ToLower(rec.Location), location) {
			return false
		}
		return true
	})
	return s.internshipPage(c, records)
}

func (s *Server) publicInternship(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	rec, ok := s.store.internshipByID(id)
	if !ok || rec.Status != domain.InternshipPublished {
		return errInternshipNotFound
	}
	return c.JSON(http.StatusOK, rec.Internship)
}

// createInternship posts a new internship for the calling company. New
// postings start in DRAFT.
func (s *Server) createInternship(c echo.Context) error {
	var req internshipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	owner, ok := s.store.userByID(callerID(c))
	if !ok {
		return errUserNotFound
	}

	rec := &internshipRecord{OwnerID: owner.ID}
	req.apply(rec)
	rec.Status = domain.InternshipDraft
	rec.CompanyName = owner.CompanyName
	if rec.CompanyName == "" {
		rec.CompanyName = owner.FullName
	}

	created := s.store.createInternship(rec)
	return c.JSON(http.StatusCreated, created.Internship)
}

func (s *Server) myInternships(c echo.Context) error {
	owner := callerID(c)
	records := s.store.listInternships(func(rec *internshipRecord) bool {
		return rec.OwnerID == owner
	})
	return s.internshipPage(c, records)
}

func (s *Server) updateInternship(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req internshipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	owner := callerID(c)
	rec, uerr := s.store.updateInternship(id, func(rec *internshipRecord) error {
		if rec.OwnerID != owner {
			return errForbidden
		}
		req.apply(rec)
		return nil
	})
	if uerr != nil {
		return uerr
	}
	return c.JSON(http.StatusOK, rec.Internship)
}

// setInternshipStatus moves a posting through its lifecycle, enforcing the
// transition table.
func (s *Server) setInternshipStatus(c echo.Context) error {
	return s.changeInternshipStatus(c, false)
}

func (s *Server) deleteInternship(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	owner, ok := s.store.ownerOfInternship(id)
	if !ok {
		return errInternshipNotFound
	}
	if owner != callerID(c) {
		return errForbidden
	}
	if err := s.store.deleteInternship(id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "internship deleted"})
}

func (s *Server) adminListInternships(c echo.Context) error {
	status := domain.InternshipStatus(c.QueryParam("status"))
	records := s.store.listInternships(func(rec *internshipRecord) bool {
		return status == "" || rec.Status == status
	})
	return s.internshipPage(c, records)
}

// adminSetInternshipStatus forces a status without an ownership check; the
// transition table still applies.
func (s *Server) adminSetInternshipStatus(c echo.Context) error {
	return s.changeInternshipStatus(c, true)
}

func (s *Server) changeInternshipStatus(c echo.Context, asAdmin bool) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	next := domain.InternshipStatus(c.QueryParam("status"))
	if !next.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown status: "+string(next))
	}

	caller := callerID(c)
	rec, uerr := s.store.updateInternship(id, func(rec *internshipRecord) error {
		if !asAdmin && rec.OwnerID != caller {
			return errForbidden
		}
		if !rec.Status.CanTransitionTo(next) {
			return errInvalidTransition
		}
		rec.Status = next
		return nil
	})
	if uerr != nil {
		return uerr
	}
	return c.JSON(http.StatusOK, rec.Internship)
}

func (s *Server) internshipPage(c echo.Context, records []*internshipRecord) error {
	page, size := pageParams(c)
	win, meta := paginate(len(records), page, size)
	content := make([]domain.Internship, 0, win.len())
	for i := win.lo; i < win.hi; i++ {
		content = append(content, records[i].Internship)
	}
	return c.JSON(http.StatusOK, pagedResponse[domain.Internship]{Content: content, pageMeta: meta})
}
