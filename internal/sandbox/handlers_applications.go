package sandbox

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/internhub/portal-client/internal/core/domain"
)

type applicationRequest struct {
	InternshipID int64  `json:"internshipPostId" validate:"required"`
	CoverLetter  string `json:"coverLetter"`
}

// apply files an application from the calling student to a published
// posting. One application per student per posting.
func (s *Server) apply(c echo.Context) error {
	var req applicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	student, ok := s.store.userByID(callerID(c))
	if !ok {
		return errUserNotFound
	}

	app, err := s.store.createApplication(&domain.Application{
		InternshipID: req.InternshipID,
		StudentID:    student.ID,
		StudentName:  student.FullName,
		CoverLetter:  req.CoverLetter,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, app)
}

func (s *Server) myApplications(c echo.Context) error {
	student := callerID(c)
	apps := s.store.listApplications(func(a *domain.Application) bool {
		return a.StudentID == student
	})
	return s.applicationPage(c, apps)
}

// withdrawApplication retracts the caller's own pending application.
func (s *Server) withdrawApplication(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	student := callerID(c)
	app, uerr := s.store.updateApplication(id, func(a *domain.Application) error {
		if a.StudentID != student {
			return errForbidden
		}
		if !a.Status.CanTransitionTo(domain.ApplicationWithdrawn) {
			return errInvalidTransition
		}
		a.Status = domain.ApplicationWithdrawn
		return nil
	})
	if uerr != nil {
		return uerr
	}
	return c.JSON(http.StatusOK, app)
}

// receivedApplications pages through applications to the caller's postings,
// optionally filtered by status.
func (s *Server) receivedApplications(c echo.Context) error {
	owner := callerID(c)
	status := domain.ApplicationStatus(c.QueryParam("status"))

	owned := make(map[int64]bool)
	for _, rec := range s.store.listInternships(func(rec *internshipRecord) bool {
		return rec.OwnerID == owner
	}) {
		owned[rec.ID] = true
	}

	apps := s.store.listApplications(func(a *domain.Application) bool {
		return owned[a.InternshipID] && (status == "" || a.Status == status)
	})
	return s.applicationPage(c, apps)
}

func (s *Server) applicationsForInternship(c echo.Context) error {
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
	apps := s.store.listApplications(func(a *domain.Application) bool {
		return a.InternshipID == id
	})
	return s.applicationPage(c, apps)
}

// setApplicationStatus accepts or rejects a pending application to one of
// the caller's postings.
func (s *Server) setApplicationStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	next := domain.ApplicationStatus(c.QueryParam("status"))
	if next != domain.ApplicationAccepted && next != domain.ApplicationRejected {
		return echo.NewHTTPError(http.StatusBadRequest, "status must be ACCEPTED or REJECTED")
	}

	existing, ok := s.store.applicationByID(id)
	if !ok {
		return errApplicationNotFound
	}
	postOwner, ok := s.store.ownerOfInternship(existing.InternshipID)
	if !ok || postOwner != callerID(c) {
		return errForbidden
	}

	app, uerr := s.store.updateApplication(id, func(a *domain.Application) error {
		if !a.Status.CanTransitionTo(next) {
			return errInvalidTransition
		}
		a.Status = next
		return nil
	})
	if uerr != nil {
		return uerr
	}
	return c.JSON(http.StatusOK, app)
}

func (s *Server) adminListApplications(c echo.Context) error {
	status := domain.ApplicationStatus(c.QueryParam("status"))
	apps := s.store.listApplications(func(a *domain.Application) bool {
		return status == "" || a.Status == status
	})
	return s.applicationPage(c, apps)
}

func (s *Server) applicationPage(c echo.Context, apps []*domain.Application) error {
	page, size := pageParams(c)
	win, meta := paginate(len(apps), page, size)
	content := make([]domain.Application, 0, win.len())
	for i := win.lo; i < win.hi; i++ {
		content = append(content, *apps[i])
	}
	return c.JSON(http.StatusOK, pagedResponse[domain.Application]{Content: content, pageMeta: meta})
}
