package sandbox

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/internhub/portal-client/internal/core/domain"
)

var (
	errUserExists           = errors.New("Username is already taken")
	errEmailExists          = errors.New("Email is already in use")
	errUserNotFound         = errors.New("user not found")
	errInternshipNotFound   = errors.New("internship not found")
	errApplicationNotFound  = errors.New("application not found")
	errForbidden            = errors.New("access forbidden")
	errInvalidTransition    = errors.New("invalid status transition")
	errDuplicateApplication = errors.New("You have already applied to this internship")
)

// userRecord is the flat server-side account row, password hash included.
type userRecord struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	Role         domain.Role
	Enabled      bool
	CreatedAt    time.Time

	University     string
	Major          string
	GraduationYear int

	CompanyName string
	Industry    string
	Website     string
	Description string
}

type internshipRecord struct {
	domain.Internship
	OwnerID int64
}

// memStore is the sandbox's in-memory database.
type memStore struct {
	mu           sync.Mutex
	users        map[int64]*userRecord
	internships  map[int64]*internshipRecord
	applications map[int64]*domain.Application

	nextUserID        int64
	nextInternshipID  int64
	nextApplicationID int64
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[int64]*userRecord),
		internships:  make(map[int64]*internshipRecord),
		applications: make(map[int64]*domain.Application),
	}
}

func (s *memStore) createUser(u *userRecord) (*userRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return nil, errUserExists
		}
		if existing.Email == u.Email {
			return nil, errEmailExists
		}
	}
	s.nextUserID++
	u.ID = s.nextUserID
	u.Enabled = true
	u.CreatedAt = time.Now().UTC()
	s.users[u.ID] = u
	clone := *u
	return &clone, nil
}

// findByIdentifier matches either the username or the email.
func (s *memStore) findByIdentifier(identifier string) (*userRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == identifier || u.Email == identifier {
			clone := *u
			return &clone, true
		}
	}
	return nil, false
}

func (s *memStore) userByID(id int64) (*userRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, false
	}
	clone := *u
	return &clone, true
}

func (s *memStore) updateUser(id int64, apply func(*userRecord)) (*userRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, errUserNotFound
	}
	apply(u)
	clone := *u
	return &clone, nil
}

func (s *memStore) deleteUser(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return errUserNotFound
	}
	delete(s.users, id)
	return nil
}

// listUsers filters by optional role and a case-insensitive username/email/
// name search, sorted by id.
func (s *memStore) listUsers(role domain.Role, search string) []*userRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	needle := strings.ToLower(search)
	var out []*userRecord
	for _, u := range s.users {
		if role != "" && u.Role != role {
			continue
		}
		if needle != "" {
			haystack := strings.ToLower(u.Username + " " + u.Email + " " + u.FullName)
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		clone := *u
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memStore) createInternship(rec *internshipRecord) *internshipRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextInternshipID++
	rec.ID = s.nextInternshipID
	rec.CreatedAt = time.Now().UTC()
	s.internships[rec.ID] = rec
	clone := *rec
	return &clone
}

func (s *memStore) internshipByID(id int64) (*internshipRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.internships[id]
	if !ok {
		return nil, false
	}
	clone := *rec
	return &clone, true
}

func (s *memStore) updateInternship(id int64, apply func(*internshipRecord) error) (*internshipRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.internships[id]
	if !ok {
		return nil, errInternshipNotFound
	}
	if err := apply(rec); err != nil {
		return nil, err
	}
	clone := *rec
	return &clone, nil
}

func (s *memStore) deleteInternship(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.internships[id]; !ok {
		return errInternshipNotFound
	}
	delete(s.internships, id)
	return nil
}

// listInternships returns postings matching the filter, sorted by id.
func (s *memStore) listInternships(match func(*internshipRecord) bool) []*internshipRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*internshipRecord
	for _, rec := range s.internships {
		if match == nil || match(rec) {
			clone := *rec
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memStore) createApplication(app *domain.Application) (*domain.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.applications {
		if existing.StudentID == app.StudentID && existing.InternshipID == app.InternshipID {
			return nil, errDuplicateApplication
		}
	}
	rec, ok := s.internships[app.InternshipID]
	if !ok || rec.Status != domain.InternshipPublished {
		return nil, errInternshipNotFound
	}
	s.nextApplicationID++
	app.ID = s.nextApplicationID
	app.InternshipTitle = rec.Title
	app.Status = domain.ApplicationPending
	app.AppliedAt = time.Now().UTC()
	rec.ApplicationsCount++
	s.applications[app.ID] = app
	clone := *app
	return &clone, nil
}

func (s *memStore) applicationByID(id int64) (*domain.Application, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.applications[id]
	if !ok {
		return nil, false
	}
	clone := *app
	return &clone, true
}

func (s *memStore) updateApplication(id int64, apply func(*domain.Application) error) (*domain.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.applications[id]
	if !ok {
		return nil, errApplicationNotFound
	}
	if err := apply(app); err != nil {
		return nil, err
	}
	clone := *app
	return &clone, nil
}

func (s *memStore) listApplications(match func(*domain.Application) bool) []*domain.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Application
	for _, app := range s.applications {
		if match == nil || match(app) {
			clone := *app
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ownerOfInternship reports the owning company account for a posting.
func (s *memStore) ownerOfInternship(id int64) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.internships[id]
	if !ok {
		return 0, false
	}
	return rec.OwnerID, true
}
