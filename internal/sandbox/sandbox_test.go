package sandbox

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/internhub/portal-client/internal/api"
	"github.com/internhub/portal-client/internal/core/domain"
	"github.com/internhub/portal-client/internal/core/ports"
	"github.com/internhub/portal-client/internal/core/service"
	"github.com/internhub/portal-client/internal/infrastructure/storage/bolt"
	"github.com/internhub/portal-client/internal/infrastructure/transport"
)

// env is the full client stack wired against an in-process sandbox.
type env struct {
	store        *bolt.Store
	storePath    string
	manager      *service.SessionManager
	users        *api.UsersClient
	internships  *api.InternshipsClient
	applications *api.ApplicationsClient
	baseURL      string
}

func newEnv(t *testing.T) *env {
	t.Helper()

	srv := httptest.NewServer(New(Options{Logger: zerolog.Nop()}).Handler())
	t.Cleanup(srv.Close)

	storePath := filepath.Join(t.TempDir(), "session.db")
	store, err := bolt.Open(storePath)
	if err != nil {
		t.Fatalf("bolt.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return buildStack(t, srv.URL, store, storePath)
}

func buildStack(t *testing.T, baseURL string, store *bolt.Store, storePath string) *env {
	t.Helper()

	var manager *service.SessionManager
	tc, err := transport.New(transport.Options{
		BaseURL:        baseURL + "/api",
		Store:          store,
		OnUnauthorized: func() { manager.ForceLogout() },
		Logger:         zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("transport.New: %v", err)
	}

	manager = service.NewSessionManager(api.NewAuthClient(tc, zerolog.Nop()), store, zerolog.Nop())
	return &env{
		store:        store,
		storePath:    storePath,
		manager:      manager,
		users:        api.NewUsersClient(tc),
		internships:  api.NewInternshipsClient(tc),
		applications: api.NewApplicationsClient(tc),
		baseURL:      baseURL,
	}
}

func TestIntegration_AdminLogin(t *testing.T) {
	e := newEnv(t)

	sess, err := e.manager.Login(context.Background(), "admin", "admin123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if sess.User.Role != domain.RoleAdmin {
		t.Fatalf("expected ADMIN, got %s", sess.User.Role)
	}
	if cur := e.manager.Current(); cur.User.Role != domain.RoleAdmin {
		t.Fatalf("Current() role mismatch: %s", cur.User.Role)
	}
}

func TestIntegration_WrongPassword(t *testing.T) {
	e := newEnv(t)

	_, err := e.manager.Login(context.Background(), "ghost", "wrong")
	if !domain.IsCode(err, domain.CodeInvalidCredentials) {
		t.Fatalf("expected INVALID_CREDENTIALS, got %v", err)
	}
	if _, ok, _ := e.store.Get(ports.StorageKeyCredential); ok {
		t.Fatalf("credential must not be stored after a rejected login")
	}
	if _, ok, _ := e.store.Get(ports.StorageKeyUser); ok {
		t.Fatalf("snapshot must not be stored after a rejected login")
	}
}

func TestIntegration_RestartRehydrates(t *testing.T) {
	e := newEnv(t)

	first, err := e.manager.Login(context.Background(), "john_student", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Simulated restart: close and reopen the store file, rebuild the stack.
	if err := e.store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}
	store, err := bolt.Open(e.storePath)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	restarted := buildStack(t, e.baseURL, store, e.storePath)
	restarted.manager.Rehydrate()

	cur := restarted.manager.Current()
	if !cur.Authenticated() {
		t.Fatalf("expected authenticated session after restart")
	}
	if cur.User.Username != first.User.Username || cur.User.Role != first.User.Role {
		t.Fatalf("rehydrated user differs: %+v", cur.User)
	}

	// The rehydrated credential must still be accepted by the server.
	profile, err := restarted.users.Current(context.Background())
	if err != nil {
		t.Fatalf("profile fetch after restart failed: %v", err)
	}
	if profile.Username != "john_student" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestIntegration_ExpiredCredentialForcesLogout(t *testing.T) {
	e := newEnv(t)

	if _, err := e.manager.Login(context.Background(), "john_student", "password123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Corrupt the stored credential the way an expired token behaves: the
	// next API call comes back 401.
	if err := e.store.Put(ports.StorageKeyCredential, []byte("expired-token")); err != nil {
		t.Fatalf("store.Put: %v", err)
	}

	if _, err := e.users.Current(context.Background()); !domain.IsCode(err, domain.CodeInvalidCredentials) {
		t.Fatalf("expected INVALID_CREDENTIALS, got %v", err)
	}

	if _, ok, _ := e.store.Get(ports.StorageKeyCredential); ok {
		t.Fatalf("rejected credential should have been purged")
	}
	if e.manager.State() != domain.StateAnonymous {
		t.Fatalf("expected forced logout to reach the session manager")
	}

	// A simulated restart must now come up anonymous.
	restarted := buildStack(t, e.baseURL, e.store, e.storePath)
	restarted.manager.Rehydrate()
	if restarted.manager.State() != domain.StateAnonymous {
		t.Fatalf("rehydrate after forced logout must be ANONYMOUS")
	}
}

func TestIntegration_RegisterThenAuthenticatedCall(t *testing.T) {
	e := newEnv(t)

	sess, err := e.manager.Register(context.Background(), ports.RegisterPayload{
		Username:   "maria_dev",
		Email:      "maria@student.com",
		Password:   "password123",
		FullName:   "Maria Garcia",
		Role:       domain.RoleStudent,
		University: "Stanford",
		Major:      "EE",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if !sess.Authenticated() || sess.User.Username != "maria_dev" || sess.User.Role != domain.RoleStudent {
		t.Fatalf("register did not yield an authenticated session: %+v", sess)
	}

	profile, err := e.users.Current(context.Background())
	if err != nil {
		t.Fatalf("profile fetch failed: %v", err)
	}
	if profile.Student == nil || profile.Student.University != "Stanford" {
		t.Fatalf("student fields missing from profile: %+v", profile)
	}
}

func TestIntegration_DuplicateRegistration(t *testing.T) {
	e := newEnv(t)

	_, err := e.manager.Register(context.Background(), ports.RegisterPayload{
		Username: "john_student",
		Email:    "other@student.com",
		Password: "password123",
		FullName: "Impostor",
	})
	if !domain.IsCode(err, domain.CodeServerRejected) {
		t.Fatalf("expected SERVER_REJECTED, got %v", err)
	}
	if err.Error() != "Username is already taken" {
		t.Fatalf("server message not verbatim: %q", err.Error())
	}
	if e.manager.State() != domain.StateAnonymous {
		t.Fatalf("failed registration must leave the session unchanged")
	}
}

func TestIntegration_ApplyFlow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// Anyone can browse the public feed.
	feed, err := e.internships.ListPublic(ctx, api.PublicListOptions{Page: 0, Size: 10})
	if err != nil {
		t.Fatalf("public feed failed: %v", err)
	}
	if len(feed.Content) != 1 || feed.Content[0].Status != domain.InternshipPublished {
		t.Fatalf("expected one seeded published posting, got %+v", feed.Content)
	}
	posting := feed.Content[0]

	// Student applies.
	if _, err := e.manager.Login(ctx, "john_student", "password123"); err != nil {
		t.Fatalf("student login failed: %v", err)
	}
	app, err := e.applications.Apply(ctx, api.ApplicationRequest{
		InternshipID: posting.ID,
		CoverLetter:  "I would love to join.",
	})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if app.Status != domain.ApplicationPending {
		t.Fatalf("new application should be PENDING, got %s", app.Status)
	}

	// Applying twice is rejected with the server's message.
	if _, err := e.applications.Apply(ctx, api.ApplicationRequest{InternshipID: posting.ID}); err == nil {
		t.Fatalf("duplicate application should fail")
	}

	mine, err := e.applications.Mine(ctx, 0, 10)
	if err != nil {
		t.Fatalf("my applications failed: %v", err)
	}
	if len(mine.Content) != 1 || mine.Content[0].InternshipTitle != posting.Title {
		t.Fatalf("unexpected applications page: %+v", mine.Content)
	}

	// Company reviews and accepts.
	e.manager.Logout()
	if _, err := e.manager.Login(ctx, "tech_corp", "password123"); err != nil {
		t.Fatalf("company login failed: %v", err)
	}
	received, err := e.applications.Received(ctx, 0, 10, domain.ApplicationPending)
	if err != nil {
		t.Fatalf("received applications failed: %v", err)
	}
	if len(received.Content) != 1 {
		t.Fatalf("expected one received application, got %d", len(received.Content))
	}
	accepted, err := e.applications.SetStatus(ctx, received.Content[0].ID, domain.ApplicationAccepted)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if accepted.Status != domain.ApplicationAccepted {
		t.Fatalf("expected ACCEPTED, got %s", accepted.Status)
	}
}

func TestIntegration_RoleGates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// A student may not hit company endpoints.
	if _, err := e.manager.Login(ctx, "john_student", "password123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := e.internships.Mine(ctx, 0, 10); !domain.IsCode(err, domain.CodeServerRejected) {
		t.Fatalf("expected SERVER_REJECTED (403) for role violation, got %v", err)
	}

	// Admin listing works for the admin account.
	e.manager.Logout()
	if _, err := e.manager.Login(ctx, "admin", "admin123"); err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	users, err := e.users.List(ctx, 0, 10, "", "")
	if err != nil {
		t.Fatalf("admin user list failed: %v", err)
	}
	if len(users.Content) != 3 {
		t.Fatalf("expected the three seeded accounts, got %d", len(users.Content))
	}
}

func TestIntegration_CompanyPostingLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if _, err := e.manager.Login(ctx, "tech_corp", "password123"); err != nil {
		t.Fatalf("company login failed: %v", err)
	}

	created, err := e.internships.Create(ctx, api.InternshipRequest{
		Title:       "Data Intern",
		Description: "Pipelines and dashboards.",
		Location:    "Remote",
		Remote:      true,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Status != domain.InternshipDraft {
		t.Fatalf("new posting should be DRAFT, got %s", created.Status)
	}

	published, err := e.internships.SetStatus(ctx, created.ID, domain.InternshipPublished)
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if published.Status != domain.InternshipPublished {
		t.Fatalf("expected PUBLISHED, got %s", published.Status)
	}

	if _, err := e.internships.SetStatus(ctx, created.ID, domain.InternshipClosed); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, err := e.internships.SetStatus(ctx, created.ID, domain.InternshipDraft); err == nil {
		t.Fatalf("invalid transition should be rejected")
	}
}
