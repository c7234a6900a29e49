package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/internhub/portal-client/internal/core/domain"
	"github.com/internhub/portal-client/internal/core/ports"
	"github.com/internhub/portal-client/internal/infrastructure/storage/memory"
)

type stubAuthAPI struct {
	signInFn func(ctx context.Context, identifier, secret string) (*ports.SignInResult, error)
	signUpFn func(ctx context.Context, payload ports.RegisterPayload) (*ports.SignUpResult, error)
}

func (s *stubAuthAPI) SignIn(ctx context.Context, identifier, secret string) (*ports.SignInResult, error) {
	return s.signInFn(ctx, identifier, secret)
}

func (s *stubAuthAPI) SignUp(ctx context.Context, payload ports.RegisterPayload) (*ports.SignUpResult, error) {
	return s.signUpFn(ctx, payload)
}

func adminSignIn(identifier, secret string) func(context.Context, string, string) (*ports.SignInResult, error) {
	return func(_ context.Context, id, sec string) (*ports.SignInResult, error) {
		if id != identifier || sec != secret {
			return nil, domain.ErrInvalidCredentials
		}
		return &ports.SignInResult{
			Token: "tok-" + id,
			User: domain.User{
				ID:       3,
				Username: id,
				Email:    "admin@portal.com",
				FullName: "System Administrator",
				Role:     domain.RoleAdmin,
			},
		}, nil
	}
}

func newManager(auth ports.AuthAPI, store ports.KeyValueStore) *SessionManager {
	return NewSessionManager(auth, store, zerolog.Nop())
}

func TestLogin_Success(t *testing.T) {
	store := memory.New()
	mgr := newManager(&stubAuthAPI{signInFn: adminSignIn("admin", "admin123")}, store)

	sess, err := mgr.Login(context.Background(), "admin", "admin123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !sess.Authenticated() {
		t.Fatalf("expected authenticated session")
	}
	if sess.User.Role != domain.RoleAdmin {
		t.Fatalf("expected ADMIN role, got %s", sess.User.Role)
	}

	cur := mgr.Current()
	if !cur.Authenticated() || cur.User.Username != "admin" || cur.User.Email != "admin@portal.com" {
		t.Fatalf("Current() does not match server fields: %+v", cur.User)
	}
	if mgr.State() != domain.StateAuthenticated {
		t.Fatalf("expected AUTHENTICATED, got %s", mgr.State())
	}

	if cred, ok, _ := store.Get(ports.StorageKeyCredential); !ok || string(cred) != "tok-admin" {
		t.Fatalf("credential not persisted: %q ok=%v", cred, ok)
	}
	if _, ok, _ := store.Get(ports.StorageKeyUser); !ok {
		t.Fatalf("user snapshot not persisted")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	store := memory.New()
	mgr := newManager(&stubAuthAPI{signInFn: adminSignIn("admin", "admin123")}, store)

	_, err := mgr.Login(context.Background(), "ghost", "wrong")
	if !domain.IsCode(err, domain.CodeInvalidCredentials) {
		t.Fatalf("expected INVALID_CREDENTIALS, got %v", err)
	}
	if mgr.State() != domain.StateAnonymous {
		t.Fatalf("expected ANONYMOUS after failed login")
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store after failed login, %d keys left", store.Len())
	}
}

func TestLogin_FailurePurgesEarlierPartialState(t *testing.T) {
	store := memory.New()
	_ = store.Put(ports.StorageKeyCredential, []byte("stale"))
	mgr := newManager(&stubAuthAPI{signInFn: adminSignIn("admin", "admin123")}, store)

	if _, err := mgr.Login(context.Background(), "ghost", "wrong"); err == nil {
		t.Fatalf("expected error")
	}
	if store.Len() != 0 {
		t.Fatalf("partial state survived a failed attempt")
	}
}

func TestLogin_DoubleSubmitGuard(t *testing.T) {
	store := memory.New()
	release := make(chan struct{})
	started := make(chan struct{})
	auth := &stubAuthAPI{
		signInFn: func(_ context.Context, id, _ string) (*ports.SignInResult, error) {
			close(started)
			<-release
			return &ports.SignInResult{Token: "t", User: domain.User{ID: 1, Username: id, Role: domain.RoleStudent}}, nil
		},
	}
	mgr := newManager(auth, store)

	done := make(chan error, 1)
	go func() {
		_, err := mgr.Login(context.Background(), "john_student", "password123")
		done <- err
	}()
	<-started

	if _, err := mgr.Login(context.Background(), "john_student", "password123"); !domain.IsCode(err, domain.CodeInFlight) {
		t.Fatalf("expected IN_FLIGHT for overlapping login, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first login failed: %v", err)
	}
}

func TestLogout_Idempotent(t *testing.T) {
	store := memory.New()
	mgr := newManager(&stubAuthAPI{signInFn: adminSignIn("admin", "admin123")}, store)

	if _, err := mgr.Login(context.Background(), "admin", "admin123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	mgr.Logout()
	mgr.Logout()

	if mgr.State() != domain.StateAnonymous {
		t.Fatalf("expected ANONYMOUS after logout")
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store after logout")
	}
}

func TestRehydrate_RoundTrip(t *testing.T) {
	store := memory.New()
	mgr := newManager(&stubAuthAPI{signInFn: adminSignIn("admin", "admin123")}, store)

	first, err := mgr.Login(context.Background(), "admin", "admin123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Simulated restart: a fresh manager over the same store, no network.
	restarted := newManager(&stubAuthAPI{
		signInFn: func(context.Context, string, string) (*ports.SignInResult, error) {
			t.Fatalf("rehydrate must not call the network")
			return nil, nil
		},
	}, store)
	restarted.Rehydrate()

	cur := restarted.Current()
	if !cur.Authenticated() {
		t.Fatalf("expected authenticated session after rehydrate")
	}
	if cur.User.Username != first.User.Username || cur.User.Role != first.User.Role || cur.User.Email != first.User.Email {
		t.Fatalf("rehydrated user differs: %+v vs %+v", cur.User, first.User)
	}
	if cur.Credential != first.Credential {
		t.Fatalf("rehydrated credential differs")
	}
}

func TestRehydrate_CorruptSnapshot(t *testing.T) {
	store := memory.New()
	_ = store.Put(ports.StorageKeyCredential, []byte("tok"))
	_ = store.Put(ports.StorageKeyUser, []byte(`{"username":"trunc`))

	mgr := newManager(&stubAuthAPI{}, store)
	mgr.Rehydrate()

	if mgr.State() != domain.StateAnonymous {
		t.Fatalf("expected ANONYMOUS for corrupt snapshot")
	}
	if _, ok, _ := store.Get(ports.StorageKeyUser); ok {
		t.Fatalf("corrupt key should have been removed")
	}
	if _, ok, _ := store.Get(ports.StorageKeyCredential); ok {
		t.Fatalf("half-restored credential should have been removed")
	}
}

func TestRehydrate_MissingCredential(t *testing.T) {
	store := memory.New()
	_ = store.Put(ports.StorageKeyUser, []byte(`{"id":1,"username":"john_student","role":"STUDENT"}`))

	mgr := newManager(&stubAuthAPI{}, store)
	mgr.Rehydrate()

	if mgr.State() != domain.StateAnonymous {
		t.Fatalf("expected ANONYMOUS when credential is missing")
	}
	if store.Len() != 0 {
		t.Fatalf("partial snapshot should have been purged")
	}
}

func TestRehydrate_PurgesLegacyKey(t *testing.T) {
	store := memory.New()
	_ = store.Put(ports.StorageKeyLegacy, []byte("old-token"))

	mgr := newManager(&stubAuthAPI{}, store)
	mgr.Rehydrate()

	if _, ok, _ := store.Get(ports.StorageKeyLegacy); ok {
		t.Fatalf("legacy key should have been purged")
	}
}

func TestRegister_ImpliesLogin(t *testing.T) {
	store := memory.New()
	var registered ports.RegisterPayload
	auth := &stubAuthAPI{
		signUpFn: func(_ context.Context, p ports.RegisterPayload) (*ports.SignUpResult, error) {
			registered = p
			return &ports.SignUpResult{
				Message: "User registered successfully",
				User:    domain.User{ID: 7, Username: p.Username, Email: p.Email, FullName: p.FullName, Role: p.Role},
			}, nil
		},
		signInFn: func(_ context.Context, id, sec string) (*ports.SignInResult, error) {
			if id != "newstudent" || sec != "password123" {
				return nil, domain.ErrInvalidCredentials
			}
			return &ports.SignInResult{
				Token: "tok-new",
				User: domain.User{
					ID: 7, Username: "newstudent", Email: "new@student.com",
					FullName: "New Student", Role: domain.RoleStudent,
				},
			}, nil
		},
	}
	mgr := newManager(auth, store)

	payload := ports.RegisterPayload{
		Username: "newstudent",
		Email:    "new@student.com",
		Password: "password123",
		FullName: "New Student",
		Role:     domain.RoleStudent,
	}
	sess, err := mgr.Register(context.Background(), payload)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if registered.Username != "newstudent" {
		t.Fatalf("sign-up not called with payload")
	}
	if !sess.Authenticated() {
		t.Fatalf("register must leave an authenticated session")
	}
	u := sess.User
	if u.ID != 7 || u.Username != payload.Username || u.Email != payload.Email || u.Role != payload.Role {
		t.Fatalf("session user does not match registration payload: %+v", u)
	}
}

func TestRegister_SignUpFailureLeavesSessionUnchanged(t *testing.T) {
	store := memory.New()
	auth := &stubAuthAPI{
		signUpFn: func(context.Context, ports.RegisterPayload) (*ports.SignUpResult, error) {
			return nil, domain.NewError(domain.CodeServerRejected, "Username is already taken")
		},
		signInFn: func(context.Context, string, string) (*ports.SignInResult, error) {
			t.Fatalf("sign-in must not run when sign-up fails")
			return nil, nil
		},
	}
	mgr := newManager(auth, store)

	_, err := mgr.Register(context.Background(), ports.RegisterPayload{Username: "bob", Password: "x"})
	if !domain.IsCode(err, domain.CodeServerRejected) {
		t.Fatalf("expected SERVER_REJECTED, got %v", err)
	}
	if err.Error() != "Username is already taken" {
		t.Fatalf("server message not surfaced verbatim: %q", err.Error())
	}
	if mgr.State() != domain.StateAnonymous {
		t.Fatalf("session should be unchanged")
	}
}

func TestForceLogout_ThenRehydrateIsAnonymous(t *testing.T) {
	store := memory.New()
	mgr := newManager(&stubAuthAPI{signInFn: adminSignIn("admin", "admin123")}, store)

	if _, err := mgr.Login(context.Background(), "admin", "admin123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	mgr.ForceLogout()

	if mgr.State() != domain.StateAnonymous {
		t.Fatalf("expected ANONYMOUS after forced logout")
	}

	restarted := newManager(&stubAuthAPI{}, store)
	restarted.Rehydrate()
	if restarted.State() != domain.StateAnonymous {
		t.Fatalf("rehydrate after forced logout must be ANONYMOUS")
	}
}

func TestCurrent_ReturnsSnapshotNotAlias(t *testing.T) {
	store := memory.New()
	mgr := newManager(&stubAuthAPI{signInFn: adminSignIn("admin", "admin123")}, store)

	if _, err := mgr.Login(context.Background(), "admin", "admin123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	snap := mgr.Current()
	snap.User.Username = "mutated"

	if mgr.Current().User.Username != "admin" {
		t.Fatalf("Current() leaked a writable reference to the session")
	}
}
