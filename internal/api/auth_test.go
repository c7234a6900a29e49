package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/internhub/portal-client/internal/core/domain"
	"github.com/internhub/portal-client/internal/core/ports"
	"github.com/internhub/portal-client/internal/infrastructure/storage/memory"
	"github.com/internhub/portal-client/internal/infrastructure/transport"
)

func newAuthClient(t *testing.T, handler http.Handler) (*AuthClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	tc, err := transport.New(transport.Options{
		BaseURL: srv.URL + "/api",
		Store:   memory.New(),
		Logger:  zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("transport.New: %v", err)
	}
	return NewAuthClient(tc, zerolog.Nop()), srv
}

func TestSignIn_Success(t *testing.T) {
	client, _ := newAuthClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/signin" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req["username"] != "admin" || req["usernameOrEmail"] != "admin" {
			t.Fatalf("identifier must be sent under both field names: %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-1", "id": 3, "username": "admin",
			"email": "admin@portal.com", "fullName": "System Administrator", "role": "ADMIN",
		})
	}))

	res, err := client.SignIn(context.Background(), "admin", "admin123")
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}
	if res.Token != "tok-1" || res.User.Role != domain.RoleAdmin || res.User.ID != 3 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestSignIn_Unauthorized(t *testing.T) {
	client, _ := newAuthClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"bad credentials"}`))
	}))

	_, err := client.SignIn(context.Background(), "ghost", "wrong")
	if !domain.IsCode(err, domain.CodeInvalidCredentials) {
		t.Fatalf("expected INVALID_CREDENTIALS, got %v", err)
	}
	if err.Error() != "invalid username or password" {
		t.Fatalf("expected canonical message, got %q", err.Error())
	}
}

func TestSignIn_MissingTokenIsMalformed(t *testing.T) {
	client, _ := newAuthClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id": 1, "username": "admin", "role": "ADMIN",
		})
	}))

	_, err := client.SignIn(context.Background(), "admin", "admin123")
	if !domain.IsCode(err, domain.CodeMalformedResponse) {
		t.Fatalf("expected MALFORMED_RESPONSE, got %v", err)
	}
}

func TestSignIn_UnknownRoleIsMalformed(t *testing.T) {
	client, _ := newAuthClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"token": "t", "id": 1, "username": "x", "role": "WIZARD",
		})
	}))

	_, err := client.SignIn(context.Background(), "x", "y")
	if !domain.IsCode(err, domain.CodeMalformedResponse) {
		t.Fatalf("expected MALFORMED_RESPONSE for unknown role, got %v", err)
	}
}

func TestSignIn_EmptyInputIsRequestSetup(t *testing.T) {
	client, _ := newAuthClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("no request should be sent")
	}))

	_, err := client.SignIn(context.Background(), "", "")
	if !domain.IsCode(err, domain.CodeRequestSetup) {
		t.Fatalf("expected REQUEST_SETUP, got %v", err)
	}
}

func TestSignUp_Success(t *testing.T) {
	client, _ := newAuthClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/signup" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"message": "User registered successfully",
			"user": map[string]any{
				"id": 9, "username": "newstudent", "email": "new@student.com",
				"fullName": "New Student", "role": "STUDENT", "university": "MIT",
			},
		})
	}))

	res, err := client.SignUp(context.Background(), ports.RegisterPayload{
		Username:   "newstudent",
		Email:      "new@student.com",
		Password:   "password123",
		FullName:   "New Student",
		Role:       domain.RoleStudent,
		University: "MIT",
	})
	if err != nil {
		t.Fatalf("sign-up failed: %v", err)
	}
	if res.Message != "User registered successfully" {
		t.Fatalf("unexpected message %q", res.Message)
	}
	if res.User.Student == nil || res.User.Student.University != "MIT" {
		t.Fatalf("student profile not folded into tagged user: %+v", res.User)
	}
}

func TestSignUp_ValidationFailsBeforeNetwork(t *testing.T) {
	client, _ := newAuthClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("invalid payload must not reach the server")
	}))

	_, err := client.SignUp(context.Background(), ports.RegisterPayload{
		Username: "x", // too short
		Email:    "not-an-email",
		Password: "123",
	})
	if !domain.IsCode(err, domain.CodeRequestSetup) {
		t.Fatalf("expected REQUEST_SETUP, got %v", err)
	}
}

func TestSignUp_ServerMessageVerbatim(t *testing.T) {
	client, _ := newAuthClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"Email is already in use"}`))
	}))

	_, err := client.SignUp(context.Background(), ports.RegisterPayload{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "password123",
		FullName: "Carol",
	})
	if !domain.IsCode(err, domain.CodeServerRejected) {
		t.Fatalf("expected SERVER_REJECTED, got %v", err)
	}
	if err.Error() != "Email is already in use" {
		t.Fatalf("server message not verbatim: %q", err.Error())
	}
}
