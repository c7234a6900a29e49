package domain

// SessionState names the two states of the session machine.
type SessionState string

const (
	StateAnonymous     SessionState = "ANONYMOUS"
	StateAuthenticated SessionState = "AUTHENTICATED"
)

// Session is the client-side record of the current actor. User and Credential
// are only ever set together; Authenticated is derived, never stored.
type Session struct {
	User       *User  `json:"user"`
	Credential string `json:"credential"`
}

// Authenticated reports whether both the user and the credential are present.
func (s Session) Authenticated() bool {
	return s.User != nil && s.Credential != ""
}

// State maps the session onto the two-state machine.
func (s Session) State() SessionState {
	if s.Authenticated() {
		return StateAuthenticated
	}
	return StateAnonymous
}

// Clone returns a snapshot that shares nothing with the original.
func (s Session) Clone() Session {
	return Session{User: s.User.Clone(), Credential: s.Credential}
}
