package domain

// Session is the portal-side view of an authenticated browser session:
// an opaque bearer token issued by the backend, plus the role string
// read out of that token without verification.
//
// The role is advisory. It gates navigation and buttons in the UI only;
// the backend re-checks authorization on every request it receives.
type Session struct {
	ID    string
	Token string
	Role  string
}

// IsAdmin reports whether the decoded role claim equals "admin".
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

// IsUser reports whether the decoded role claim equals "user".
func (s Session) IsUser() bool { return s.Role == RoleUser }

// LoggedIn reports whether a bearer token is present.
func (s Session) LoggedIn() bool { return s.Token != "" }
