package domain

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is a backend account entry shown on the admin user screen.
// The list is read-only apart from deletion.
type User struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
