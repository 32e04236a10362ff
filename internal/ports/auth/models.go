package auth

// Roles conocidos. Cualquier otro valor se trata como usuario común.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Claims representa la información extraída del token.
type Claims struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

// IsAdmin indica si el caller puede usar las rutas /admin.
func (c Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
