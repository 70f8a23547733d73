package models

const (
	RoleAdmin   = "admin"
	RolePartner = "partner"
	RoleTourist = "tourist"
)

// User is a row of Usuarios_Admins. PasswordHash never leaves the server.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	GuanaPoints  int64  `json:"guanaPoints"`
	PasswordHash string `json:"-"`
}

// Active reports whether the account can sign in.
func (u User) Active() bool {
	switch u.Status {
	case "", "activo", "active":
		return true
	}
	return false
}

type Wallet struct {
	Email   string `json:"email"`
	Balance int64  `json:"saldo"`
	Action  string `json:"action,omitempty"`
}
