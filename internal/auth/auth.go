// Package auth provides the flat credential lookup backing the dashboard
// login. It is deliberately not a security boundary: credentials live in a
// seeded in-memory table, mirroring the rest of the simulator.
package auth

import "errors"

// Role partitions users by what the dashboard lets them do.
type Role string

// Known roles.
const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// ErrInvalidCredentials is returned when no user matches the given pair.
var ErrInvalidCredentials = errors.New("invalid credentials")

// User is the credential-free view of an account.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Avatar   string `json:"avatar"`
}

type account struct {
	User
	password string
}

// Directory holds the seeded accounts.
type Directory struct {
	accounts []account
}

// NewDirectory returns the seeded account table.
func NewDirectory() *Directory {
	return &Directory{accounts: []account{
		{User: User{ID: "1", Name: "Krish", Username: "admin", Role: RoleAdmin, Avatar: "KR"}, password: "admin123"},
		{User: User{ID: "2", Name: "Ezhil", Username: "staff1", Role: RoleStaff, Avatar: "EZ"}, password: "staff123"},
		{User: User{ID: "3", Name: "Kicha", Username: "staff2", Role: RoleStaff, Avatar: "KA"}, password: "staff456"},
	}}
}

// Authenticate matches a username/password pair and returns the user with
// the password stripped.
func (d *Directory) Authenticate(username, password string) (User, error) {
	for _, a := range d.accounts {
		if a.Username == username && a.password == password {
			return a.User, nil
		}
	}
	return User{}, ErrInvalidCredentials
}
