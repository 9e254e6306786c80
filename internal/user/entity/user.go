package entity

import "time"

// User represents an account row in the `users` table.
// PasswordHash never leaves the user package's service layer.
type User struct {
	ID           int64     `db:"id"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// PublicView is the projection returned by the API.
type PublicView struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
}

func (u *User) Public() PublicView {
	return PublicView{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Username: u.Username}
}

// AuthenticateResponse is returned by a successful sign-in.
type AuthenticateResponse struct {
	PublicView
	Token string `json:"token"`
}
