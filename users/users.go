package users

import "time"

// User is an account row in the relational store. The subject is the
// IdP's stable identifier for the person and is unique across rows; it
// is the only link between this system and the IdP, and it never
// reaches clients.
type User struct {
	ID        int64     `json:"id"`
	Subject   string    `json:"-"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// UserForCreation carries the client-supplied fields of a sign-up.
type UserForCreation struct {
	Username string `json:"username"`
}
