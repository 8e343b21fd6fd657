package models

import "time"

type Role string

// DefaultRole is assigned when registration omits a role.
const DefaultRole Role = "student"

// User is a stored account. The password hash never leaves the server.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Email     string    `db:"email" json:"email"`
	Password  string    `db:"password_hash" json:"-"`
	Role      Role      `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
