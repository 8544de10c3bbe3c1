package domain

import "time"

// Rank is the administrative privilege level of a User.
type Rank string

const (
	RankAdmin      Rank = "admin"
	RankSuperAdmin Rank = "super_admin"
)

func (r Rank) Valid() bool {
	return r == RankAdmin || r == RankSuperAdmin
}

// User is an administrative identity. Regular visitors never have one.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Rank           Rank      `json:"rank"`
	CreatedAt      time.Time `json:"created_at"`
}

// Identity is the verified caller fact fed into authorization checks.
// It is resolved by the auth middleware; services treat it as opaque.
type Identity struct {
	ID   string
	Rank Rank
}

func (i Identity) IsSuperAdmin() bool {
	return i.Rank == RankSuperAdmin
}

type RegisterUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Rank     string `json:"rank,omitempty" validate:"omitempty,oneof=admin super_admin"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
