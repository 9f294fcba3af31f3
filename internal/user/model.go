package user

import (
	"time"

	"gymcore/internal/auth"
)

type User struct {
	ID           int       `db:"id" json:"id"`
	TenantID     *int      `db:"tenant_id" json:"tenant_id,omitempty"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash *string   `db:"password_hash" json:"-"`
	Role         auth.Role `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Identity is what tokens issued for u carry.
func (u *User) Identity() auth.Identity {
	id := auth.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
	if u.TenantID != nil {
		id.TenantID = *u.TenantID
	}
	return id
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type StaffRequest struct {
	TenantID *int      `json:"tenant_id"`
	Name     string    `json:"name" binding:"required"`
	Email    string    `json:"email" binding:"required,email"`
	Password string    `json:"password" binding:"required,min=8"`
	Role     auth.Role `json:"role" binding:"required,oneof=STAFF TRAINER MANAGER"`
}
