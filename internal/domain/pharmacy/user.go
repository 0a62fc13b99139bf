package pharmacy

import (
	"github.com/pharma/backend/internal/domain/shared"
)

// Role represents a user's role in the pharmacy back office
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// IsValid reports whether the role is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// User represents a back-office user account.
// Password holds a bcrypt hash and must never be written to a response body.
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"type:varchar(50);not null;uniqueIndex" json:"username"`
	Password string `gorm:"type:varchar(200);not null" json:"-"`
	FullName string `gorm:"type:varchar(100);not null" json:"fullName"`
	Role     Role   `gorm:"type:varchar(20);not null;default:'staff'" json:"role"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user with a pre-hashed password
func NewUser(username, passwordHash, fullName string, role Role) (*User, error) {
	if username == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Username cannot be empty")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Password cannot be empty")
	}
	if role == "" {
		role = RoleStaff
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Role must be admin, manager, or staff")
	}

	return &User{
		Username: username,
		Password: passwordHash,
		FullName: fullName,
		Role:     role,
	}, nil
}

// UserPatch holds a partial update; nil fields are left untouched
type UserPatch struct {
	Username *string
	Password *string
	FullName *string
	Role     *Role
}

// Apply shallow-merges the patch onto the user
func (p UserPatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
}
