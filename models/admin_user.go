package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin roles
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleViewer  = "viewer"
)

// DefaultAdminEmail is the bootstrap operator account synthesized on first
// login when no admin-role record exists for it.
const DefaultAdminEmail = "admin@gmail.com"

// AdminUser represents a back-office operator account
type AdminUser struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password,omitempty" json:"-"`
	Role      string             `bson:"role" json:"role"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// ValidRole reports whether a role belongs to the fixed operator role set.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleManager || role == RoleViewer
}
