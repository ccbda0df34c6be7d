package users

import "time"

// Role constants for coarse capability checks at the boundary.
const (
	RoleAdmin      = "admin"
	RoleAgronomist = "agronomist"
	RoleOperator   = "operator"
)

// User is an account that can act on the system. Audit entries are
// attributed to a user, so every mutating call needs a resolvable one.
type User struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	Username  string    `gorm:"column:username;size:64;uniqueIndex" json:"username"`
	FullName  string    `gorm:"column:full_name;size:128" json:"full_name"`
	Role      string    `gorm:"column:role;size:32" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the table name.
func (User) TableName() string {
	return "users"
}
