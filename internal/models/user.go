package models

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleSupervisor Role = "SUPERVISOR"
	RoleUser       Role = "USER"
)

// ParseRole maps a form value onto a known role. Unknown values fall
// back to USER rather than erroring.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleSupervisor, RoleUser:
		return Role(s)
	}
	return RoleUser
}

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	FullName     string `gorm:"size:255"`
	Role         Role   `gorm:"size:20;default:'USER'"`
	IsActive     bool   `gorm:"default:true"`

	Loads []Load `gorm:"foreignKey:CreatedByID"`
}

func (User) TableName() string { return "users" }
