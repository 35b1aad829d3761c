package models

type UserRole string

const (
	RoleStudent UserRole = "estudiante"
	RoleAdmin   UserRole = "admin"
)

// User is an account row in usuarios. Password holds the bcrypt hash.
type User struct {
	ID       uint     `json:"id" gorm:"primaryKey;autoIncrement"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:100"`
	Password string   `json:"-" gorm:"not null;size:255"`
	Role     UserRole `json:"rol" gorm:"column:rol;size:20;default:estudiante"`
}

func (User) TableName() string {
	return "usuarios"
}
