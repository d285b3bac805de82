package models

import (
	"time"
)

type User struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	Email        string      `json:"email" gorm:"unique;not null"`
	Username     string      `json:"username" gorm:"unique;not null"`
	Password     string      `json:"-" gorm:"not null"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Role         UserRole    `json:"role" gorm:"default:'employee'"`
	DepartmentID *uint       `json:"department_id"`
	SupervisorID *uint       `json:"supervisor_id"`
	IsActive     bool        `json:"is_active" gorm:"default:true"`
	LastLogin    time.Time   `json:"last_login"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Department   *Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
	Supervisor   *User       `json:"supervisor,omitempty" gorm:"foreignKey:SupervisorID"`
}

type UserRole string

const (
	UserRoleAdmin      UserRole = "admin"
	UserRoleClient     UserRole = "client"
	UserRoleSupervisor UserRole = "supervisor"
	UserRoleEmployee   UserRole = "employee"
)

// ReviewerRoles may approve or reject tasks.
var ReviewerRoles = []UserRole{UserRoleAdmin, UserRoleClient, UserRoleSupervisor}

type RefreshToken struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null"`
	Token     string    `json:"token" gorm:"unique;not null"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
