package models

import (
	"encoding/json"
	"time"
)

// UserRole is the staff role of a system account.
type UserRole string

const (
	RoleTechnician UserRole = "TECHNICIAN"
	RoleAdmin      UserRole = "ADMIN"
)

// Department is an organizational unit (cost center).
type Department struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	Name      string    `gorm:"column:name;size:200;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName returns the GORM table name.
func (Department) TableName() string { return "departments" }

// Employee is a member of the organization who can hold assets.
type Employee struct {
	ID           uint        `gorm:"primaryKey;column:id" json:"id"`
	RUT          string      `gorm:"column:rut;size:12;uniqueIndex;not null" json:"rut"`
	FirstName    string      `gorm:"column:first_name;size:150;not null" json:"firstName"`
	LastName     string      `gorm:"column:last_name;size:150;not null" json:"lastName"`
	Email        string      `gorm:"column:email;size:254;uniqueIndex;not null" json:"email"`
	Position     string      `gorm:"column:position;size:100" json:"position"`
	DepartmentID *uint       `gorm:"column:department_id;index" json:"departmentId,omitempty"`
	Department   *Department `gorm:"foreignKey:DepartmentID;constraint:OnDelete:SET NULL" json:"department,omitempty"`
	CreatedAt    time.Time   `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName returns the GORM table name.
func (Employee) TableName() string { return "employees" }

// FullName returns the employee's display name.
func (e Employee) FullName() string { return e.FirstName + " " + e.LastName }

// SystemUser is a staff account of the registry itself. Authentication is
// handled by an external gateway; only the account record is kept here.
type SystemUser struct {
	ID           uint      `gorm:"primaryKey;column:id" json:"id"`
	Username     string    `gorm:"column:username;size:150;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"column:email;size:254" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;size:255" json:"passwordHash,omitempty"`
	Role         UserRole  `gorm:"column:role;size:50;not null" json:"role"`
	Active       bool      `gorm:"column:is_active;default:true;not null" json:"isActive"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// MarshalJSON blanks the credential hash; it is accepted on requests
// but never served back.
func (u SystemUser) MarshalJSON() ([]byte, error) {
	type alias SystemUser
	a := alias(u)
	a.PasswordHash = ""
	return json.Marshal(a)
}

// TableName returns the GORM table name.
func (SystemUser) TableName() string { return "system_users" }
