package model

import (
	"time"

	"sporti/shared/model"
)

const (
	TableName  = "members"
	EntityName = "member"

	FieldID          = "id"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldRole        = "role"
	FieldFullName    = "full_name"
	FieldDesignation = "designation"
	FieldPhone       = "phone"
	FieldLastLogin   = "last_login"
	FieldActive      = "active"
)

// Member is an officer holding a portal account. Role is member or admin; Designation
// (SP, ADGP, DGP, ...) decides access to gated room categories.
type Member struct {
	ID          string     `db:"id"`
	Email       string     `db:"email"`
	Password    string     `db:"password"`
	Role        string     `db:"role"`
	FullName    string     `db:"full_name"`
	Designation string     `db:"designation"`
	Phone       string     `db:"phone"`
	LastLogin   *time.Time `db:"last_login"`
	Active      bool       `db:"active"`
	model.Metadata
}
