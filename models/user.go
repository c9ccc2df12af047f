package models

import (
	"slices"

	"gorm.io/datatypes"
)

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User is an account that can sign in. Password holds a bcrypt hash.
type User struct {
	ID       uint                        `json:"id" gorm:"primaryKey;autoIncrement"`
	Email    string                      `json:"email" gorm:"type:varchar(180);not null;uniqueIndex"`
	Password string                      `json:"-" gorm:"type:varchar(255);not null"`
	Roles    datatypes.JSONSlice[string] `json:"roles" gorm:"not null"`
	Name     string                      `json:"name" gorm:"type:varchar(255);not null"`
	Surname  string                      `json:"surname" gorm:"type:varchar(255);not null"`

	Articles []Article `json:"-" gorm:"foreignKey:AuthorID"`
}

// EffectiveRoles always contains ROLE_USER; ROLE_ADMIN implies it.
func (u *User) EffectiveRoles() []string {
	roles := []string{RoleUser}
	for _, role := range u.Roles {
		if role != "" && !slices.Contains(roles, role) {
			roles = append(roles, role)
		}
	}
	return roles
}

func (u *User) HasRole(role string) bool {
	return slices.Contains(u.EffectiveRoles(), role)
}

// RegisterUserInput is the public sign-up payload. Roles are never read from it.
type RegisterUserInput struct {
	Email         string `json:"email" validate:"required,email,max=180"`
	PlainPassword string `json:"plainPassword" validate:"required,min=8,max=72"`
	Name          string `json:"name" validate:"required,max=255"`
	Surname       string `json:"surname" validate:"required,max=255"`
}

// UserPatch changes a user; Roles is only honoured for administrators.
type UserPatch struct {
	Email         *string   `json:"email" validate:"omitnil,email,max=180"`
	PlainPassword *string   `json:"plainPassword" validate:"omitnil,min=8,max=72"`
	Name          *string   `json:"name" validate:"omitnil,min=1,max=255"`
	Surname       *string   `json:"surname" validate:"omitnil,min=1,max=255"`
	Roles         *[]string `json:"roles" validate:"omitnil,dive,oneof=ROLE_USER ROLE_ADMIN"`
}

// LoginInput is the credential payload exchanged for a bearer token.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
