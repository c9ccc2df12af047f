package models

import "time"

// Candidate is an application submitted through the public intake form.
type Candidate struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name       string    `json:"name" gorm:"type:varchar(255);not null"`
	Surname    string    `json:"surname" gorm:"type:varchar(255);not null"`
	Email      string    `json:"email" gorm:"type:varchar(255);not null"`
	Phone      string    `json:"phone" gorm:"type:varchar(255);not null"`
	Program    string    `json:"program" gorm:"type:varchar(255);not null"`
	Motivation string    `json:"motivation" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CandidateInput struct {
	Name       string `json:"name" validate:"required,max=255"`
	Surname    string `json:"surname" validate:"required,max=255"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Phone      string `json:"phone" validate:"required,max=255"`
	Program    string `json:"program" validate:"required,max=255"`
	Motivation string `json:"motivation" validate:"required"`
}

func (in CandidateInput) Candidate() Candidate {
	return Candidate{
		Name:       in.Name,
		Surname:    in.Surname,
		Email:      in.Email,
		Phone:      in.Phone,
		Program:    in.Program,
		Motivation: in.Motivation,
	}
}
