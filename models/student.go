package models

// Student appears on any number of projects. Projects is read through the
// project_students join table owned by Project.
type Student struct {
	ID      uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name    string `json:"name" gorm:"type:varchar(255);not null"`
	Surname string `json:"surname" gorm:"type:varchar(255);not null"`

	Projects []Project `json:"-" gorm:"many2many:project_students;constraint:OnDelete:CASCADE"`
}

type StudentInput struct {
	Name    string `json:"name" validate:"required,max=255"`
	Surname string `json:"surname" validate:"required,max=255"`
}

type StudentPatch struct {
	Name    *string `json:"name" validate:"omitnil,min=1,max=255"`
	Surname *string `json:"surname" validate:"omitnil,min=1,max=255"`
}

func (p StudentPatch) Apply(s *Student) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Surname != nil {
		s.Surname = *p.Surname
	}
}
