package models

// Project is a showcased student project. Date is a year. Students and Media
// are stored in the project_students and project_media join tables; deleting
// either side removes only the join rows.
type Project struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Date        int       `json:"date" gorm:"not null"`
	Techno      string    `json:"techno" gorm:"type:text;not null"`
	IsActive    bool      `json:"isActive" gorm:"not null;index"`
	Link        *string   `json:"link,omitempty" gorm:"type:varchar(255)"`
	OwnerID     *uint     `json:"ownerId,omitempty" gorm:"index"`
	Owner       *User     `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL"`
	Students    []Student `json:"-" gorm:"many2many:project_students;constraint:OnDelete:CASCADE"`
	Media       []Media   `json:"-" gorm:"many2many:project_media;constraint:OnDelete:CASCADE"`
}

type ProjectInput struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description string  `json:"description" validate:"required"`
	Date        int     `json:"date" validate:"required,min=1900,max=2100"`
	Techno      string  `json:"techno" validate:"max=65535"`
	IsActive    *bool   `json:"isActive"`
	Link        *string `json:"link" validate:"omitnil,omitempty,url,max=255"`
	Students    []uint  `json:"students" validate:"omitempty,dive,min=1"`
	Media       []uint  `json:"media" validate:"omitempty,dive,min=1"`
}

// ProjectPatch follows merge-patch semantics. Students and Media, when
// present, replace the whole relation set.
type ProjectPatch struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=255"`
	Description *string `json:"description" validate:"omitnil,min=1"`
	Date        *int    `json:"date" validate:"omitnil,min=1900,max=2100"`
	Techno      *string `json:"techno" validate:"omitnil,max=65535"`
	IsActive    *bool   `json:"isActive"`
	Link        *string `json:"link" validate:"omitnil,omitempty,url,max=255"`
	Students    *[]uint `json:"students" validate:"omitnil,dive,min=1"`
	Media       *[]uint `json:"media" validate:"omitnil,dive,min=1"`

	// ClearLink removes the link; set for a null or empty "link" member.
	ClearLink bool `json:"-"`
}

// Normalize treats an empty link as no link. Call it before Validate.
func (in *ProjectInput) Normalize() {
	in.Link = emptyToNil(in.Link)
}

// Normalize turns a null or empty link into ClearLink. Call it before
// Validate so the url rule only sees real values.
func (p *ProjectPatch) Normalize(linkNull bool) {
	if linkNull || (p.Link != nil && *p.Link == "") {
		p.Link = nil
		p.ClearLink = true
	}
}

// Project builds the row; an absent isActive means visible.
func (in ProjectInput) Project(ownerID *uint) Project {
	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}
	return Project{
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Techno:      in.Techno,
		IsActive:    isActive,
		Link:        emptyToNil(in.Link),
		OwnerID:     ownerID,
	}
}

func (p ProjectPatch) Apply(project *Project) {
	if p.Title != nil {
		project.Title = *p.Title
	}
	if p.Description != nil {
		project.Description = *p.Description
	}
	if p.Date != nil {
		project.Date = *p.Date
	}
	if p.Techno != nil {
		project.Techno = *p.Techno
	}
	if p.IsActive != nil {
		project.IsActive = *p.IsActive
	}
	switch {
	case p.ClearLink:
		project.Link = nil
	case p.Link != nil:
		project.Link = emptyToNil(p.Link)
	}
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
