package models

// Category groups articles.
type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"type:varchar(255);not null;uniqueIndex"`
}

type CategoryInput struct {
	Name string `json:"name" validate:"required,min=2,max=255"`
}

type CategoryPatch struct {
	Name *string `json:"name" validate:"omitnil,min=2,max=255"`
}
