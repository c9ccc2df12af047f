package models

// Article is a news item written by an administrator. Title is unique across
// all articles; Category and Author are mandatory.
type Article struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title      string    `json:"title" gorm:"type:varchar(255);not null;uniqueIndex"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	CategoryID uint      `json:"categoryId" gorm:"not null;index"`
	Category   *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	AuthorID   uint      `json:"authorId" gorm:"not null;index"`
	Author     *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT"`
}

// ArticleInput carries no author: the author is always the caller.
type ArticleInput struct {
	Title      string `json:"title" validate:"required,min=3,max=255"`
	Content    string `json:"content" validate:"required,min=3"`
	CategoryID uint   `json:"categoryId" validate:"required"`
}

type ArticlePatch struct {
	Title      *string `json:"title" validate:"omitnil,min=3,max=255"`
	Content    *string `json:"content" validate:"omitnil,min=3"`
	CategoryID *uint   `json:"categoryId" validate:"omitnil,min=1"`
}

func (in ArticleInput) Article(authorID uint) Article {
	return Article{
		Title:      in.Title,
		Content:    in.Content,
		CategoryID: in.CategoryID,
		AuthorID:   authorID,
	}
}

// Apply copies every supplied field onto a.
func (p ArticlePatch) Apply(a *Article) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	if p.CategoryID != nil {
		a.CategoryID = *p.CategoryID
		a.Category = nil
	}
}
