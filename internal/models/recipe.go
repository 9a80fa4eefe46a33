package models

import (
	"time"

	"dishrecipes/internal/utils"

	"gorm.io/gorm"
)

// DefaultRecipeImage is served for recipes without an uploaded image.
const DefaultRecipeImage = "images/default.jpg"

type Recipe struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AuthorID    *uint     `gorm:"index" json:"author_id"` // nullable: survives author deletion
	Author      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"author"`
	Slug        string    `gorm:"uniqueIndex;size:120;not null" json:"slug"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Excerpt     string    `gorm:"size:1000" json:"excerpt"`
	Ingredients string    `gorm:"size:10000" json:"ingredients"`
	Preparation string    `gorm:"size:10000" json:"preparation"`
	Serving     string    `gorm:"size:10000" json:"serving"`
	Image       string    `gorm:"size:200" json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate derives the slug from the title exactly once. Later title
// edits never regenerate it. The unique index stays the authority for
// concurrent creations; callers retry with an empty slug on duplicate-key.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.Slug != "" {
		return nil
	}
	r.Slug = utils.UniqueSlug(r.Title, func(candidate string) bool {
		var n int64
		tx.Model(&Recipe{}).Where("slug = ?", candidate).Count(&n)
		return n > 0
	})
	return nil
}

// ImageURL returns the web path of the recipe image, falling back to the
// default image.
func (r *Recipe) ImageURL() string {
	if r.Image == "" {
		return "/media/" + DefaultRecipeImage
	}
	return "/media/" + r.Image
}

// AuthorName is the display name of the author, "---" once the owning
// user has been deleted.
func (r *Recipe) AuthorName() string {
	if r.Author == nil {
		return "---"
	}
	return r.Author.Username
}
