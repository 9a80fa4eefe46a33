package models

import (
	"strconv"
	"time"
)

// Review is one rating plus text per (author, recipe) pair. The composite
// unique index is the backstop against duplicates; deleting the recipe
// removes its reviews, deleting the author only anonymizes them.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RecipeID  uint      `gorm:"not null;index;uniqueIndex:idx_review_author_recipe" json:"recipe_id"`
	Recipe    Recipe    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"recipe"`
	AuthorID  *uint     `gorm:"uniqueIndex:idx_review_author_recipe" json:"author_id"`
	Author    *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"author"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Content   string    `gorm:"size:2000" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AverageRating is the arithmetic mean of the review ratings. ok is false
// when there are no reviews.
func AverageRating(reviews []Review) (avg float64, ok bool) {
	if len(reviews) == 0 {
		return 0, false
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews)), true
}

// FormatRating renders an aggregate rating for display, "-" when unrated.
func FormatRating(avg float64, ok bool) string {
	if !ok {
		return "-"
	}
	return strconv.FormatFloat(avg, 'f', 1, 64)
}

// AuthorName is the reviewer's display name, "---" once the reviewer has
// been deleted.
func (r *Review) AuthorName() string {
	if r.Author == nil {
		return "---"
	}
	return r.Author.Username
}
