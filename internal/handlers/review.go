package handlers

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"dishrecipes/internal/db"
	"dishrecipes/internal/middleware"
	"dishrecipes/internal/models"
	"dishrecipes/internal/policy"
	"dishrecipes/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateReview handles POST /recipe/:slug/review. A second submission by
// the same author updates the existing review instead of creating a
// duplicate; the (author_id, recipe_id) unique index is the backstop for
// two racing first submissions.
func (h *RecipeHandler) CreateReview(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	slug := c.Param("slug")

	var recipe models.Recipe
	if err := db.DB.Preload("Author").Where("slug = ?", slug).First(&recipe).Error; err != nil {
		NotFound(c)
		return
	}

	if !policy.CanReviewRecipe(actor, &recipe) {
		Forbidden(c)
		return
	}

	rating := utils.StringToInt(c.PostForm("rating"))
	content := strings.TrimSpace(c.PostForm("content"))

	if rating < 1 || rating > 5 {
		redirectDetailWithError(c, slug, "Rating must be between 1 and 5")
		return
	}
	if content == "" {
		redirectDetailWithError(c, slug, "Review text is required")
		return
	}
	if utf8.RuneCountInString(content) > 2000 {
		redirectDetailWithError(c, slug, "Review must be at most 2000 characters")
		return
	}

	var existing models.Review
	err := db.DB.Where("recipe_id = ? AND author_id = ?", recipe.ID, actor.ID).First(&existing).Error
	if err == nil {
		err = h.updateReview(&existing, rating, content)
	} else {
		review := models.Review{
			RecipeID: recipe.ID,
			AuthorID: &actor.ID,
			Rating:   rating,
			Content:  content,
		}
		err = db.DB.Create(&review).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race against our own earlier submission; fold into it.
			if db.DB.Where("recipe_id = ? AND author_id = ?", recipe.ID, actor.ID).First(&existing).Error == nil {
				err = h.updateReview(&existing, rating, content)
			}
		}
	}
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not save the review")
		return
	}

	utils.GetCache().Delete(detailCacheKey(slug))

	c.Redirect(http.StatusFound, "/recipe/"+slug)
}

func (h *RecipeHandler) updateReview(review *models.Review, rating int, content string) error {
	return db.DB.Model(review).Updates(map[string]interface{}{
		"rating":  rating,
		"content": content,
	}).Error
}

// DeleteReview handles POST /review/:id/delete.
func (h *RecipeHandler) DeleteReview(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	id := utils.StringToUint(c.Param("id"))

	var review models.Review
	if err := db.DB.Preload("Author").Preload("Recipe").First(&review, id).Error; err != nil {
		NotFound(c)
		return
	}

	if !policy.CanEditReview(actor, &review) {
		Forbidden(c)
		return
	}

	if err := db.DB.Delete(&review).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not delete the review")
		return
	}

	utils.GetCache().Delete(detailCacheKey(review.Recipe.Slug))

	c.Redirect(http.StatusFound, "/recipe/"+review.Recipe.Slug)
}
