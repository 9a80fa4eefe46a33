// Package policy holds the pure access predicates. They look only at the
// actor (nil means anonymous) and the target entity; handlers translate a
// false result into not-found for view checks and forbidden for action
// checks. The two must stay distinct error kinds.
package policy

import (
	"dishrecipes/internal/models"
)

// CanViewUser reports whether a profile is visible at all. Superuser and
// deactivated profiles answer not-found to every caller, the owner
// included.
func CanViewUser(target *models.User) bool {
	return target != nil && target.IsActive && !target.IsSuperuser
}

// CanEditRecipe covers both edit and delete. A recipe whose author was
// deleted keeps its content but can no longer be changed through the site.
func CanEditRecipe(actor *models.User, recipe *models.Recipe) bool {
	if actor == nil || recipe == nil || recipe.AuthorID == nil {
		return false
	}
	if recipe.Author != nil {
		return recipe.Author.Username == actor.Username
	}
	return *recipe.AuthorID == actor.ID
}

// CanEditReview covers both edit and delete of a review.
func CanEditReview(actor *models.User, review *models.Review) bool {
	if actor == nil || review == nil || review.AuthorID == nil {
		return false
	}
	if review.Author != nil {
		return review.Author.Username == actor.Username
	}
	return *review.AuthorID == actor.ID
}

// CanReviewRecipe allows any authenticated user except the recipe's own
// author. One-review-per-pair is enforced by the unique constraint and the
// create-or-update handler, not here.
func CanReviewRecipe(actor *models.User, recipe *models.Recipe) bool {
	if actor == nil || recipe == nil {
		return false
	}
	return !CanEditRecipe(actor, recipe)
}

// CanDeactivate allows exactly the account owner. The handler additionally
// requires a fresh password confirmation (step-up), which is deliberately
// not part of this predicate.
func CanDeactivate(actor, target *models.User) bool {
	return actor != nil && target != nil && actor.ID == target.ID
}
