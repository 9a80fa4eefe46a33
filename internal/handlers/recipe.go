package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"dishrecipes/internal/db"
	"dishrecipes/internal/errs"
	"dishrecipes/internal/middleware"
	"dishrecipes/internal/models"
	"dishrecipes/internal/policy"
	"dishrecipes/internal/services"
	"dishrecipes/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const indexCacheKey = "recipe:index"

type RecipeHandler struct {
	images *services.ImageStore
}

func NewRecipeHandler() *RecipeHandler {
	return &RecipeHandler{
		images: services.NewImageStore(),
	}
}

func detailCacheKey(slug string) string {
	return fmt.Sprintf("recipe:detail:%s", slug)
}

// cloneH copies a cached render map so per-request fields never leak into
// the shared cache entry.
func cloneH(h gin.H) gin.H {
	out := make(gin.H, len(h)+4)
	for k, v := range h {
		out[k] = v
	}
	return out
}

// Index - home page with the latest recipes
func (h *RecipeHandler) Index(c *gin.Context) {
	if cachedData := utils.GetCache().Get(indexCacheKey); cachedData != nil {
		if hData, ok := cachedData.(gin.H); ok {
			Render(c, http.StatusOK, "recipe/index.html", cloneH(hData))
			return
		}
	}

	var recipes []models.Recipe
	db.DB.Preload("Author").
		Order("created_at DESC").
		Limit(6).
		Find(&recipes)

	var recipeCount, userCount int64
	db.DB.Model(&models.Recipe{}).Count(&recipeCount)
	db.DB.Model(&models.User{}).Where("is_active = ? AND is_superuser = ?", true, false).Count(&userCount)

	renderData := gin.H{
		"Title":       "DishRecipes",
		"Recipes":     recipes,
		"RecipeCount": recipeCount,
		"UserCount":   userCount,
	}

	utils.GetCache().Set(indexCacheKey, renderData, 1*time.Minute)

	Render(c, http.StatusOK, "recipe/index.html", cloneH(renderData))
}

// List - paginated recipe list
func (h *RecipeHandler) List(c *gin.Context) {
	perPage := utils.ResolvePerPage(c.Query("paginate_by"))
	page := utils.ResolvePage(c.Query("page"))

	var total int64
	db.DB.Model(&models.Recipe{}).Count(&total)
	pagination := utils.Paginate(total, page, perPage)

	var recipes []models.Recipe
	db.DB.Preload("Author").
		Order("created_at DESC").
		Limit(pagination.PerPage).
		Offset(pagination.Offset()).
		Find(&recipes)

	Render(c, http.StatusOK, "recipe/list.html", gin.H{
		"Title":          "Recipes",
		"Recipes":        recipes,
		"Pagination":     pagination,
		"PerPageChoices": utils.PerPageChoices,
	})
}

// Detail - recipe page with rendered body fields, reviews and aggregate
// rating. The shared part is cached; actor-dependent flags are computed
// per request.
func (h *RecipeHandler) Detail(c *gin.Context) {
	slug := c.Param("slug")
	actor := middleware.CurrentUser(c)

	cacheKey := detailCacheKey(slug)
	if cachedData := utils.GetCache().Get(cacheKey); cachedData != nil {
		if hData, ok := cachedData.(gin.H); ok {
			if recipe, ok := hData["Recipe"].(*models.Recipe); ok {
				page := cloneH(hData)
				h.injectActorState(c, page, recipe, actor)
				Render(c, http.StatusOK, "recipe/detail.html", page)
				return
			}
		}
	}

	var recipe models.Recipe
	if err := db.DB.Preload("Author").Where("slug = ?", slug).First(&recipe).Error; err != nil {
		NotFound(c)
		return
	}

	var reviews []models.Review
	db.DB.Preload("Author").
		Where("recipe_id = ?", recipe.ID).
		Order("created_at ASC").
		Find(&reviews)

	avg, rated := models.AverageRating(reviews)

	type renderedReview struct {
		models.Review
		ContentHTML interface{}
	}
	rendered := make([]renderedReview, len(reviews))
	for i, review := range reviews {
		rendered[i] = renderedReview{
			Review:      review,
			ContentHTML: utils.RenderMarkdown(review.Content),
		}
	}

	renderData := gin.H{
		"Title":           recipe.Title,
		"Recipe":          &recipe,
		"IngredientsHTML": utils.RenderMarkdown(recipe.Ingredients),
		"PreparationHTML": utils.RenderMarkdown(recipe.Preparation),
		"ServingHTML":     utils.RenderMarkdown(recipe.Serving),
		"Reviews":         rendered,
		"ReviewCount":     len(reviews),
		"AverageRating":   models.FormatRating(avg, rated),
	}

	utils.GetCache().Set(cacheKey, renderData, 5*time.Minute)

	page := cloneH(renderData)
	h.injectActorState(c, page, &recipe, actor)
	Render(c, http.StatusOK, "recipe/detail.html", page)
}

// injectActorState adds the per-request, per-actor fields that must never
// end up in the shared cache.
func (h *RecipeHandler) injectActorState(c *gin.Context, data gin.H, recipe *models.Recipe, actor *models.User) {
	data["CanEdit"] = policy.CanEditRecipe(actor, recipe)

	canReview := policy.CanReviewRecipe(actor, recipe)
	var myReview *models.Review
	if actor != nil {
		var review models.Review
		if err := db.DB.Where("recipe_id = ? AND author_id = ?", recipe.ID, actor.ID).First(&review).Error; err == nil {
			myReview = &review
			// One review per (author, recipe): the form flips to edit mode.
			canReview = false
		}
	}
	data["CanReview"] = canReview
	data["MyReview"] = myReview

	if msg := c.Query("review_error"); msg != "" {
		data["ReviewError"] = msg
	}
}

type recipeForm struct {
	Title       string
	Excerpt     string
	Ingredients string
	Preparation string
	Serving     string
}

func parseRecipeForm(c *gin.Context) recipeForm {
	return recipeForm{
		Title:       strings.TrimSpace(c.PostForm("title")),
		Excerpt:     strings.TrimSpace(c.PostForm("excerpt")),
		Ingredients: strings.TrimSpace(c.PostForm("ingredients")),
		Preparation: strings.TrimSpace(c.PostForm("preparation")),
		Serving:     strings.TrimSpace(c.PostForm("serving")),
	}
}

func (f recipeForm) validate() error {
	switch {
	case f.Title == "":
		return errs.Validation("title", "Title is required")
	case utf8.RuneCountInString(f.Title) > 100:
		return errs.Validation("title", "Title must be at most 100 characters")
	case utf8.RuneCountInString(f.Excerpt) > 1000:
		return errs.Validation("excerpt", "Excerpt must be at most 1000 characters")
	case utf8.RuneCountInString(f.Ingredients) > 10000:
		return errs.Validation("ingredients", "Ingredients must be at most 10000 characters")
	case utf8.RuneCountInString(f.Preparation) > 10000:
		return errs.Validation("preparation", "Preparation must be at most 10000 characters")
	case utf8.RuneCountInString(f.Serving) > 10000:
		return errs.Validation("serving", "Serving must be at most 10000 characters")
	}
	return nil
}

// formImage stores an uploaded image field if one was sent. An empty path
// with nil error means no file was uploaded.
func (h *RecipeHandler) formImage(c *gin.Context, field string) (string, error) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", err
	}
	defer file.Close()
	return h.images.Save(file, header)
}

func (h *RecipeHandler) ShowCreate(c *gin.Context) {
	Render(c, http.StatusOK, "recipe/create.html", gin.H{"Title": "New recipe"})
}

func (h *RecipeHandler) Create(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	form := parseRecipeForm(c)

	fail := func(code int, msg string) {
		Render(c, code, "recipe/create.html", gin.H{
			"Title": "New recipe",
			"Error": msg,
			"Form":  form,
		})
	}

	if err := form.validate(); err != nil {
		ve, _ := errs.AsValidation(err)
		fail(http.StatusBadRequest, ve.Message)
		return
	}

	imagePath, err := h.formImage(c, "image")
	if err != nil {
		if ve, ok := errs.AsValidation(err); ok {
			fail(http.StatusBadRequest, ve.Message)
			return
		}
		fail(http.StatusInternalServerError, "Upload failed")
		return
	}

	recipe := models.Recipe{
		AuthorID:    &actor.ID,
		Title:       form.Title,
		Excerpt:     form.Excerpt,
		Ingredients: form.Ingredients,
		Preparation: form.Preparation,
		Serving:     form.Serving,
		Image:       imagePath,
	}

	// The BeforeCreate hook derives the slug; when a concurrent creation
	// wins the same candidate, the unique index fires and we re-derive.
	var createErr error
	for attempt := 0; attempt < 3; attempt++ {
		createErr = db.DB.Create(&recipe).Error
		if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
			break
		}
		recipe.Slug = ""
	}
	if createErr != nil {
		fail(http.StatusInternalServerError, "Could not save the recipe")
		return
	}

	utils.GetCache().Delete(indexCacheKey)

	c.Redirect(http.StatusFound, "/recipe/"+recipe.Slug)
}

// loadForEdit resolves a recipe for an edit/delete action: ErrNotFound
// when absent, ErrForbidden when the actor is not the author.
func (h *RecipeHandler) loadForEdit(c *gin.Context, slug string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := db.DB.Preload("Author").Where("slug = ?", slug).First(&recipe).Error; err != nil {
		return nil, errs.ErrNotFound
	}
	if !policy.CanEditRecipe(middleware.CurrentUser(c), &recipe) {
		return nil, errs.ErrForbidden
	}
	return &recipe, nil
}

func (h *RecipeHandler) ShowEdit(c *gin.Context) {
	recipe, err := h.loadForEdit(c, c.Param("slug"))
	if err != nil {
		Fail(c, err)
		return
	}

	Render(c, http.StatusOK, "recipe/edit.html", gin.H{
		"Title":  "Edit " + recipe.Title,
		"Recipe": recipe,
	})
}

func (h *RecipeHandler) Update(c *gin.Context) {
	slug := c.Param("slug")
	recipe, err := h.loadForEdit(c, slug)
	if err != nil {
		Fail(c, err)
		return
	}

	form := parseRecipeForm(c)
	fail := func(code int, msg string) {
		Render(c, code, "recipe/edit.html", gin.H{
			"Title":  "Edit " + recipe.Title,
			"Error":  msg,
			"Recipe": recipe,
			"Form":   form,
		})
	}

	if err := form.validate(); err != nil {
		ve, _ := errs.AsValidation(err)
		fail(http.StatusBadRequest, ve.Message)
		return
	}

	imagePath, err := h.formImage(c, "image")
	if err != nil {
		if ve, ok := errs.AsValidation(err); ok {
			fail(http.StatusBadRequest, ve.Message)
			return
		}
		fail(http.StatusInternalServerError, "Upload failed")
		return
	}

	// The slug is never part of an update; it was fixed at creation.
	updates := map[string]interface{}{
		"title":       form.Title,
		"excerpt":     form.Excerpt,
		"ingredients": form.Ingredients,
		"preparation": form.Preparation,
		"serving":     form.Serving,
	}
	if imagePath != "" {
		updates["image"] = imagePath
	}

	if err := db.DB.Model(recipe).Updates(updates).Error; err != nil {
		fail(http.StatusInternalServerError, "Could not save the recipe")
		return
	}

	utils.GetCache().Delete(detailCacheKey(slug))
	utils.GetCache().Delete(indexCacheKey)

	c.Redirect(http.StatusFound, "/recipe/"+slug)
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	slug := c.Param("slug")
	recipe, err := h.loadForEdit(c, slug)
	if err != nil {
		Fail(c, err)
		return
	}

	// Reviews go with the recipe via ON DELETE CASCADE.
	if err := db.DB.Delete(recipe).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not delete the recipe")
		return
	}

	utils.GetCache().Delete(detailCacheKey(slug))
	utils.GetCache().Delete(indexCacheKey)

	c.Redirect(http.StatusFound, "/recipes")
}

// redirectDetailWithError sends the actor back to the detail page with a
// review form error in the query string.
func redirectDetailWithError(c *gin.Context, slug, msg string) {
	c.Redirect(http.StatusFound, "/recipe/"+slug+"?review_error="+url.QueryEscape(msg))
}
