package handlers

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"dishrecipes/internal/db"
	"dishrecipes/internal/errs"
	"dishrecipes/internal/middleware"
	"dishrecipes/internal/models"
	"dishrecipes/internal/policy"
	"dishrecipes/internal/services"
	"dishrecipes/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	images *services.ImageStore
}

func NewUserHandler() *UserHandler {
	return &UserHandler{
		images: services.NewImageStore(),
	}
}

// List - paginated user directory. Hidden profiles (superusers,
// deactivated accounts) are excluded so the list never links to a 404.
func (h *UserHandler) List(c *gin.Context) {
	perPage := utils.ResolvePerPage(c.Query("paginate_by"))
	page := utils.ResolvePage(c.Query("page"))

	var total int64
	db.DB.Model(&models.User{}).
		Where("is_active = ? AND is_superuser = ?", true, false).
		Count(&total)
	pagination := utils.Paginate(total, page, perPage)

	var users []models.User
	db.DB.Where("is_active = ? AND is_superuser = ?", true, false).
		Order("created_at ASC").
		Limit(pagination.PerPage).
		Offset(pagination.Offset()).
		Find(&users)

	Render(c, http.StatusOK, "user/list.html", gin.H{
		"Title":          "DishRecipes users",
		"Users":          users,
		"Pagination":     pagination,
		"PerPageChoices": utils.PerPageChoices,
	})
}

// Detail - public profile with the user's recipes. Superuser and inactive
// profiles answer not-found regardless of who asks.
func (h *UserHandler) Detail(c *gin.Context) {
	username := c.Param("username")

	var user models.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		NotFound(c)
		return
	}
	if !policy.CanViewUser(&user) {
		NotFound(c)
		return
	}

	perPage := utils.ResolvePerPage(c.Query("paginate_by"))
	page := utils.ResolvePage(c.Query("page"))

	var total int64
	db.DB.Model(&models.Recipe{}).Where("author_id = ?", user.ID).Count(&total)
	pagination := utils.Paginate(total, page, perPage)

	var recipes []models.Recipe
	db.DB.Preload("Author").
		Where("author_id = ?", user.ID).
		Order("created_at DESC").
		Limit(pagination.PerPage).
		Offset(pagination.Offset()).
		Find(&recipes)

	Render(c, http.StatusOK, "user/detail.html", gin.H{
		"Title":          user.Username,
		"User":           &user,
		"Recipes":        recipes,
		"Pagination":     pagination,
		"PerPageChoices": utils.PerPageChoices,
	})
}

// ShowSettings - profile settings page
func (h *UserHandler) ShowSettings(c *gin.Context) {
	Render(c, http.StatusOK, "user/settings.html", gin.H{
		"Title":   "Settings",
		"Success": c.Query("success") != "",
	})
}

// UpdateSettings - update email and bio
func (h *UserHandler) UpdateSettings(c *gin.Context) {
	user := middleware.CurrentUser(c)
	email := strings.TrimSpace(c.PostForm("email"))
	bio := strings.TrimSpace(c.PostForm("bio"))

	fail := func(msg string) {
		Render(c, http.StatusBadRequest, "user/settings.html", gin.H{
			"Title": "Settings",
			"Error": msg,
		})
	}

	updates := make(map[string]interface{})

	if email != "" && email != user.Email {
		if !utils.ValidEmail(email) {
			fail("Invalid Email")
			return
		}
		var existing models.User
		if err := db.DB.Where("email = ? AND id != ?", email, user.ID).First(&existing).Error; err == nil {
			fail("A user with that email address already exists")
			return
		}
		updates["email"] = email
	}

	if bio != user.Bio {
		if utf8.RuneCountInString(bio) > 2000 {
			fail("Bio must be at most 2000 characters")
			return
		}
		updates["bio"] = bio
	}

	if len(updates) > 0 {
		if err := db.DB.Model(user).Updates(updates).Error; err != nil {
			fail("Update failed")
			return
		}
	}

	c.Redirect(http.StatusFound, "/settings?success=1")
}

// UpdateProfileImage - upload or clear the profile image
func (h *UserHandler) UpdateProfileImage(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if c.PostForm("clear") != "" {
		db.DB.Model(user).Update("profile_image", "")
		c.Redirect(http.StatusFound, "/settings?success=1")
		return
	}

	file, header, err := c.Request.FormFile("profile_image")
	if err != nil {
		Render(c, http.StatusBadRequest, "user/settings.html", gin.H{
			"Title": "Settings",
			"Error": "Choose an image to upload",
		})
		return
	}
	defer file.Close()

	path, err := h.images.Save(file, header)
	if err != nil {
		msg := "Upload failed"
		if ve, ok := errs.AsValidation(err); ok {
			msg = ve.Message
		}
		Render(c, http.StatusBadRequest, "user/settings.html", gin.H{
			"Title": "Settings",
			"Error": msg,
		})
		return
	}

	if err := db.DB.Model(user).Update("profile_image", path).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}

	c.Redirect(http.StatusFound, "/settings?success=1")
}

// ShowDeactivate - confirmation page for account deactivation
func (h *UserHandler) ShowDeactivate(c *gin.Context) {
	Render(c, http.StatusOK, "user/deactivate.html", gin.H{"Title": "Deactivate account"})
}

// Deactivate - soft-deactivate the actor's own account. Requires the
// password again even though a session exists (step-up), and only ever
// applies to the session's own user.
func (h *UserHandler) Deactivate(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	if !policy.CanDeactivate(actor, actor) {
		Forbidden(c)
		return
	}

	password := c.PostForm("password")
	if !utils.CheckPasswordHash(password, actor.Password) {
		Render(c, http.StatusBadRequest, "user/deactivate.html", gin.H{
			"Title": "Deactivate account",
			"Error": "Your password was entered incorrectly",
		})
		return
	}

	if err := db.DB.Model(actor).Update("is_active", false).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.Redirect(http.StatusFound, "/")
}
