package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"dishrecipes/internal/db"
	"dishrecipes/internal/middleware"
	"dishrecipes/internal/models"
	"dishrecipes/internal/services"
	"dishrecipes/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const minPasswordLength = 8

// resetCodeTTL bounds how long an emailed password reset code stays valid.
const resetCodeTTL = time.Hour

type AuthHandler struct {
	mailService *services.MailService
}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{
		mailService: services.NewMailService(),
	}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	Render(c, http.StatusOK, "auth/signup.html", nil)
}

func (h *AuthHandler) Register(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))
	password1 := c.PostForm("password1")
	password2 := c.PostForm("password2")

	fail := func(code int, msg string) {
		Render(c, code, "auth/signup.html", gin.H{
			"Error":    msg,
			"Username": username,
			"Email":    email,
		})
	}

	if username == "" {
		fail(http.StatusBadRequest, "Username is required")
		return
	}
	if !utils.ValidEmail(email) {
		fail(http.StatusBadRequest, "Invalid Email")
		return
	}
	if len(password1) < minPasswordLength {
		fail(http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}
	if password1 != password2 {
		fail(http.StatusBadRequest, "The two password fields didn't match")
		return
	}

	var existing models.User
	if err := db.DB.Where("username = ?", username).First(&existing).Error; err == nil {
		fail(http.StatusConflict, "A user with that username already exists")
		return
	}
	if err := db.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		fail(http.StatusConflict, "A user with that email address already exists")
		return
	}

	hash, err := utils.HashPassword(password1)
	if err != nil {
		fail(http.StatusInternalServerError, "Registration failed")
		return
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: hash,
		IsActive: true,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		// pre-checks raced another signup; the unique indexes decide
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			fail(http.StatusConflict, "A user with that username or email address already exists")
			return
		}
		fail(http.StatusInternalServerError, "Registration failed")
		return
	}

	h.logIn(c, &user)
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "auth/login.html", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	var user models.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{"Error": "Invalid username or password", "Username": username})
		return
	}

	// Deactivated accounts fail exactly like wrong credentials.
	if !utils.CheckPasswordHash(password, user.Password) || !user.IsActive {
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{"Error": "Invalid username or password", "Username": username})
		return
	}

	h.logIn(c, &user)
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) logIn(c *gin.Context, user *models.User) {
	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	// UpdateColumn keeps UpdatedAt untouched; logging in is not an edit.
	db.DB.Model(user).UpdateColumn("last_login", time.Now())
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/")
}

// ShowChangePassword and ChangePassword live behind AuthRequired.
func (h *AuthHandler) ShowChangePassword(c *gin.Context) {
	Render(c, http.StatusOK, "auth/password_change.html", nil)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user := middleware.CurrentUser(c)
	oldPassword := c.PostForm("old_password")
	newPassword1 := c.PostForm("new_password1")
	newPassword2 := c.PostForm("new_password2")

	fail := func(msg string) {
		Render(c, http.StatusBadRequest, "auth/password_change.html", gin.H{"Error": msg})
	}

	if !utils.CheckPasswordHash(oldPassword, user.Password) {
		fail("Your old password was entered incorrectly")
		return
	}
	if len(newPassword1) < minPasswordLength {
		fail("Password must be at least 8 characters")
		return
	}
	if newPassword1 != newPassword2 {
		fail("The two password fields didn't match")
		return
	}

	hash, err := utils.HashPassword(newPassword1)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}
	if err := db.DB.Model(user).Update("password", hash).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}

	Render(c, http.StatusOK, "auth/password_change.html", gin.H{"Success": "Password changed"})
}

func (h *AuthHandler) ShowForgotPassword(c *gin.Context) {
	Render(c, http.StatusOK, "auth/forgot_password.html", nil)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))

	var user models.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		// Do not reveal whether the address exists.
		Render(c, http.StatusOK, "auth/reset_password.html", gin.H{
			"Success": "If that email address exists, a reset code has been sent.",
			"Email":   email,
		})
		return
	}

	code := utils.GenerateRandomCode(6)
	expires := time.Now().Add(resetCodeTTL)
	db.DB.Model(&user).Updates(map[string]interface{}{
		"reset_code":    code,
		"reset_expires": expires,
	})
	h.mailService.SendPasswordResetEmail(email, code)

	Render(c, http.StatusOK, "auth/reset_password.html", gin.H{
		"Success": "If that email address exists, a reset code has been sent.",
		"Email":   email,
	})
}

func (h *AuthHandler) ShowResetPassword(c *gin.Context) {
	email := c.Query("email")
	Render(c, http.StatusOK, "auth/reset_password.html", gin.H{"Email": email})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	code := strings.TrimSpace(c.PostForm("code"))
	newPassword := c.PostForm("password")

	fail := func(msg string) {
		Render(c, http.StatusBadRequest, "auth/reset_password.html", gin.H{"Error": msg, "Email": email})
	}

	var user models.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		fail("Reset code is invalid or has expired")
		return
	}

	if user.ResetCode == "" || user.ResetCode != code ||
		user.ResetExpires == nil || time.Now().After(*user.ResetExpires) {
		fail("Reset code is invalid or has expired")
		return
	}

	if len(newPassword) < minPasswordLength {
		fail("Password must be at least 8 characters")
		return
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}
	db.DB.Model(&user).Updates(map[string]interface{}{
		"password":      hash,
		"reset_code":    "",
		"reset_expires": nil,
	})

	Render(c, http.StatusOK, "auth/login.html", gin.H{"Success": "Password reset, please log in"})
}
