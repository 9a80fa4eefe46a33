package middleware

import (
	"net/http"

	"dishrecipes/internal/db"
	"dishrecipes/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CurrentUserKey = "current_user"

// LoadUser resolves the actor for the request from the session and sets it
// on the context. Deactivated accounts resolve to anonymous even while
// their session cookie is still around.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")

		if userID != nil {
			var user models.User
			result := db.DB.First(&user, userID)
			if result.Error == nil && user.IsActive {
				c.Set(CurrentUserKey, &user)
			}
		}
		c.Next()
	}
}

// AuthRequired ensures an actor was resolved; anonymous requests are sent
// to the login page. Must run after LoadUser.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CurrentUserKey); !exists {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the actor for the request, nil for anonymous.
func CurrentUser(c *gin.Context) *models.User {
	if v, exists := c.Get(CurrentUserKey); exists {
		return v.(*models.User)
	}
	return nil
}
