package handlers

import (
	"net/http"

	"dishrecipes/internal/errs"
	"dishrecipes/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user := middleware.CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError renders the shared error page.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}

// NotFound is used both for absent entities and for entities hidden by the
// access policy; the response never distinguishes the two.
func NotFound(c *gin.Context) {
	RenderError(c, http.StatusNotFound, "Page not found")
}

// Forbidden is for authenticated actors without permission, and is kept
// distinct from NotFound.
func Forbidden(c *gin.Context) {
	RenderError(c, http.StatusForbidden, "You don't have permission to do that")
}

// Fail translates an error kind into its response. Validation errors are
// expected to be handled closer to their form; here they fall back to a
// 400 error page.
func Fail(c *gin.Context, err error) {
	switch {
	case err == nil:
		return
	case err == errs.ErrNotFound:
		NotFound(c)
	case err == errs.ErrForbidden:
		Forbidden(c)
	case err == errs.ErrConflict:
		RenderError(c, http.StatusConflict, "That name is already taken")
	default:
		if ve, ok := errs.AsValidation(err); ok {
			RenderError(c, http.StatusBadRequest, ve.Message)
			return
		}
		RenderError(c, http.StatusInternalServerError, "Something went wrong")
	}
}
