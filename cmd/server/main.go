package main

import (
	"fmt"
	"html/template"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"dishrecipes/internal/db"
	"dishrecipes/internal/handlers"
	"dishrecipes/internal/middleware"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("dishrecipes_session", store))

	// Load Templates using Multitemplate to avoid collision and allow handler names
	r.HTMLRender = loadTemplates("./web/templates")

	// Static Assets and uploaded media
	r.Static("/static", "./web/static")
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	r.Static("/media", uploadDir)

	// Middleware
	r.Use(middleware.LoadUser())

	// Handlers
	authHandler := handlers.NewAuthHandler()
	recipeHandler := handlers.NewRecipeHandler()
	userHandler := handlers.NewUserHandler()

	// Public Routes
	r.GET("/", recipeHandler.Index)
	r.GET("/recipes", recipeHandler.List)
	r.GET("/recipe/:slug", recipeHandler.Detail)
	r.GET("/users", userHandler.List)
	r.GET("/users/:username", userHandler.Detail)

	r.GET("/signup", authHandler.ShowRegister)
	r.POST("/signup", authHandler.Register)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)
	r.GET("/password/forgot", authHandler.ShowForgotPassword)
	r.POST("/password/forgot", authHandler.ForgotPassword)
	r.GET("/password/reset", authHandler.ShowResetPassword)
	r.POST("/password/reset", authHandler.ResetPassword)

	// Protected Routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/recipes/new", recipeHandler.ShowCreate)
		authorized.POST("/recipes/new", recipeHandler.Create)
		authorized.GET("/recipe/:slug/edit", recipeHandler.ShowEdit)
		authorized.POST("/recipe/:slug/edit", recipeHandler.Update)
		authorized.POST("/recipe/:slug/delete", recipeHandler.Delete)
		authorized.POST("/recipe/:slug/review", recipeHandler.CreateReview)
		authorized.POST("/review/:id/delete", recipeHandler.DeleteReview)

		authorized.GET("/settings", userHandler.ShowSettings)
		authorized.POST("/settings", userHandler.UpdateSettings)
		authorized.POST("/settings/image", userHandler.UpdateProfileImage)
		authorized.GET("/deactivate", userHandler.ShowDeactivate)
		authorized.POST("/deactivate", userHandler.Deactivate)
		authorized.GET("/password/change", authHandler.ShowChangePassword)
		authorized.POST("/password/change", authHandler.ChangePassword)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("DishRecipes server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

func loadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	includes, err := filepath.Glob(templatesDir + "/includes/*.html")
	if err != nil {
		panic(err)
	}

	// Helper to assemble files
	assemble := func(view string) []string {
		files := make([]string, 0)
		files = append(files, layouts...)
		files = append(files, includes...)
		files = append(files, view)
		return files
	}

	// FuncMap
	funcMap := template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add": func(a, b int) int {
			return a + b
		},
		"date": func(t time.Time) string {
			return t.Format("Jan 02, 2006")
		},
		"longDate": func(t time.Time) string {
			return t.Format("January 02, 2006")
		},
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
		"urlquery": func(s string) string {
			return url.QueryEscape(s)
		},
	}

	// Manual registration to ensure keys match handler expectation
	// Auth
	r.AddFromFilesFuncs("auth/signup.html", funcMap, assemble(templatesDir+"/views/auth/signup.html")...)
	r.AddFromFilesFuncs("auth/login.html", funcMap, assemble(templatesDir+"/views/auth/login.html")...)
	r.AddFromFilesFuncs("auth/forgot_password.html", funcMap, assemble(templatesDir+"/views/auth/forgot_password.html")...)
	r.AddFromFilesFuncs("auth/reset_password.html", funcMap, assemble(templatesDir+"/views/auth/reset_password.html")...)
	r.AddFromFilesFuncs("auth/password_change.html", funcMap, assemble(templatesDir+"/views/auth/password_change.html")...)

	// Recipe
	r.AddFromFilesFuncs("recipe/index.html", funcMap, assemble(templatesDir+"/views/recipe/index.html")...)
	r.AddFromFilesFuncs("recipe/list.html", funcMap, assemble(templatesDir+"/views/recipe/list.html")...)
	r.AddFromFilesFuncs("recipe/detail.html", funcMap, assemble(templatesDir+"/views/recipe/detail.html")...)
	r.AddFromFilesFuncs("recipe/create.html", funcMap, assemble(templatesDir+"/views/recipe/create.html")...)
	r.AddFromFilesFuncs("recipe/edit.html", funcMap, assemble(templatesDir+"/views/recipe/edit.html")...)

	// User
	r.AddFromFilesFuncs("user/list.html", funcMap, assemble(templatesDir+"/views/user/list.html")...)
	r.AddFromFilesFuncs("user/detail.html", funcMap, assemble(templatesDir+"/views/user/detail.html")...)
	r.AddFromFilesFuncs("user/settings.html", funcMap, assemble(templatesDir+"/views/user/settings.html")...)
	r.AddFromFilesFuncs("user/deactivate.html", funcMap, assemble(templatesDir+"/views/user/deactivate.html")...)

	// Error
	r.AddFromFilesFuncs("error.html", funcMap, assemble(templatesDir+"/views/error.html")...)

	return r
}
