package main

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"redcreativa/internal/api/controllers"
	"redcreativa/internal/config"
	"redcreativa/internal/services"
	"redcreativa/pkg/middleware"
)

type RouterParams struct {
	fx.In

	Config   *config.Config
	Registry *services.AuthContextRegistry
	Metrics  *middleware.Metrics

	Auth       *controllers.AuthController
	Health     *controllers.HealthController
	Projects   *controllers.ProjectController
	Tasks      *controllers.TaskController
	Events     *controllers.EventController
	Posts      *controllers.PostController
	Prompts    *controllers.PromptController
	Scripts    *controllers.ScriptController
	Resources  *controllers.ResourceController
	Thumbnails *controllers.ThumbnailController
	AI         *controllers.AIController
	Billing    *controllers.BillingController
	Dashboard  *controllers.DashboardController
}

func ProvideRouter(p RouterParams) *gin.Engine {
	if p.Config.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(p.Metrics.Middleware())
	r.Use(middleware.CORSMiddleware(p.Config.Server.AllowOrigins))

	RegisterRoutes(r, p)

	return r
}

func RegisterRoutes(r *gin.Engine, p RouterParams) {
	r.GET("/healthz", p.Health.Healthz)
	r.GET("/metrics", p.Metrics.Handler())

	api := r.Group("/api")

	// The webhook is called by the payment provider and carries no client.
	api.POST("/billing/webhook", p.Billing.Webhook)
	api.GET("/billing/plans", p.Billing.ListPlans)

	client := api.Group("", middleware.AuthContextMiddleware(p.Registry, middleware.ClientCookie{
		Name:   p.Config.Auth.ClientCookie,
		Secure: p.Config.Auth.CookieSecure,
		MaxAge: p.Config.Auth.TokenTTL,
	}))

	auth := client.Group("/auth")
	auth.POST("/signup", p.Auth.Signup)
	auth.POST("/login", p.Auth.Login)
	auth.POST("/logout", p.Auth.Logout)
	auth.POST("/demo", p.Auth.StartDemo)
	auth.GET("/confirm", p.Auth.ConfirmEmail)
	auth.POST("/resend", p.Auth.ResendVerification)
	auth.GET("/me", p.Auth.Me)

	aiSettings := client.Group("/ai")
	aiSettings.GET("/settings", p.AI.GetSettings)
	aiSettings.PUT("/settings", p.AI.SaveSettings)

	private := client.Group("", middleware.RequireAuth())
	writable := middleware.RequireWritable()

	p.Projects.Register(private.Group("/projects"), writable)
	p.Scripts.Register(private.Group("/scripts"), writable)
	p.Resources.Register(private.Group("/resources"), writable)

	tasks := private.Group("/tasks")
	p.Tasks.Register(tasks, writable)
	tasks.PATCH("/:id/move", writable, p.Tasks.Move)

	events := private.Group("/events")
	events.GET("/range", p.Events.Range)
	p.Events.Register(events, writable)

	posts := private.Group("/posts")
	p.Posts.Register(posts, writable)
	posts.POST("/:id/publish", writable, p.Posts.Publish)

	prompts := private.Group("/prompts")
	prompts.GET("/similar", p.Prompts.Similar)
	p.Prompts.Register(prompts, writable)
	prompts.POST("/:id/favorite", writable, p.Prompts.ToggleFavorite)

	private.GET("/dashboard", p.Dashboard.Get)

	thumbnails := private.Group("/thumbnails")
	thumbnails.POST("/render", writable, p.Thumbnails.Render)
	thumbnails.GET("/:id/image", p.Thumbnails.Image)
	p.Thumbnails.Register(thumbnails, writable)

	ai := private.Group("/ai", middleware.RequireActiveSubscription())
	ai.POST("/script", p.AI.GenerateScript)
	ai.POST("/improve-prompt", p.AI.ImprovePrompt)
	ai.POST("/blog-ideas", p.AI.BlogIdeas)

	billing := private.Group("/billing")
	billing.GET("/subscription", p.Billing.Subscription)
	billing.POST("/checkout", writable, p.Billing.CreateCheckout)
	billing.POST("/cancel", writable, p.Billing.Cancel)
}
