package main

import (
	"log"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"github.com/minhtran-dev/taskdesk/internal/auth"
	"github.com/minhtran-dev/taskdesk/internal/cache"
	"github.com/minhtran-dev/taskdesk/internal/config"
	"github.com/minhtran-dev/taskdesk/internal/constants"
	"github.com/minhtran-dev/taskdesk/internal/database"
	"github.com/minhtran-dev/taskdesk/internal/handlers"
	"github.com/minhtran-dev/taskdesk/internal/middleware"
	"github.com/minhtran-dev/taskdesk/internal/repository"
	"github.com/minhtran-dev/taskdesk/internal/services"
	"github.com/minhtran-dev/taskdesk/internal/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Printf("Failed to add indexes: %v", err)
	}

	// Deadline urgency is evaluated in the office timezone
	loc, err := time.LoadLocation(cfg.DisplayTimeZone)
	if err != nil {
		log.Printf("Unknown timezone %q, falling back to UTC", cfg.DisplayTimeZone)
		loc = time.UTC
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Query cache on the same Redis instance as the sessions
	redisClient := goredis.NewClient(&goredis.Options{
		Addr: redisAddr,
	})
	queryCache := cache.NewRedisCache(redisClient, "taskdesk:", time.Duration(cfg.CacheTTLSeconds)*time.Second)

	// Attachment object store
	objectStore, err := storage.NewLocalStore(cfg.StorageDir, cfg.PublicBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize attachment storage: %v", err)
	}

	// Initialize repositories
	db := database.GetDB()
	taskRepo := repository.NewTaskRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	readRepo := repository.NewReadStatusRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	// Initialize services
	authService := services.NewAuthService(profileRepo)
	userService := services.NewUserService(profileRepo, taskRepo, commentRepo, queryCache)
	projectService := services.NewProjectService(projectRepo, taskRepo, queryCache)
	taskService := services.NewTaskService(taskRepo, projectRepo, profileRepo, commentRepo, readRepo, objectStore, queryCache, loc)
	threadService := services.NewThreadService(taskRepo, commentRepo, profileRepo, objectStore, queryCache)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	commentHandler := handlers.NewCommentHandler(threadService)
	projectHandler := handlers.NewProjectHandler(projectService)
	userHandler := handlers.NewUserHandler(userService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Taskdesk API is running",
		})
	})

	// Attachment downloads
	r.Static("/files", cfg.StorageDir)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
			authRoutes.PATCH("/password",
				middleware.RequireAuth(),
				middleware.RequireActiveAccount(),
				middleware.IdleGuard(),
				middleware.RejectWhenIdle(),
				middleware.RequireCapability(auth.ActionChangePassword),
				authHandler.ChangePassword)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(), middleware.RequireActiveAccount(), middleware.IdleGuard())
		{
			tasks.GET("", middleware.RequireCapability(auth.ActionViewTasks), taskHandler.ListTasks)
			tasks.GET("/:id", middleware.RequireCapability(auth.ActionViewTasks), taskHandler.GetTask)
			tasks.GET("/:id/comments", middleware.RequireCapability(auth.ActionViewTasks), commentHandler.ListComments)

			// The comment handler does its own idle check to echo drafts back
			tasks.POST("/:id/comments", middleware.RequireCapability(auth.ActionComment), commentHandler.CreateComment)

			mutations := tasks.Group("")
			mutations.Use(middleware.RejectWhenIdle())
			{
				mutations.POST("", middleware.RequireCapability(auth.ActionCreateTask), taskHandler.CreateTask)
				mutations.PATCH("/:id", middleware.RequireCapability(auth.ActionEditTask), taskHandler.UpdateTask)
				mutations.DELETE("/:id", middleware.RequireCapability(auth.ActionDeleteTask), taskHandler.DeleteTask)
				mutations.POST("/:id/status", middleware.RequireCapability(auth.ActionUpdateStatus), taskHandler.UpdateStatus)
				mutations.POST("/:id/read", middleware.RequireCapability(auth.ActionMarkRead), taskHandler.MarkRead)
				mutations.POST("/:id/complete", middleware.RequireCapability(auth.ActionCompleteTask), taskHandler.CompleteTask)
			}
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth(), middleware.RequireActiveAccount(), middleware.IdleGuard())
		{
			projects.GET("", middleware.RequireCapability(auth.ActionViewTasks), projectHandler.ListProjects)

			mutations := projects.Group("")
			mutations.Use(middleware.RejectWhenIdle(), middleware.RequireCapability(auth.ActionManageProjects))
			{
				mutations.POST("", projectHandler.CreateProject)
				mutations.POST("/sync", projectHandler.SyncLegacyProject)
				mutations.DELETE("/:id", projectHandler.DeleteProject)
			}
		}

		// User administration routes (protected)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth(), middleware.RequireActiveAccount(), middleware.IdleGuard())
		{
			users.GET("", middleware.RequireCapability(auth.ActionViewUsers), userHandler.ListUsers)

			mutations := users.Group("")
			mutations.Use(middleware.RejectWhenIdle())
			{
				mutations.POST("", middleware.RequireCapability(auth.ActionCreateUser), userHandler.CreateUser)
				mutations.PATCH("/:id/status", middleware.RequireCapability(auth.ActionBanUser), userHandler.SetAccountStatus)
				mutations.PATCH("/:id/password", middleware.RequireCapability(auth.ActionResetPassword), userHandler.ResetPassword)
				mutations.DELETE("/:id", middleware.RequireCapability(auth.ActionDeleteUser), userHandler.DeleteUser)
			}
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
