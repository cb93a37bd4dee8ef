package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/campus-works/internal/constants"
	"github.com/yukikurage/campus-works/internal/handlers"
	"github.com/yukikurage/campus-works/internal/identity"
	"github.com/yukikurage/campus-works/internal/middleware"
	"github.com/yukikurage/campus-works/internal/payment"
	"github.com/yukikurage/campus-works/internal/repository"
	"github.com/yukikurage/campus-works/internal/services"
	"gorm.io/gorm"
)

// Deps are the collaborators the router is built from
type Deps struct {
	DB             *gorm.DB
	Sessions       sessions.Store
	AllowedOrigins []string
	Verifier       identity.Verifier
	Gateway        payment.Gateway
	Fees           payment.FeeCalculator
	Notifier       services.Notifier
	Events         handlers.EventSubscriber
	AI             *services.AIService
}

// NewRouter wires repositories, services and handlers into a gin engine
func NewRouter(deps Deps) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = deps.AllowedOrigins
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(sessions.Sessions(constants.SessionCookieName, deps.Sessions))

	// Initialize repositories
	userRepo := repository.NewUserRepository(deps.DB)
	taskRepo := repository.NewTaskRepository(deps.DB)
	proposalRepo := repository.NewProposalRepository(deps.DB)
	submissionRepo := repository.NewSubmissionRepository(deps.DB)
	txnRepo := repository.NewTransactionRepository(deps.DB)
	groupRepo := repository.NewGroupRepository(deps.DB)
	commentRepo := repository.NewCommentRepository(deps.DB)
	messageRepo := repository.NewMessageRepository(deps.DB)
	notificationRepo := repository.NewNotificationRepository(deps.DB)

	// Initialize services
	userService := services.NewUserService(userRepo)
	authService := services.NewAuthService(deps.Verifier, userService)
	taskService := services.NewTaskService(taskRepo, userRepo, deps.AI)
	proposalService := services.NewProposalService(taskRepo, proposalRepo, groupRepo, deps.Notifier)
	submissionService := services.NewSubmissionService(taskRepo, proposalRepo, submissionRepo, deps.Notifier)
	paymentService := services.NewPaymentService(services.PaymentRepositories{
		Tasks:        taskRepo,
		Proposals:    proposalRepo,
		Submissions:  submissionRepo,
		Transactions: txnRepo,
		Users:        userRepo,
	}, deps.Gateway, deps.Fees, deps.Notifier)
	groupService := services.NewGroupService(groupRepo, userRepo)
	conversationService := services.NewConversationService(taskRepo, proposalRepo, commentRepo, messageRepo, deps.Notifier)
	notificationService := services.NewNotificationService(notificationRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService)
	proposalHandler := handlers.NewProposalHandler(proposalService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	groupHandler := handlers.NewGroupHandler(groupService)
	conversationHandler := handlers.NewConversationHandler(conversationService, deps.Events)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Campus Works API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/sync", authHandler.Sync)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		users := api.Group("/users")
		users.Use(middleware.RequireAuth())
		{
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", middleware.RequireSelf("id"), userHandler.UpdateProfile)
		}

		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/draft", taskHandler.DraftTask)
			tasks.GET("/:id", middleware.LoadTask(taskService), taskHandler.GetTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)

			tasks.POST("/:id/proposals", proposalHandler.SubmitProposal)
			tasks.GET("/:id/proposals", middleware.LoadTask(taskService), proposalHandler.ListProposals)

			tasks.GET("/:id/comments", middleware.LoadTask(taskService), conversationHandler.ListComments)
			tasks.POST("/:id/comments", conversationHandler.AddComment)
			tasks.GET("/:id/messages", conversationHandler.ListMessages)
			tasks.POST("/:id/messages", conversationHandler.SendMessage)
			tasks.GET("/:id/events", conversationHandler.Events)
		}

		proposals := api.Group("/proposals")
		proposals.Use(middleware.RequireAuth())
		{
			proposals.PUT("/:id/status", proposalHandler.DecideProposal)
		}

		submissions := api.Group("/submissions")
		submissions.Use(middleware.RequireAuth())
		{
			submissions.POST("", submissionHandler.SubmitWork)
			submissions.GET("/task/:id", submissionHandler.GetSubmissionForTask)
			submissions.PUT("/:id/status", submissionHandler.UpdateSubmissionStatus)
		}

		payments := api.Group("/payments")
		payments.Use(middleware.RequireAuth())
		{
			payments.POST("/create-order", paymentHandler.CreateOrder)
			payments.POST("/verify-payment", paymentHandler.VerifyPayment)
			payments.POST("/:id/cancel", paymentHandler.CancelPayment)
			payments.GET("/task/:id", paymentHandler.ListTransactions)
		}

		groups := api.Group("/groups")
		groups.Use(middleware.RequireAuth())
		{
			groups.POST("", groupHandler.CreateGroup)
			groups.GET("/user/:userId", groupHandler.ListGroupsForUser)
		}

		notifications := api.Group("/notifications")
		notifications.Use(middleware.RequireAuth())
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
		}
	}

	return r
}
