// Package routes wires repositories, services and handlers into the fiber
// app and declares every HTTP route with its middleware chain.
package routes

import (
	"ilimi/internal/handlers"
	"ilimi/internal/middleware"
	"ilimi/internal/models"
	"ilimi/internal/repositories"
	"ilimi/internal/services/academics"
	"ilimi/internal/services/auth"
	"ilimi/internal/services/invite"
	"ilimi/internal/services/notification"
	"ilimi/internal/services/onboarding"
	"ilimi/internal/services/registration"
	"ilimi/internal/services/verification"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App) {
	// Repositories
	userRepo := repositories.NewUserRepository(repositories.DB, repositories.CacheService)
	otpRepo := repositories.NewOTPRepository(repositories.DB, repositories.CacheService)
	schoolRepo := repositories.NewSchoolRepository(repositories.DB)
	planRepo := repositories.NewPlanRepository(repositories.DB)
	branchRepo := repositories.NewBranchRepository(repositories.DB)
	memberRepo := repositories.NewMemberRepository(repositories.DB)
	academicsRepo := repositories.NewAcademicsRepository(repositories.DB)

	// SMS backend is chosen from the environment: Arkesel in production
	// with a key configured, console otherwise.
	notifier := notification.NewServiceFromEnv()

	// Services
	authService := auth.NewService(userRepo)
	registrationService := registration.NewService(userRepo, otpRepo, notifier)
	verificationService := verification.NewService(otpRepo)
	onboardingService := onboarding.NewService(schoolRepo, branchRepo, planRepo, notifier)
	inviteService := invite.NewService(userRepo, memberRepo, branchRepo, notifier)
	academicsService := academics.NewService(academicsRepo, branchRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	registrationHandler := handlers.NewRegistrationHandler(registrationService, verificationService, authService, userRepo)
	onboardingHandler := handlers.NewOnboardingHandler(onboardingService)
	schoolHandler := handlers.NewSchoolHandler(schoolRepo, branchRepo, memberRepo, inviteService)
	academicsHandler := handlers.NewAcademicsHandler(academicsService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	app.Get("/health", handlers.Health)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/auth/register", registrationHandler.Register)
	api.Post("/auth/verify-otp", registrationHandler.VerifyOTP)
	api.Post("/auth/resend-otp", registrationHandler.ResendOTP)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/refresh", authHandler.RefreshToken)

	// Authenticated endpoints
	protected := api.Use(authMiddleware.Handler)
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Post("/auth/change-password", authHandler.ChangePassword)

	// Onboarding: creating the school only requires an account; the later
	// steps run inside the school context it establishes.
	protected.Post("/onboarding/school", onboardingHandler.CreateSchool)

	schoolScoped := protected.Group("", middleware.SchoolContext(memberRepo))
	adminOnly := middleware.RequireAnyRole(memberRepo, models.RoleSchoolAdmin)

	schoolScoped.Get("/onboarding/status", onboardingHandler.Status)
	schoolScoped.Post("/onboarding/branch", adminOnly, onboardingHandler.CreateMainBranch)
	schoolScoped.Post("/onboarding/complete", adminOnly, onboardingHandler.Complete)

	// School profile and branches
	school := schoolScoped.Group("/school")
	school.Get("/", schoolHandler.GetSchool)
	school.Patch("/", adminOnly, schoolHandler.UpdateSchool)
	school.Get("/branches", schoolHandler.ListBranches)
	school.Post("/branches", adminOnly, schoolHandler.CreateBranch)
	school.Get("/branches/:id", schoolHandler.GetBranch)
	school.Patch("/branches/:id", adminOnly, schoolHandler.UpdateBranch)

	// Membership
	school.Get("/members", schoolHandler.ListMembers)
	school.Post("/members/invite", adminOnly, schoolHandler.InviteMember)
	school.Delete("/members/:id", adminOnly, schoolHandler.DeactivateMember)

	// Academic structure
	academicsGroup := schoolScoped.Group("/academics")
	academicsGroup.Get("/years", academicsHandler.ListYears)
	academicsGroup.Post("/years", adminOnly, academicsHandler.CreateYear)
	academicsGroup.Post("/years/:yearID/set-current", adminOnly, academicsHandler.SetCurrentYear)
	academicsGroup.Get("/years/:yearID/terms", academicsHandler.ListTerms)
	academicsGroup.Post("/years/:yearID/terms", adminOnly, academicsHandler.CreateTerm)
	academicsGroup.Post("/years/:yearID/terms/:termID/set-current", adminOnly, academicsHandler.SetCurrentTerm)
	academicsGroup.Get("/years/:yearID/classrooms", academicsHandler.ListClassrooms)
	academicsGroup.Post("/years/:yearID/classrooms", adminOnly, academicsHandler.CreateClassroom)
	academicsGroup.Get("/subjects", academicsHandler.ListSubjects)
	academicsGroup.Post("/subjects", adminOnly, academicsHandler.CreateSubject)
	academicsGroup.Get("/class-levels", academicsHandler.ListClassLevels)
	academicsGroup.Post("/class-levels", adminOnly, academicsHandler.CreateClassLevel)
}
