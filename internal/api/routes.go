package api

import (
	"net/http"

	"alcyxob/workout-tracker/internal/metrics"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	m *metrics.Manager,
	gatherer prometheus.Gatherer,
	authService service.AuthService,
	profileService service.ProfileService,
	routineService service.RoutineService,
	exerciseService service.ExerciseService,
	sessionService service.SessionService,
) {
	authHandler := NewAuthHandler(authService)
	profileHandler := NewProfileHandler(profileService)
	routineHandler := NewRoutineHandler(routineService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	sessionHandler := NewSessionHandler(sessionService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.Use(RequestLogger())
	if m != nil {
		router.Use(MetricsMiddleware(m))
	}

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// template browsing does not need an account
		apiV1.GET("/routines/templates", routineHandler.ListTemplates)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userID.Hex()})
		})

		// --- Profile Routes ---
		profileGroup := protected.Group("/profile")
		{
			profileGroup.GET("", profileHandler.GetProfile)
			profileGroup.PUT("", profileHandler.UpdateProfile)
			profileGroup.GET("/progress", profileHandler.ListProgress)
			profileGroup.POST("/progress", profileHandler.AddProgress)
		}

		// --- Routine Routes ---
		routineGroup := protected.Group("/routines")
		{
			routineGroup.GET("", routineHandler.ListMine)
			routineGroup.POST("", routineHandler.CreateRoutine)
			routineGroup.GET("/:id", routineHandler.GetRoutine)
			routineGroup.PUT("/:id", routineHandler.UpdateRoutine)
			routineGroup.DELETE("/:id", routineHandler.DeleteRoutine)
			routineGroup.POST("/:id/clone", routineHandler.CloneRoutine)
			routineGroup.POST("/:id/days", routineHandler.ResizeRoutine)
		}

		// --- Exercise Catalog Routes ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.GET("/categories", exerciseHandler.ListCategories)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
			exerciseGroup.PUT("/:id", exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", exerciseHandler.DeleteExercise)
			exerciseGroup.GET("/:id/media", exerciseHandler.GetExerciseMedia)
		}

		// --- Session Routes ---
		sessionGroup := protected.Group("/sessions")
		{
			sessionGroup.POST("", sessionHandler.StartSession)
			sessionGroup.GET("", sessionHandler.ListHistory)
			sessionGroup.GET("/:id", sessionHandler.GetSession)
			sessionGroup.PATCH("/:id", sessionHandler.UpdateSessionNotes)

			live := sessionGroup.Group("/live/:handle")
			{
				live.GET("", sessionHandler.GetLiveSession)
				live.DELETE("", sessionHandler.AbandonSession)
				live.POST("/timer", sessionHandler.Timer)
				live.PUT("/exercises/:ex/sets/:set/completion", sessionHandler.SetCompletion)
				live.PUT("/exercises/:ex/sets/:set/value", sessionHandler.SetValue)
				live.POST("/save", sessionHandler.SaveSession)
			}
		}
	}
}
