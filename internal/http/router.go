package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skillsphere/internal/service"
)

// NewRouter configura el router de Gin con middlewares y todas las rutas.
func NewRouter(
	logger *zap.Logger,
	jwts *service.JWTService,
	userH *UserHandler,
	behaviorH *BehaviorHandler,
	skillH *SkillHandler,
	opportunityH *OpportunityHandler,
	assessmentH *AssessmentHandler,
	chatH *ChatHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	api := r.Group("/api")
	authRequired := JWTAuthMiddleware(jwts)

	auth := api.Group("/auth")
	auth.POST("/register", userH.Register)
	auth.POST("/login", userH.Login)
	auth.POST("/refresh", userH.Refresh)
	auth.POST("/logout", userH.Logout)

	users := api.Group("/users", authRequired)
	users.GET("/me", userH.Me)
	users.PUT("/me", userH.UpdateProfile)
	users.POST("/me/skill-dna", skillH.UpdateSkillDNA)
	users.GET("/:id", userH.GetUser)
	users.GET("/:id/skill-dna", skillH.GetSkillDNA)
	users.DELETE("/:id", userH.DeleteUser)

	behavior := api.Group("/behavior-vectors", authRequired)
	behavior.POST("", behaviorH.Upsert)
	behavior.GET("", behaviorH.List)
	behavior.GET("/analytics", behaviorH.Analytics)
	behavior.GET("/user/:user_id", behaviorH.Get)
	behavior.DELETE("/user/:user_id", behaviorH.Delete)
	behavior.GET("/user/:user_id/similar", behaviorH.Similar)
	behavior.GET("/compatibility/:user_id_1/:user_id_2", behaviorH.Compatibility)

	skills := api.Group("/skill-vectors", authRequired)
	skills.POST("", skillH.CreateVector)
	skills.GET("", skillH.ListVectors)
	skills.GET("/user/:user_id", skillH.GetVector)
	skills.PATCH("/user/:user_id", skillH.UpdateVector)
	skills.DELETE("/user/:user_id", skillH.DeleteVector)
	skills.GET("/user/:user_id/similar", skillH.SimilarVectors)

	opportunities := api.Group("/opportunities", authRequired)
	opportunities.POST("", opportunityH.Create)
	opportunities.GET("", opportunityH.List)
	opportunities.GET("/user/:user_id/ranked", opportunityH.Ranked)
	opportunities.GET("/:id", opportunityH.Get)
	opportunities.PUT("/:id", opportunityH.Update)
	opportunities.DELETE("/:id", opportunityH.Delete)
	opportunities.PATCH("/:id/compatibility", opportunityH.SetCompatibility)
	opportunities.GET("/:id/compatibility/:user_id", opportunityH.GetCompatibility)
	opportunities.POST("/:id/apply", opportunityH.Apply)
	opportunities.GET("/:id/applications", opportunityH.Applications)
	opportunities.PATCH("/:id/applications/:application_id", opportunityH.UpdateApplicationStatus)

	assessments := api.Group("/assessments", authRequired)
	assessments.POST("", assessmentH.Submit)
	assessments.GET("/questions/:type", assessmentH.Questions)
	assessments.GET("/user/:user_id", assessmentH.History)

	chat := api.Group("/chat", authRequired)
	chat.POST("/send", chatH.Send)
	chat.GET("/rooms/list", chatH.Rooms)
	chat.GET("/:room_id", chatH.History)
	chat.PUT("/:room_id/read", chatH.MarkRead)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
