package route

import (
	"net/http"
	"time"

	"github.com/Aurora-Nasa-1/101216MISoundBoost/api/controller"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/api/middleware"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/api/route/route_dax"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/bootstrap"
	"github.com/Aurora-Nasa-1/101216MISoundBoost/domain/domain_dax"
	"github.com/gin-gonic/gin"
)

func Setup(app bootstrap.Application, timeout time.Duration, engine *gin.Engine) domain_dax.DaxEqualizerUsecase {
	env := app.Env

	publicRouter := engine.Group("/api")
	publicRouter.GET("/health", func(c *gin.Context) {
		controller.SuccessResponse(c, "health", gin.H{"time": time.Now().UTC().Format(time.RFC3339)}, 1)
	})

	protectedRouter := engine.Group("/api")
	protectedRouter.Use(middleware.JwtAuthMiddleware(env.AccessTokenSecret))
	uc := route_dax.NewDaxEqualizerRouter(env, timeout, app.Host, app.Store, protectedRouter)

	engine.NoRoute(func(c *gin.Context) {
		controller.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", "route not found: "+c.Request.URL.Path)
	})
	return uc
}
