package middlewares

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddlewares allows the configured front-end origins to call the API with credentials.
// An empty origin list allows any origin without credentials.
func CORSMiddlewares(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept", "Accept-Encoding",
			"Authorization", "Cache-Control", "X-Requested-With", RequestIDHeader,
		},
		ExposeHeaders:    []string{"Content-Disposition", RequestIDHeader},
		AllowWebSockets:  true,
		MaxAge:           12 * time.Hour,
		AllowCredentials: len(allowedOrigins) > 0,
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	return cors.New(cfg)
}
