package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"pickup/gamehub/internal/config"
)

func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	if len(cfg.AllowedMethods) > 0 {
		corsCfg.AllowMethods = cfg.AllowedMethods
	}
	if len(cfg.AllowedHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.AllowedHeaders
	}
	// gin-contrib/cors rejects credentials together with a wildcard origin.
	corsCfg.AllowCredentials = cfg.AllowCredentials && !corsCfg.AllowAllOrigins
	if cfg.MaxAge > 0 {
		corsCfg.MaxAge = cfg.MaxAge
	}
	return cors.New(corsCfg)
}
