package middleware

import (
	"log"

	"main/utils"

	"github.com/gin-gonic/gin"
)

func EnhancedRecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("panic recovered: %v (path=%s)", err, c.Request.URL.Path)
				utils.TrackError("panic", "recovered")
				c.AbortWithStatus(500)
			}
		}()
		c.Next()
	}
}
