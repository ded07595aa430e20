package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs every request as a key=value line and recovers from
// panics with a JSON 500 so no upload dies without a structured response.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				log.Printf(
					"request_panic method=%s path=%s client_ip=%s error=%q stack=%s",
					c.Request.Method, c.Request.URL.Path, c.ClientIP(), err.Error(), debug.Stack(),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":   "Internal server error",
					"details": err.Error(),
				})
				return
			}

			log.Printf(
				"request method=%s path=%s status=%d client_ip=%s latency=%s",
				c.Request.Method, c.Request.URL.Path, c.Writer.Status(), c.ClientIP(), time.Since(start),
			)
		}()

		c.Next()
	}
}
