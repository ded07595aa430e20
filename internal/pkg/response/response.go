package response

import "github.com/gin-gonic/gin"

// Error writes the API's flat error payload.
func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"error": message})
}

// ErrorWithDetails additionally carries the underlying failure text, used for
// persistence errors where the client shows diagnostics.
func ErrorWithDetails(c *gin.Context, statusCode int, message string, details string) {
	c.JSON(statusCode, gin.H{"error": message, "details": details})
}
