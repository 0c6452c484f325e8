package response

import "github.com/gin-gonic/gin"

func JSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Fail writes the {"error": ...} body every prediction endpoint uses for
// client errors.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
