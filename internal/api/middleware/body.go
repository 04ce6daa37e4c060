package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxBodySize bounds request bodies. A full metadata record with scripts
// stays far below it.
const MaxBodySize = 1 << 20

// BodyLimit rejects bodies larger than limit bytes with 413.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "request body too large",
			})
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
