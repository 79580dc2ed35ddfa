package middleware

import (
	limits "github.com/gin-contrib/size"
	"github.com/gin-gonic/gin"
)

// BodyLimit caps request bodies at maxBytes; reading past it aborts with 413.
// A non-positive limit disables the cap.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return limits.RequestSizeLimiter(maxBytes)
}
