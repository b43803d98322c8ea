package auth

import "github.com/gin-gonic/gin"

// Middleware lifts the identity headers onto the request context for every
// route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := WithRequestContext(c.Request.Context(), c.Request.Header)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
