package middleware

import "github.com/gin-gonic/gin"

// NoCache disables client-side caching so the board always reflects
// the latest state after a redirect.
func NoCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Writer.Header()
		header.Set("Cache-Control", "no-cache, no-store, must-revalidate, private")
		header.Set("Pragma", "no-cache")
		header.Set("Expires", "0")
		header.Set("Last-Modified", "Thu, 01 Jan 1970 00:00:00 GMT")
		header.Set("Vary", "Accept-Encoding")
		c.Next()
	}
}
