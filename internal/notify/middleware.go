package notify

import "github.com/gin-gonic/gin"

// Middleware gives every request its own Recorder.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, _ := WithRecorder(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// JSON writes body with the request's notifications under "notifications".
func JSON(c *gin.Context, status int, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["notifications"] = Collected(c.Request.Context())
	c.JSON(status, body)
}

// ErrorJSON responds {"error": msg} plus notifications.
func ErrorJSON(c *gin.Context, status int, msg string) {
	JSON(c, status, gin.H{"error": msg})
}
