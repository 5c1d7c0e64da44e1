package logger

import "github.com/gin-gonic/gin"

const ctxKey = "logger"

// Set stores a request scoped logger in the gin context.
func Set(c *gin.Context, l Logger) {
	c.Set(ctxKey, l)
}

// From returns the request scoped logger, or fallback if none was set.
func From(c *gin.Context, fallback Logger) Logger {
	v, ok := c.Get(ctxKey)
	if !ok {
		return fallback
	}
	l, ok := v.(Logger)
	if !ok {
		return fallback
	}
	return l
}
