package middleware

import (
	"github.com/flexprice/milkbill/internal/types"
	"github.com/gin-gonic/gin"
)

// RequestIDMiddleware keeps the caller's X-Request-ID or assigns a new one,
// stores it on the request context and echoes it back
func RequestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = types.GenerateRequestID()
	}

	c.Request = c.Request.WithContext(types.WithRequestID(c.Request.Context(), requestID))
	c.Header(types.HeaderRequestID, requestID)

	c.Next()
}
