package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
)

// NewRelicAttributes annotates the current New Relic transaction with the
// request and user IDs. It must run after nrgin.Middleware, RequestLogger
// and AuthMiddleware; without a transaction it does nothing.
func NewRelicAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		if txn := nrgin.Transaction(c); txn != nil {
			if id := RequestID(c); id != "" {
				txn.AddAttribute("requestId", id)
			}
			if userID, ok := UserID(c); ok {
				txn.AddAttribute("userId", userID)
			}
		}
		c.Next()
	}
}
