package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.uber.org/zap"

	"taskflow/pkg/apierrors"
)

// RateLimitMiddleware limits requests per client IP. rate uses the limiter
// format, e.g. "30-M" for thirty requests a minute.
func RateLimitMiddleware(rate string) (gin.HandlerFunc, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", rate, err)
	}

	instance := limiter.New(memory.NewStore(), parsed)
	return mgin.NewMiddleware(
		instance,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			c.AbortWithStatusJSON(
				http.StatusTooManyRequests,
				apierrors.CreateError(http.StatusTooManyRequests, apierrors.MsgTooManyRequests, GetLang(c)),
			)
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			// The in-memory store does not fail in practice; let the request through.
			zap.L().Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
		}),
	), nil
}
