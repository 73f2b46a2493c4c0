package httpkit

import (
	"net/http"
	"time"

	"enricher/internal/platform/config"
	"enricher/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	Origins []string
	Slow    time.Duration
	Timeout time.Duration
}

// StackFromConfig reads CORS_ORIGINS, SLOW_MS and REQUEST_TIMEOUT from an api scoped config
func StackFromConfig(cfg config.Conf) StackOptions {
	return StackOptions{
		Origins: cfg.MayCSV("CORS_ORIGINS", []string{"*"}),
		Slow:    time.Duration(cfg.MayInt("SLOW_MS", 500)) * time.Millisecond,
		Timeout: cfg.MayDuration("REQUEST_TIMEOUT", 60*time.Second),
	}
}

// CommonStack returns the baseline middleware of the api router
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	stack := middleware.Defaults(o.Timeout)
	return append(stack,
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.Slow}),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.Origins}),
	)
}
