// package server contains middleware & handlers for the playlist creation web service
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Middleware decorates an [http.Handler] with cross-cutting behavior
// such as request logging.
type Middleware func(http.Handler) http.Handler

// Router registers method-scoped routes behind a middleware chain.
// [API.Register] attaches every endpoint through this interface.
type Router interface {
	http.Handler
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
}

// LoggingMiddleware logs each request's method, path, and duration.
func LoggingMiddleware(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Info("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
		})
	}
}

// NewHTTPServer builds an http.Server for the router on host:port.
func NewHTTPServer(host string, port int, router Router) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
}
