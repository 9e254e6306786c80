package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/ram"
	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/user"
	"github.com/ovaphlow/pitchfork/service-pcinfo-go/pkg/utilities"
)

const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestID returns the id assigned by RequestIDMiddleware, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// RequestIDMiddleware keeps a caller supplied X-Request-ID or assigns a KSUID,
// echoes it on the response and stores it in the request context.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" || len(id) > 64 {
				id = utilities.NewKSUID()
			}
			w.Header().Set(requestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		})
	}
}

// LoggingMiddleware returns a middleware that logs requests at debug level using the provided sugared logger.
// Headers are not logged, so bearer tokens never reach the log.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			// ensure status is set
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"request_id", RequestID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware returns a middleware that sets common HTTP security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
			// allow none for camera, microphone, geolocation
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			// the API never serves HTML
			w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none';")
			w.Header().Set("Cache-Control", "no-store")

			if r.TLS != nil {
				// 30 days
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware allows the configured origins to call the API with a bearer token.
func CORSMiddleware(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	})
}

// Route is one entry of the route table. Visibility defaults to auth.Protected.
type Route struct {
	Method     string
	Pattern    string
	Handler    http.HandlerFunc
	Visibility auth.Visibility
}

// Deps carries everything the route table and middleware chain need.
type Deps struct {
	Logger         *zap.SugaredLogger
	Tokens         auth.TokenValidator
	Identities     auth.IdentityLookup
	Users          *user.Handler
	Rams           *ram.Handler
	AllowedOrigins []string
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Routes lists every endpoint with its visibility.
func Routes(d Deps) []Route {
	return []Route{
		{Method: http.MethodGet, Pattern: "/api/health", Handler: health, Visibility: auth.Public},

		{Method: http.MethodPost, Pattern: "/api/security/users/sign-in", Handler: d.Users.SignIn, Visibility: auth.Public},
		{Method: http.MethodPost, Pattern: "/api/security/users/sign-up", Handler: d.Users.SignUp, Visibility: auth.Public},
		{Method: http.MethodGet, Pattern: "/api/security/users", Handler: d.Users.List},
		{Method: http.MethodGet, Pattern: "/api/security/users/{id}", Handler: d.Users.Get},
		{Method: http.MethodPut, Pattern: "/api/security/users/{id}", Handler: d.Users.Update},
		{Method: http.MethodDelete, Pattern: "/api/security/users/{id}", Handler: d.Users.Delete},

		{Method: http.MethodGet, Pattern: "/api/v1/rams", Handler: d.Rams.List},
		{Method: http.MethodGet, Pattern: "/api/v1/rams/{id}", Handler: d.Rams.Get},
		{Method: http.MethodPost, Pattern: "/api/v1/rams", Handler: d.Rams.Create},
		{Method: http.MethodPut, Pattern: "/api/v1/rams/{id}", Handler: d.Rams.Update},
		{Method: http.MethodDelete, Pattern: "/api/v1/rams/{id}", Handler: d.Rams.Delete},
	}
}

// RegisterRoutes mounts the route table on a standard library http.ServeMux,
// guarding each route with auth.Authorize, and wraps the mux with the
// request id, logging, security header, CORS and identity middleware.
func RegisterRoutes(d Deps) http.Handler {
	mux := http.NewServeMux()
	for _, rt := range Routes(d) {
		mux.Handle(rt.Method+" "+rt.Pattern, auth.Authorize(rt.Visibility, d.Logger)(rt.Handler))
	}

	handler := auth.IdentityMiddleware(d.Tokens, d.Identities, d.Logger)(mux)
	handler = CORSMiddleware(d.AllowedOrigins)(handler)
	handler = SecurityHeadersMiddleware()(handler)
	handler = LoggingMiddleware(d.Logger)(handler)
	return RequestIDMiddleware()(handler)
}
