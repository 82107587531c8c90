package router

import (
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/staffdeck/directory-api/internal/auth"
	authrepo "github.com/staffdeck/directory-api/internal/auth/repo"
	"github.com/staffdeck/directory-api/internal/employee"
	emprepo "github.com/staffdeck/directory-api/internal/employee/repo"
	"github.com/staffdeck/directory-api/internal/health"
	"github.com/staffdeck/directory-api/pkg/utilities"
)

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

// RequestIDMiddleware tags each request with a snowflake ID. An incoming
// X-Request-Id from a trusted proxy is kept as-is.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if id == "" {
				id = utilities.NewSnowflakeID()
				r.Header.Set("X-Request-Id", id)
			}
			w.Header().Set("X-Request-Id", id)
			next.ServeHTTP(w, r)
		})
	}
}

// LoggingMiddleware logs requests at debug level using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"request_id", r.Header.Get("X-Request-Id"),
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// RateLimitMiddleware enforces a global request budget of RATE_LIMIT
// requests per minute (default 100). Exceeding it yields 429; a value of 0
// disables limiting.
func RateLimitMiddleware() func(http.Handler) http.Handler {
	limit := 100
	if raw := os.Getenv("RATE_LIMIT"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(limit)), limit)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"too many requests"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeadersMiddleware sets common HTTP security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware allows the origins listed in CORS_ORIGINS (comma-separated;
// defaults to http://localhost:3000).
func CORSMiddleware() func(http.Handler) http.Handler {
	origins := []string{"http://localhost:3000"}
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		origins = origins[:0]
		for _, o := range strings.Split(raw, ",") {
			if v := strings.TrimSpace(o); v != "" {
				origins = append(origins, v)
			}
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (slices.Contains(origins, origin) || slices.Contains(origins, "*")) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RegisterRoutes wires repositories, services and handlers onto the standard
// library's http.ServeMux and wraps the mux with the middleware stack.
func RegisterRoutes(logger *zap.SugaredLogger, db *sqlx.DB) (http.Handler, error) {
	prefix := os.Getenv("API_PREFIX")
	if prefix == "" {
		prefix = "/api/v1"
	}

	mux := http.NewServeMux()

	// employee directory
	empSvc := employee.NewService(emprepo.NewEmployeeRepo(db), logger)
	empHandler := employee.NewHandler(empSvc, logger)
	mux.HandleFunc("GET "+prefix+"/employees", empHandler.List)
	mux.HandleFunc("POST "+prefix+"/employees", empHandler.Create)
	mux.HandleFunc("GET "+prefix+"/employees/departments", empHandler.Departments)
	mux.HandleFunc("GET "+prefix+"/employees/titles", empHandler.Titles)
	mux.HandleFunc("GET "+prefix+"/employees/locations", empHandler.Locations)
	mux.HandleFunc("GET "+prefix+"/employees/stats", empHandler.Stats)
	mux.HandleFunc("GET "+prefix+"/employees/{id}", empHandler.Get)
	mux.HandleFunc("PATCH "+prefix+"/employees/{id}", empHandler.Update)
	mux.HandleFunc("DELETE "+prefix+"/employees/{id}", empHandler.Delete)

	// auth
	authCfg, err := auth.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	authSvc := auth.NewService(authrepo.NewUserRepo(db), logger, authCfg)
	authHandler := auth.NewHandler(authSvc, logger)
	mux.HandleFunc("POST "+prefix+"/auth/register", authHandler.Register)
	mux.HandleFunc("POST "+prefix+"/auth/login", authHandler.Login)
	mux.Handle("GET "+prefix+"/auth/me", auth.RequireAuth(authSvc)(http.HandlerFunc(authHandler.Me)))

	// user management. Create, list and delete are admin-only; reading one
	// account and patching it are open to any authenticated caller.
	bearer := auth.RequireAuth(authSvc)
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return bearer(auth.RequireRole("admin")(h))
	}
	mux.Handle("POST "+prefix+"/users", adminOnly(authHandler.CreateUser))
	mux.Handle("GET "+prefix+"/users", adminOnly(authHandler.ListUsers))
	mux.Handle("GET "+prefix+"/users/{id}", bearer(http.HandlerFunc(authHandler.GetUser)))
	mux.Handle("PATCH "+prefix+"/users/{id}", bearer(http.HandlerFunc(authHandler.UpdateUser)))
	mux.Handle("DELETE "+prefix+"/users/{id}", adminOnly(authHandler.DeleteUser))

	// health probes
	healthHandler := health.NewHandler(db)
	mux.HandleFunc("GET "+prefix+"/health", healthHandler.Check)
	mux.HandleFunc("GET "+prefix+"/health/live", healthHandler.Live)
	mux.HandleFunc("GET "+prefix+"/health/ready", healthHandler.Ready)

	handler := RequestIDMiddleware()(LoggingMiddleware(logger)(RateLimitMiddleware()(SecurityHeadersMiddleware()(CORSMiddleware()(mux)))))
	return handler, nil
}
