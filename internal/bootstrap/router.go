package bootstrap

import (
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/veriflow-mrv/veriflow-backend/internal/activity"
	httpapi "github.com/veriflow-mrv/veriflow-backend/internal/api/http"
	"github.com/veriflow-mrv/veriflow-backend/internal/api/http/middleware"
	"github.com/veriflow-mrv/veriflow-backend/internal/auth"
	authhttp "github.com/veriflow-mrv/veriflow-backend/internal/auth/http"
	authmw "github.com/veriflow-mrv/veriflow-backend/internal/auth/middleware"
	authrepo "github.com/veriflow-mrv/veriflow-backend/internal/auth/repository"
	authservice "github.com/veriflow-mrv/veriflow-backend/internal/auth/service"
	projhttp "github.com/veriflow-mrv/veriflow-backend/internal/projects/http"
	projrepo "github.com/veriflow-mrv/veriflow-backend/internal/projects/repository"
	projservice "github.com/veriflow-mrv/veriflow-backend/internal/projects/service"
	"github.com/veriflow-mrv/veriflow-backend/internal/uploads"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins string
	DB             *pgxpool.Pool
	Redis          *redis.Client
	Tokens         *auth.TokenIssuer
	// FirebaseAuth switches the gate to Firebase ID-token verification
	// when non-nil.
	FirebaseAuth *fbauth.Client
	Presigner    *uploads.Presigner
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware(dep.AllowedOrigins))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestID())

	userRepo := authrepo.New(dep.DB)

	var gate gin.HandlerFunc
	if dep.FirebaseAuth != nil {
		gate = authmw.FirebaseAuth(dep.FirebaseAuth, userRepo)
	} else {
		gate = authmw.RequireAuth(dep.Tokens)
	}

	authhttp.New(authservice.New(userRepo, dep.Tokens)).Register(api.Group("/auth"), gate)

	feed := activity.NewFeedRepo(dep.Redis)
	projectSvc := projservice.New(projrepo.New(dep.DB), activity.NewRecorder(feed))
	projhttp.New(projectSvc).Register(api.Group("/projects"), gate)

	activity.Register(api.Group("/activity"), feed, gate)

	if dep.Presigner != nil {
		uploads.Register(api.Group("/uploads"), dep.Presigner, gate)
	}

	return r
}

func corsMiddleware(allowedOrigins string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "X-Request-Id")
	if allowedOrigins == "" || allowedOrigins == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = strings.Split(allowedOrigins, ",")
	}
	return cors.New(cfg)
}
