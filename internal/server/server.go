package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shinyyama/placereview/internal/auth"
	"github.com/shinyyama/placereview/internal/config"
	"github.com/shinyyama/placereview/internal/handler"
	appmw "github.com/shinyyama/placereview/internal/middleware"
	"github.com/shinyyama/placereview/internal/repository"
	"github.com/shinyyama/placereview/internal/service"
	"github.com/shinyyama/placereview/internal/storage"
	"gorm.io/gorm"
)

type Server struct {
	e *echo.Echo
}

func New(db *gorm.DB, cfg *config.Config, store storage.ImageStore) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(appmw.RequestContext)
	e.Use(middleware.Logger())
	e.Use(middleware.BodyLimit("6M"))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc:  allowOrigin(cfg.CORSAllowedOrigins),
	}))

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	itemRepo := repository.NewItemRepository(db)
	imageRepo := repository.NewItemImageRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	tokens := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	userSvc := service.NewUserService(userRepo, reviewRepo, commentRepo)
	authMw := appmw.NewAuthMiddleware(tokens, userSvc)

	authHandler := handler.NewAuthHandler(service.NewAuthService(userRepo, tokens, cfg.BcryptCost))
	itemHandler := handler.NewItemHandler(service.NewItemService(itemRepo, imageRepo, reviewRepo, categoryRepo, userRepo))
	imageHandler := handler.NewImageHandler(service.NewImageService(itemRepo, imageRepo, userRepo, store))
	reviewHandler := handler.NewReviewHandler(service.NewReviewService(reviewRepo, itemRepo, userRepo))
	commentHandler := handler.NewCommentHandler(service.NewCommentService(commentRepo, reviewRepo, userRepo))
	categoryHandler := handler.NewCategoryHandler(service.NewCategoryService(categoryRepo))
	userHandler := handler.NewUserHandler(userSvc)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    cfg.GitSHA,
			"build_time": cfg.BuildTime,
		})
	})
	if local, ok := store.(*storage.LocalStore); ok {
		e.Static(storage.URLPrefix, local.Dir())
	}

	api := e.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	api.GET("/items", itemHandler.List)
	api.GET("/items/:id", itemHandler.Get, authMw.OptionalAuth)
	api.POST("/items", itemHandler.Create, authMw.RequireAuth)
	api.PUT("/items/:id", itemHandler.Update, authMw.RequireAuth)
	api.DELETE("/items/:id", itemHandler.Delete, authMw.RequireAuth)

	api.POST("/items/:id/images", imageHandler.Upload, authMw.RequireAuth)
	api.PUT("/items/:id/images/:imageId/primary", imageHandler.SetPrimary, authMw.RequireAuth)
	api.DELETE("/items/:id/images/:imageId", imageHandler.Delete, authMw.RequireAuth)

	api.GET("/items/:id/reviews", reviewHandler.ListByItem, authMw.OptionalAuth)
	api.POST("/items/:id/reviews", reviewHandler.Submit, authMw.RequireAuth)
	api.DELETE("/reviews/:id", reviewHandler.Delete, authMw.RequireAuth)

	api.GET("/reviews/:id/comments", commentHandler.ListByReview)
	api.POST("/reviews/:id/comments", commentHandler.Create, authMw.RequireAuth)
	api.PUT("/comments/:id", commentHandler.Update, authMw.RequireAuth)
	api.DELETE("/comments/:id", commentHandler.Delete, authMw.RequireAuth)

	api.GET("/categories", categoryHandler.List)

	api.GET("/users/profile", userHandler.Profile, authMw.RequireAuth)
	api.GET("/users/reviews", userHandler.Reviews, authMw.RequireAuth)
	api.GET("/users/comments", userHandler.Comments, authMw.RequireAuth)

	admin := api.Group("/admin", authMw.RequireAuth, authMw.RequireAdmin)
	admin.GET("/items/pending", itemHandler.ListPending)
	admin.PUT("/items/:id/approval", itemHandler.SetApproval)

	return &Server{e: e}
}

func allowOrigin(extra []string) func(string) (bool, error) {
	allowed := make(map[string]struct{}, len(extra))
	for _, o := range extra {
		if o = strings.TrimRight(strings.ToLower(strings.TrimSpace(o)), "/"); o != "" {
			allowed[o] = struct{}{}
		}
	}
	return func(origin string) (bool, error) {
		low := strings.ToLower(origin)
		if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
			strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
			return true, nil
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false, nil
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return false, nil
		}
		_, ok := allowed[low]
		return ok, nil
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
