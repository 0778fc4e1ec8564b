package app

import (
	"github.com/faqbase/core/internal/middleware"
	"github.com/faqbase/core/internal/modules/auth"
	"github.com/faqbase/core/internal/modules/category"
	"github.com/faqbase/core/internal/modules/note"
	"github.com/faqbase/core/internal/modules/user"
	pkgredis "github.com/faqbase/core/internal/pkg/redis"
	"github.com/faqbase/core/internal/pkg/response"
)

func (a *App) registerRoutes(rc *pkgredis.Client) {
	a.router.NoRoute(response.NotFound)
	a.router.NoMethod(response.MethodNotAllowed)

	api := a.router.Group("/api/v1")
	api.Use(middleware.OptionalAuth(a.db))
	api.Use(middleware.RateLimit(rc.Raw()))
	api.Use(middleware.Idempotence(rc.Raw()))

	authMW := middleware.Auth(a.db)

	auth.NewHandler(auth.NewService(a.db)).RegisterRoutes(api, authMW)
	category.NewHandler(category.NewService(a.db)).RegisterRoutes(api, authMW)
	note.NewHandler(note.NewService(a.db, rc)).RegisterRoutes(api, authMW)
	user.NewHandler(user.NewService(a.db)).RegisterRoutes(api, authMW)
}
