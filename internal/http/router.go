package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/orgdesk/orgdesk/internal/auth"
	"github.com/orgdesk/orgdesk/internal/config"
	"github.com/orgdesk/orgdesk/internal/http/handlers"
	"github.com/orgdesk/orgdesk/internal/permissions"
)

// RouterOptions carries the shared dependencies the route tree needs.
type RouterOptions struct {
	DB    *gorm.DB
	JWT   config.JWTConfig
	Redis *redis.Client // optional, enables login rate limiting
	Cfg   config.RedisConfig
}

// NewRouter assembles the gin engine with every API route registered.
func NewRouter(opts RouterOptions) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	RegisterRoutes(engine, opts)
	return engine
}

// RegisterRoutes registers the admin API routes on the engine.
func RegisterRoutes(r *gin.Engine, opts RouterOptions) {
	if r == nil || opts.DB == nil {
		return
	}

	authn := auth.NewAuthenticator(opts.DB, opts.JWT)
	verifier := auth.NewVerifier(opts.DB, opts.JWT)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	authHandler := handlers.NewAuthHandler(verifier, opts.JWT)
	api.POST("/login", loginRateLimiter(opts.Redis, opts.Cfg.LoginPerMinute), authHandler.Login)

	authed := api.Group("")
	authed.Use(authenticate(authn))
	authed.POST("/logout", authHandler.Logout)
	authed.GET("/profile", authHandler.Profile)

	lenient := api.Group("")
	lenient.Use(authenticateLenient(authn))

	newsHandler := handlers.NewNewsHandler(opts.DB)
	registerResource(authed, lenient, "/news", permissions.ModuleNews, resourceRoutes{
		list:   newsHandler.List,
		get:    newsHandler.Get,
		create: newsHandler.Create,
		update: newsHandler.Update,
		remove: newsHandler.Delete,
	})

	eventHandler := handlers.NewEventHandler(opts.DB)
	registerResource(authed, lenient, "/events", permissions.ModuleEvents, resourceRoutes{
		list:   eventHandler.List,
		get:    eventHandler.Get,
		create: eventHandler.Create,
		update: eventHandler.Update,
		remove: eventHandler.Delete,
	})

	videoHandler := handlers.NewVideoHandler(opts.DB)
	registerResource(authed, lenient, "/videos", permissions.ModuleVideos, resourceRoutes{
		list:   videoHandler.List,
		get:    videoHandler.Get,
		create: videoHandler.Create,
		update: videoHandler.Update,
		remove: videoHandler.Delete,
	})

	leaderHandler := handlers.NewLeaderHandler(opts.DB)
	registerResource(authed, lenient, "/leaders", permissions.ModuleLeaders, resourceRoutes{
		list:   leaderHandler.List,
		get:    leaderHandler.Get,
		create: leaderHandler.Create,
		update: leaderHandler.Update,
		remove: leaderHandler.Delete,
	})

	donationHandler := handlers.NewDonationHandler(opts.DB)
	registerResource(authed, lenient, "/donations", permissions.ModuleDonations, resourceRoutes{
		list:   donationHandler.List,
		get:    donationHandler.Get,
		create: donationHandler.Create,
		update: donationHandler.Update,
		remove: donationHandler.Delete,
	})

	queryHandler := handlers.NewQueryHandler(opts.DB)
	registerResource(authed, lenient, "/queries", permissions.ModuleQueries, resourceRoutes{
		list:   queryHandler.List,
		get:    queryHandler.Get,
		create: queryHandler.Create,
		update: queryHandler.Update,
		remove: queryHandler.Delete,
	})
	authed.PATCH("/queries/:id/resolve",
		requirePermission(permissions.ModuleQueries, permissions.ActionEditor), queryHandler.Resolve)

	joinHandler := handlers.NewJoinRequestHandler(opts.DB)
	registerResource(authed, lenient, "/join-requests", permissions.ModuleJoinRequests, resourceRoutes{
		list:   joinHandler.List,
		get:    joinHandler.Get,
		create: joinHandler.Create,
		update: nil,
		remove: joinHandler.Delete,
	})
	authed.PATCH("/join-requests/:id/approve",
		requirePermission(permissions.ModuleJoinRequests, permissions.ActionEditor), joinHandler.Approve)
	authed.PATCH("/join-requests/:id/reject",
		requirePermission(permissions.ModuleJoinRequests, permissions.ActionEditor), joinHandler.Reject)

	userHandler := handlers.NewUserHandler(opts.DB)
	users := authed.Group("/users")
	users.Use(requireAdminRole())
	users.GET("", requirePermission(permissions.ModuleUsers, permissions.ActionViewer), userHandler.List)
	users.GET("/:id", requirePermission(permissions.ModuleUsers, permissions.ActionViewer), userHandler.Get)
	users.POST("", requirePermission(permissions.ModuleUsers, permissions.ActionCreator), userHandler.Create)
	users.PATCH("/:id", requirePermission(permissions.ModuleUsers, permissions.ActionEditor), userHandler.Update)
	users.PATCH("/:id/password", userHandler.ChangePassword)
	users.PATCH("/:id/permissions", userHandler.UpdatePermissions)
	users.DELETE("/:id", requirePermission(permissions.ModuleUsers, permissions.ActionRemover), userHandler.Delete)
}

// resourceRoutes names the standard handlers of a content resource.
type resourceRoutes struct {
	list   gin.HandlerFunc
	get    gin.HandlerFunc
	create gin.HandlerFunc
	update gin.HandlerFunc
	remove gin.HandlerFunc
}

// registerResource wires the standard CRUD layout for a module: the
// list is a lenient read behind the viewer gate, everything else is
// strict and matrix-checked. Only lists degrade to an empty page for
// anonymous callers; fetch-one requires a valid token.
func registerResource(authed, lenient *gin.RouterGroup, prefix, module string, routes resourceRoutes) {
	if routes.list != nil {
		lenient.GET(prefix, viewerGate(module), routes.list)
	}
	if routes.get != nil {
		authed.GET(prefix+"/:id", requirePermission(module, permissions.ActionViewer), routes.get)
	}
	if routes.create != nil {
		authed.POST(prefix, requirePermission(module, permissions.ActionCreator), routes.create)
	}
	if routes.update != nil {
		authed.PATCH(prefix+"/:id", requirePermission(module, permissions.ActionEditor), routes.update)
	}
	if routes.remove != nil {
		authed.DELETE(prefix+"/:id", requirePermission(module, permissions.ActionRemover), routes.remove)
	}
}
