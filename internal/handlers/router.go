package handlers

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/gazer/client-registry/internal/constants"
	"github.com/gazer/client-registry/internal/middleware"
	"github.com/gazer/client-registry/internal/repository"
	"github.com/gazer/client-registry/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// RouterDeps are the collaborators of the HTTP surface.
type RouterDeps struct {
	DB             *gorm.DB
	Roles          repository.RoleRepository
	Users          *services.UserService
	Clients        *services.ClientService
	Gatekeeper     *middleware.Gatekeeper
	SessionStore   sessions.Store
	MaxUploadBytes int64
}

// NewRouter wires middleware and routes onto a new gin engine.
func NewRouter(deps RouterDeps) *gin.Engine {
	RegisterValidators()

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		sessions.Sessions(constants.SessionCookieName, deps.SessionStore),
		deps.Gatekeeper.Authorize(),
	)

	authHandler := NewAuthHandler(deps.Users, deps.Roles)
	clientHandler := NewClientHandler(deps.Clients, deps.MaxUploadBytes)
	accountHandler := NewAccountHandler(deps.Users, deps.Clients)
	healthHandler := NewHealthHandler(deps.DB)

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Anonymous pages
	r.GET(constants.PathHome, authHandler.Home)
	r.GET("/home", authHandler.Home)
	r.GET(constants.PathLogin, authHandler.LoginPage)
	r.POST(constants.PathLogin, deps.Gatekeeper.Login)
	r.GET(constants.PathLogout, deps.Gatekeeper.Logout)
	r.POST(constants.PathLogout, deps.Gatekeeper.Logout)
	r.GET("/register", authHandler.RegisterPage)
	r.POST("/register", authHandler.Register)

	// Client records
	r.GET("/addclient", clientHandler.AddClientPage)
	r.POST("/addclient", clientHandler.AddClient)
	r.GET(constants.PathClients, clientHandler.ListClients)
	r.POST("/findbyname", clientHandler.FindByName)
	r.POST("/findbypass", clientHandler.FindByPassport)
	r.GET("/download", clientHandler.Download)
	r.GET("/delete", clientHandler.Delete)

	// Account
	r.GET("/account", accountHandler.Account)
	r.POST("/update", accountHandler.Update)
	r.GET("/deleteuser", accountHandler.DeleteUser)

	return r
}
