package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/rizqidamar/timely/internal/application"
	handlers "github.com/rizqidamar/timely/internal/interface/http"
	"github.com/rizqidamar/timely/internal/interface/middleware"
)

// UserModule wires user HTTP handlers and the bearer-auth middleware.
// Public: POST /users, POST /login, POST /refresh
// Protected: GET /profile, GET /users/search
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    application.AuthSecurity
}

func NewUserModule(h *handlers.UserHandler, auth application.AuthSecurity) *UserModule {
	return &UserModule{Handler: h, Auth: auth}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.POST("/users", m.Handler.Register)
	rg.POST("/login", m.Handler.Login)
	rg.POST("/refresh", m.Handler.Refresh)

	authed := rg.Group("/")
	authed.Use(middleware.Auth(m.Auth))
	{
		authed.GET("/profile", m.Handler.GetProfile)
		authed.GET("/users/search", m.Handler.Search)
	}
}
