package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/rizqidamar/timely/internal/interface/http"
)

// AuthModule registers the email-verification confirmation endpoint.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/verify/confirm", m.Handler.VerifyConfirm)
}
