package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authsvc "github.com/alanyang/mission-control/internal/service/auth"
	"github.com/alanyang/mission-control/internal/transport/render"
)

func Register(rg *gin.RouterGroup, svc *authsvc.Service) {
	rg.POST("/register", register(svc))
	rg.POST("/login", login(svc))
}

// Presence is checked by the service, which owns the error messages.
type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func register(svc *authsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentialsReq
		if !render.BindJSON(c, &req) {
			return
		}

		profile, err := svc.Register(c.Request.Context(), req.Email, req.Password, req.Name)
		if err != nil {
			render.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, profile)
	}
}

func login(svc *authsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentialsReq
		if !render.BindJSON(c, &req) {
			return
		}

		profile, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			render.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}
