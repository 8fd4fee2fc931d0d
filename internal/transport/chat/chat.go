package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"

	chatsvc "github.com/alanyang/mission-control/internal/service/chat"
	"github.com/alanyang/mission-control/internal/transport/render"
)

func Register(rg *gin.RouterGroup, svc *chatsvc.Service) {
	rg.POST("", respond(svc))
}

// Clients also send userId and context; they are ignored whatever their type.
type chatReq struct {
	Message string `json:"message"`
}

func respond(svc *chatsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatReq
		if !render.BindJSON(c, &req) {
			return
		}

		reply, err := svc.Respond(req.Message)
		if err != nil {
			render.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, reply)
	}
}
