package message

import (
	"net/http"

	"github.com/gin-gonic/gin"

	effectsvc "github.com/alanyang/mission-control/internal/service/effect"
	messagesvc "github.com/alanyang/mission-control/internal/service/message"
	"github.com/alanyang/mission-control/internal/transport/render"
)

// Register mounts the thread endpoints on a group whose path ends in
// /tasks/:id/messages.
func Register(rg *gin.RouterGroup, svc *messagesvc.Service, effects *effectsvc.Dispatcher) {
	rg.GET("", listMessages(svc))
	rg.POST("", postMessage(svc, effects))
}

func listMessages(svc *messagesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		msgs, err := svc.List(c.Request.Context(), c.Param("id"))
		if err != nil {
			render.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, msgs)
	}
}

type postMessageReq struct {
	FromAgentID string `json:"from_agent_id" binding:"required"`
	Content     string `json:"content" binding:"required"`
}

func postMessage(svc *messagesvc.Service, effects *effectsvc.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req postMessageReq
		if !render.BindJSON(c, &req) {
			return
		}

		res, err := svc.Post(c.Request.Context(), c.Param("id"), req.FromAgentID, req.Content)
		if err != nil {
			render.Error(c, err)
			return
		}
		effects.Flush(c.Request.Context(), res.Pending)
		c.JSON(http.StatusCreated, res.Value)
	}
}
