package agent

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainagent "github.com/alanyang/mission-control/internal/domain/agent"
	agentsvc "github.com/alanyang/mission-control/internal/service/agent"
	"github.com/alanyang/mission-control/internal/transport/render"
)

func Register(rg *gin.RouterGroup, svc *agentsvc.Service) {
	rg.GET("", listAgents(svc))
	rg.GET("/:id", getAgent(svc))
	rg.PATCH("/:id", updateAgent(svc))
}

func listAgents(svc *agentsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		agents, err := svc.List(c.Request.Context())
		if err != nil {
			render.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, agents)
	}
}

func getAgent(svc *agentsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			render.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

// current_task_id: null clears the agent's task; an absent field keeps it.
type updateAgentReq struct {
	Status        *domainagent.Status     `json:"status"`
	CurrentTaskID render.Optional[string] `json:"current_task_id"`
}

func updateAgent(svc *agentsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateAgentReq
		if !render.BindJSON(c, &req) {
			return
		}

		changed, err := svc.Update(c.Request.Context(), c.Param("id"), domainagent.Update{
			Status:        req.Status,
			CurrentTaskID: req.CurrentTaskID.Ptr(),
			ClearTask:     req.CurrentTaskID.Null,
		})
		if err != nil {
			render.Error(c, err)
			return
		}
		if !changed {
			render.Message(c, http.StatusOK, "No changes")
			return
		}
		render.Message(c, http.StatusOK, "Agent updated")
	}
}
