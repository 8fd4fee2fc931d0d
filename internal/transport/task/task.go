package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domaintask "github.com/alanyang/mission-control/internal/domain/task"
	effectsvc "github.com/alanyang/mission-control/internal/service/effect"
	tasksvc "github.com/alanyang/mission-control/internal/service/task"
	"github.com/alanyang/mission-control/internal/transport/render"
)

func Register(rg *gin.RouterGroup, svc *tasksvc.Service, effects *effectsvc.Dispatcher) {
	rg.GET("", listTasks(svc))
	rg.POST("", createTask(svc, effects))
	rg.GET("/:id", getTask(svc))
	rg.PATCH("/:id", updateTask(svc, effects))
	rg.POST("/:id/claim", claimTask(svc, effects))
}

func listTasks(svc *tasksvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filters domaintask.ListFilters
		if v := c.Query("status"); v != "" {
			s := domaintask.Status(v)
			filters.Status = &s
		}
		if v := c.Query("assignee"); v != "" {
			filters.Assignee = &v
		}

		tasks, err := svc.List(c.Request.Context(), filters)
		if err != nil {
			render.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, tasks)
	}
}

func getTask(svc *tasksvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			render.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

type createTaskReq struct {
	Title            string              `json:"title" binding:"required"`
	Description      string              `json:"description"`
	Status           domaintask.Status   `json:"status"`
	Priority         domaintask.Priority `json:"priority"`
	Labels           []string            `json:"labels"`
	CreatedByAgentID string              `json:"created_by_agent_id" binding:"required"`
}

func createTask(svc *tasksvc.Service, effects *effectsvc.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createTaskReq
		if !render.BindJSON(c, &req) {
			return
		}

		res, err := svc.Create(c.Request.Context(), tasksvc.CreateInput{
			Title:            req.Title,
			Description:      req.Description,
			Status:           req.Status,
			Priority:         req.Priority,
			Labels:           req.Labels,
			CreatedByAgentID: req.CreatedByAgentID,
		})
		if err != nil {
			render.Error(c, err)
			return
		}
		effects.Flush(c.Request.Context(), res.Pending)
		c.JSON(http.StatusCreated, res.Value)
	}
}

// A null field is treated like an absent one. labels: [] clears the labels.
type updateTaskReq struct {
	Status      *domaintask.Status   `json:"status"`
	Description *string              `json:"description"`
	Priority    *domaintask.Priority `json:"priority"`
	Labels      []string             `json:"labels"`
}

func updateTask(svc *tasksvc.Service, effects *effectsvc.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateTaskReq
		if !render.BindJSON(c, &req) {
			return
		}

		res, err := svc.Update(c.Request.Context(), c.Param("id"), domaintask.Update{
			Status:      req.Status,
			Description: req.Description,
			Priority:    req.Priority,
			Labels:      req.Labels,
		})
		if err != nil {
			render.Error(c, err)
			return
		}
		if !res.Value {
			render.Message(c, http.StatusOK, "No changes")
			return
		}
		effects.Flush(c.Request.Context(), res.Pending)
		render.Message(c, http.StatusOK, "Task updated")
	}
}

type claimTaskReq struct {
	AgentID string `json:"agent_id" binding:"required"`
}

func claimTask(svc *tasksvc.Service, effects *effectsvc.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req claimTaskReq
		if !render.BindJSON(c, &req) {
			return
		}

		res, err := svc.Claim(c.Request.Context(), c.Param("id"), req.AgentID)
		if err != nil {
			render.Error(c, err)
			return
		}
		effects.Flush(c.Request.Context(), res.Pending)
		render.Message(c, http.StatusOK, "Task claimed")
	}
}
