package document

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domaindocument "github.com/alanyang/mission-control/internal/domain/document"
	documentsvc "github.com/alanyang/mission-control/internal/service/document"
	effectsvc "github.com/alanyang/mission-control/internal/service/effect"
	"github.com/alanyang/mission-control/internal/transport/render"
)

func Register(rg *gin.RouterGroup, svc *documentsvc.Service, effects *effectsvc.Dispatcher) {
	rg.GET("", listDocuments(svc))
	rg.POST("", createDocument(svc, effects))
}

func listDocuments(svc *documentsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filters domaindocument.ListFilters
		if v := c.Query("task_id"); v != "" {
			filters.TaskID = &v
		}

		docs, err := svc.List(c.Request.Context(), filters)
		if err != nil {
			render.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, docs)
	}
}

type createDocumentReq struct {
	Title            string `json:"title" binding:"required"`
	Content          string `json:"content" binding:"required"`
	Type             string `json:"type"`
	TaskID           string `json:"task_id" binding:"required"`
	CreatedByAgentID string `json:"created_by_agent_id" binding:"required"`
}

func createDocument(svc *documentsvc.Service, effects *effectsvc.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createDocumentReq
		if !render.BindJSON(c, &req) {
			return
		}

		res, err := svc.Create(c.Request.Context(), documentsvc.CreateInput{
			Title:            req.Title,
			Content:          req.Content,
			Type:             req.Type,
			TaskID:           req.TaskID,
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
