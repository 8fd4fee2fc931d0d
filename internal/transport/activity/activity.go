package activity

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainactivity "github.com/alanyang/mission-control/internal/domain/activity"
	activitysvc "github.com/alanyang/mission-control/internal/service/activity"
	"github.com/alanyang/mission-control/internal/transport/render"
)

func Register(rg *gin.RouterGroup, svc *activitysvc.Service) {
	rg.GET("", listActivities(svc))
	rg.POST("", recordActivity(svc))
}

// listActivities ignores a limit that is not a positive integer and falls
// back to the default page size.
func listActivities(svc *activitysvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))

		feed, err := svc.Feed(c.Request.Context(), limit)
		if err != nil {
			render.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, feed)
	}
}

type recordActivityReq struct {
	Type    string `json:"type" binding:"required"`
	AgentID string `json:"agent_id"`
	TaskID  string `json:"task_id"`
	Message string `json:"message" binding:"required"`
}

func recordActivity(svc *activitysvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req recordActivityReq
		if !render.BindJSON(c, &req) {
			return
		}

		a, err := svc.Record(c.Request.Context(), domainactivity.Type(req.Type), req.AgentID, req.TaskID, req.Message)
		if err != nil {
			render.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, a)
	}
}
