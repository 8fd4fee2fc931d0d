package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"

	notificationsvc "github.com/alanyang/mission-control/internal/service/notification"
	"github.com/alanyang/mission-control/internal/transport/render"
)

// Register mounts the notification endpoints. gin needs one wildcard name
// per path segment, so :id is the agent id on the read route and the
// notification id on the write route.
func Register(rg *gin.RouterGroup, svc *notificationsvc.Service) {
	rg.GET("/:id/undelivered", listUndelivered(svc))
	rg.PATCH("/:id/delivered", markDelivered(svc))
}

func listUndelivered(svc *notificationsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		pending, err := svc.Undelivered(c.Request.Context(), c.Param("id"))
		if err != nil {
			render.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, pending)
	}
}

func markDelivered(svc *notificationsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.MarkDelivered(c.Request.Context(), c.Param("id")); err != nil {
			render.Error(c, err)
			return
		}
		render.Message(c, http.StatusOK, "Notification marked as delivered")
	}
}
