package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	activitysvc "github.com/alanyang/mission-control/internal/service/activity"
	agentsvc "github.com/alanyang/mission-control/internal/service/agent"
	authsvc "github.com/alanyang/mission-control/internal/service/auth"
	chatsvc "github.com/alanyang/mission-control/internal/service/chat"
	documentsvc "github.com/alanyang/mission-control/internal/service/document"
	effectsvc "github.com/alanyang/mission-control/internal/service/effect"
	messagesvc "github.com/alanyang/mission-control/internal/service/message"
	notificationsvc "github.com/alanyang/mission-control/internal/service/notification"
	tasksvc "github.com/alanyang/mission-control/internal/service/task"

	activityhandler "github.com/alanyang/mission-control/internal/transport/activity"
	agenthandler "github.com/alanyang/mission-control/internal/transport/agent"
	authhandler "github.com/alanyang/mission-control/internal/transport/auth"
	chathandler "github.com/alanyang/mission-control/internal/transport/chat"
	documenthandler "github.com/alanyang/mission-control/internal/transport/document"
	messagehandler "github.com/alanyang/mission-control/internal/transport/message"
	notificationhandler "github.com/alanyang/mission-control/internal/transport/notification"
	"github.com/alanyang/mission-control/internal/transport/render"
	taskhandler "github.com/alanyang/mission-control/internal/transport/task"
)

// Services is everything the router dispatches to. MCP is optional; when nil
// the /mcp endpoint is not mounted.
type Services struct {
	Tasks         *tasksvc.Service
	Agents        *agentsvc.Service
	Messages      *messagesvc.Service
	Activities    *activitysvc.Service
	Notifications *notificationsvc.Service
	Documents     *documentsvc.Service
	Auth          *authsvc.Service
	Chat          *chatsvc.Service
	Effects       *effectsvc.Dispatcher
	MCP           http.Handler
}

func NewRouter(s Services) *gin.Engine {
	r := gin.New()

	r.Use(render.Recovery())
	r.Use(RequestLogger())
	r.Use(CORSMiddleware())

	r.GET("/", index(s.MCP != nil))

	api := r.Group("/api")

	taskhandler.Register(api.Group("/tasks"), s.Tasks, s.Effects)
	messagehandler.Register(api.Group("/tasks/:id/messages"), s.Messages, s.Effects)
	activityhandler.Register(api.Group("/activities"), s.Activities)
	agenthandler.Register(api.Group("/agents"), s.Agents)
	documenthandler.Register(api.Group("/documents"), s.Documents, s.Effects)
	notificationhandler.Register(api.Group("/notifications"), s.Notifications)
	authhandler.Register(api.Group("/auth"), s.Auth)
	chathandler.Register(api.Group("/chat"), s.Chat)

	if s.MCP != nil {
		r.Any("/mcp", gin.WrapH(s.MCP))
	}

	return r
}

var endpoints = []string{
	"GET /api/tasks",
	"GET /api/tasks/:id",
	"POST /api/tasks",
	"PATCH /api/tasks/:id",
	"POST /api/tasks/:id/claim",
	"GET /api/tasks/:id/messages",
	"POST /api/tasks/:id/messages",
	"GET /api/activities",
	"POST /api/activities",
	"GET /api/agents",
	"GET /api/agents/:id",
	"PATCH /api/agents/:id",
	"GET /api/documents",
	"POST /api/documents",
	"GET /api/notifications/:agentId/undelivered",
	"PATCH /api/notifications/:id/delivered",
	"POST /api/auth/register",
	"POST /api/auth/login",
	"POST /api/chat",
}

func index(mcp bool) gin.HandlerFunc {
	list := endpoints
	if mcp {
		list = append(append([]string{}, endpoints...), "POST /mcp")
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":      "Mission Control API",
			"status":    "running",
			"endpoints": list,
		})
	}
}
