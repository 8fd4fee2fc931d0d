package wire

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alanyang/mission-control/internal/config"
	activitysvc "github.com/alanyang/mission-control/internal/service/activity"
	agentsvc "github.com/alanyang/mission-control/internal/service/agent"
	authsvc "github.com/alanyang/mission-control/internal/service/auth"
	chatsvc "github.com/alanyang/mission-control/internal/service/chat"
	documentsvc "github.com/alanyang/mission-control/internal/service/document"
	effectsvc "github.com/alanyang/mission-control/internal/service/effect"
	messagesvc "github.com/alanyang/mission-control/internal/service/message"
	notificationsvc "github.com/alanyang/mission-control/internal/service/notification"
	tasksvc "github.com/alanyang/mission-control/internal/service/task"
	"github.com/alanyang/mission-control/internal/transport"
	mcptransport "github.com/alanyang/mission-control/internal/transport/mcp"
)

// App holds the top-level resources needed to run and gracefully stop the server.
type App struct {
	Store  *Store
	Server *http.Server
}

// Build is the composition root: the only place concrete types are wired to their
// interface dependencies.
func Build(ctx context.Context, cfg config.Config, version string) (*App, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: Router(store, cfg.MCPEnabled, version),
	}

	slog.Info("application wired", "port", cfg.Port, "db_driver", cfg.DBDriver, "mcp", cfg.MCPEnabled)

	return &App{Store: store, Server: server}, nil
}

// Services builds every application service over the store's repositories.
func Services(store *Store) transport.Services {
	return transport.Services{
		Tasks:         tasksvc.NewService(store.Tasks, store.Agents),
		Agents:        agentsvc.NewService(store.Agents, store.Tasks),
		Messages:      messagesvc.NewService(store.Messages, store.Tasks, store.Agents),
		Activities:    activitysvc.NewService(store.Activities),
		Notifications: notificationsvc.NewService(store.Notifications),
		Documents:     documentsvc.NewService(store.Documents, store.Tasks, store.Agents),
		Auth:          authsvc.NewService(store.Users, 0),
		Chat:          chatsvc.NewService(),
		Effects:       effectsvc.NewDispatcher(store.Activities, store.Notifications),
	}
}

// Router wires the HTTP surface, mounting /mcp when withMCP is set. The MCP
// tools share the HTTP services, dispatcher included.
func Router(store *Store, withMCP bool, version string) *gin.Engine {
	svcs := Services(store)
	if withMCP {
		svcs.MCP = mcptransport.New(mcptransport.Services{
			Tasks:         svcs.Tasks,
			Messages:      svcs.Messages,
			Activities:    svcs.Activities,
			Notifications: svcs.Notifications,
			Effects:       svcs.Effects,
		}, version).Handler()
	}
	return transport.NewRouter(svcs)
}
