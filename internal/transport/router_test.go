package transport_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alanyang/mission-control/internal/mocks"
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
)

func init() { gin.SetMode(gin.TestMode) }

func newServices(t *testing.T, mcp http.Handler) transport.Services {
	t.Helper()
	ctrl := gomock.NewController(t)
	tasks := mocks.NewMockTaskRepository(ctrl)
	agents := mocks.NewMockAgentRepository(ctrl)
	activities := mocks.NewMockActivityRepository(ctrl)
	notifications := mocks.NewMockNotificationRepository(ctrl)
	return transport.Services{
		Tasks:         tasksvc.NewService(tasks, agents),
		Agents:        agentsvc.NewService(agents, tasks),
		Messages:      messagesvc.NewService(mocks.NewMockMessageRepository(ctrl), tasks, agents),
		Activities:    activitysvc.NewService(activities),
		Notifications: notificationsvc.NewService(notifications),
		Documents:     documentsvc.NewService(mocks.NewMockDocumentRepository(ctrl), tasks, agents),
		Auth:          authsvc.NewService(mocks.NewMockUserRepository(ctrl), 0),
		Chat:          chatsvc.NewService(),
		Effects:       effectsvc.NewDispatcher(activities, notifications),
		MCP:           mcp,
	}
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequestWithContext(context.Background(), method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIndex(t *testing.T) {
	r := transport.NewRouter(newServices(t, nil))

	w := serve(r, http.MethodGet, "/")

	require.Equal(t, http.StatusOK, w.Code)
	var doc struct {
		Name      string   `json:"name"`
		Status    string   `json:"status"`
		Endpoints []string `json:"endpoints"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "running", doc.Status)
	assert.Contains(t, doc.Endpoints, "POST /api/tasks/:id/claim")
	assert.NotContains(t, doc.Endpoints, "POST /mcp")
}

func TestCORSPreflight(t *testing.T) {
	r := transport.NewRouter(newServices(t, nil))

	w := serve(r, http.MethodOptions, "/api/tasks")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestMCPMount(t *testing.T) {
	t.Run("mounted when a handler is given", func(t *testing.T) {
		mcp := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })
		r := transport.NewRouter(newServices(t, mcp))

		assert.Equal(t, http.StatusAccepted, serve(r, http.MethodPost, "/mcp").Code)
		assert.Contains(t, serve(r, http.MethodGet, "/").Body.String(), "POST /mcp")
	})

	t.Run("absent otherwise", func(t *testing.T) {
		r := transport.NewRouter(newServices(t, nil))

		assert.Equal(t, http.StatusNotFound, serve(r, http.MethodPost, "/mcp").Code)
	})
}
