package message_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainactivity "github.com/alanyang/mission-control/internal/domain/activity"
	domainagent "github.com/alanyang/mission-control/internal/domain/agent"
	"github.com/alanyang/mission-control/internal/domain/apperr"
	domainmessage "github.com/alanyang/mission-control/internal/domain/message"
	domainnotification "github.com/alanyang/mission-control/internal/domain/notification"
	domaintask "github.com/alanyang/mission-control/internal/domain/task"
	"github.com/alanyang/mission-control/internal/mocks"
	effectsvc "github.com/alanyang/mission-control/internal/service/effect"
	messagesvc "github.com/alanyang/mission-control/internal/service/message"
	transportmessage "github.com/alanyang/mission-control/internal/transport/message"
)

func init() { gin.SetMode(gin.TestMode) }

type deps struct {
	messages      *mocks.MockMessageRepository
	tasks         *mocks.MockTaskRepository
	agents        *mocks.MockAgentRepository
	activities    *mocks.MockActivityRepository
	notifications *mocks.MockNotificationRepository
}

func newRouter(t *testing.T) (*gin.Engine, deps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := deps{
		messages:      mocks.NewMockMessageRepository(ctrl),
		tasks:         mocks.NewMockTaskRepository(ctrl),
		agents:        mocks.NewMockAgentRepository(ctrl),
		activities:    mocks.NewMockActivityRepository(ctrl),
		notifications: mocks.NewMockNotificationRepository(ctrl),
	}
	r := gin.New()
	transportmessage.Register(
		r.Group("/tasks/:id/messages"),
		messagesvc.NewService(d.messages, d.tasks, d.agents),
		effectsvc.NewDispatcher(d.activities, d.notifications),
	)
	return r, d
}

func post(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodPost, "/tasks/t1/messages", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPostMessage_NotifiesMentionedAgents(t *testing.T) {
	r, d := newRouter(t)
	d.tasks.EXPECT().GetByID(gomock.Any(), "t1").Return(domaintask.Task{ID: "t1"}, nil)
	d.agents.EXPECT().GetByID(gomock.Any(), "jarvis").Return(domainagent.Agent{ID: "jarvis", Name: "Jarvis"}, nil)
	d.messages.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m domainmessage.Message) (domainmessage.Message, error) { return m, nil })
	d.agents.EXPECT().GetByID(gomock.Any(), "friday").Return(domainagent.Agent{ID: "friday", Name: "Friday"}, nil)
	d.agents.EXPECT().GetByID(gomock.Any(), "ghost").Return(domainagent.Agent{}, fmt.Errorf("agent ghost: %w", apperr.ErrNotFound))

	var notified []domainnotification.Notification
	gomock.InOrder(
		d.activities.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, a domainactivity.Activity) (domainactivity.Activity, error) {
				return a, nil
			}),
		d.notifications.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, n domainnotification.Notification) (domainnotification.Notification, error) {
				notified = append(notified, n)
				return n, nil
			}),
	)

	w := post(r, `{"from_agent_id":"jarvis","content":"@friday and @ghost please review"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var got domainmessage.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "t1", got.TaskID)
	assert.Equal(t, "jarvis", got.FromAgentID)

	require.Len(t, notified, 1)
	assert.Equal(t, "friday", notified[0].MentionedAgentID)
	assert.Equal(t, "Jarvis mentioned you: @friday and @ghost please review", notified[0].Content)
	assert.False(t, notified[0].Delivered)
}

func TestPostMessage_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		setup    func(d deps)
		wantCode int
		wantBody string
	}{
		{
			name:     "missing content",
			body:     `{"from_agent_id":"jarvis"}`,
			setup:    func(d deps) {},
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"content is required"}`,
		},
		{
			name: "unknown task",
			body: `{"from_agent_id":"jarvis","content":"hi"}`,
			setup: func(d deps) {
				d.tasks.EXPECT().GetByID(gomock.Any(), "t1").Return(domaintask.Task{}, fmt.Errorf("task t1: %w", apperr.ErrNotFound))
			},
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"Task not found"}`,
		},
		{
			name: "unknown poster",
			body: `{"from_agent_id":"ghost","content":"hi"}`,
			setup: func(d deps) {
				d.tasks.EXPECT().GetByID(gomock.Any(), "t1").Return(domaintask.Task{ID: "t1"}, nil)
				d.agents.EXPECT().GetByID(gomock.Any(), "ghost").Return(domainagent.Agent{}, fmt.Errorf("agent ghost: %w", apperr.ErrNotFound))
			},
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"Agent not found"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, d := newRouter(t)
			tt.setup(d)

			w := post(r, tt.body)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestListMessages(t *testing.T) {
	r, d := newRouter(t)
	d.messages.EXPECT().ListByTask(gomock.Any(), "t1").Return([]domainmessage.Entry{
		{Message: domainmessage.Message{ID: "m1", TaskID: "t1", Content: "first"}, AgentName: "Jarvis", AgentRole: "lead"},
	}, nil)

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "/tasks/t1/messages", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Jarvis", got[0]["agent_name"])
	assert.Equal(t, "lead", got[0]["agent_role"])
	assert.Equal(t, "first", got[0]["content"])
}
