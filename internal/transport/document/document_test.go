package document_test

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
	domaindocument "github.com/alanyang/mission-control/internal/domain/document"
	domaintask "github.com/alanyang/mission-control/internal/domain/task"
	"github.com/alanyang/mission-control/internal/mocks"
	documentsvc "github.com/alanyang/mission-control/internal/service/document"
	effectsvc "github.com/alanyang/mission-control/internal/service/effect"
	transportdocument "github.com/alanyang/mission-control/internal/transport/document"
)

func init() { gin.SetMode(gin.TestMode) }

type deps struct {
	docs       *mocks.MockDocumentRepository
	tasks      *mocks.MockTaskRepository
	agents     *mocks.MockAgentRepository
	activities *mocks.MockActivityRepository
}

func newRouter(t *testing.T) (*gin.Engine, deps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := deps{
		docs:       mocks.NewMockDocumentRepository(ctrl),
		tasks:      mocks.NewMockTaskRepository(ctrl),
		agents:     mocks.NewMockAgentRepository(ctrl),
		activities: mocks.NewMockActivityRepository(ctrl),
	}
	r := gin.New()
	transportdocument.Register(
		r.Group("/documents"),
		documentsvc.NewService(d.docs, d.tasks, d.agents),
		effectsvc.NewDispatcher(d.activities, mocks.NewMockNotificationRepository(ctrl)),
	)
	return r, d
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequestWithContext(context.Background(), method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateDocument(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		setup    func(d deps)
		wantCode int
		wantErr  string
	}{
		{
			name: "defaults type and logs document_created",
			body: `{"title":"Report","content":"...","task_id":"t1","created_by_agent_id":"jarvis"}`,
			setup: func(d deps) {
				d.tasks.EXPECT().GetByID(gomock.Any(), "t1").Return(domaintask.Task{ID: "t1"}, nil)
				d.agents.EXPECT().GetByID(gomock.Any(), "jarvis").Return(domainagent.Agent{ID: "jarvis"}, nil)
				d.docs.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, doc domaindocument.Document) (domaindocument.Document, error) { return doc, nil })
				d.activities.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, a domainactivity.Activity) (domainactivity.Activity, error) {
						if a.Message != "Created document: Report" {
							return a, fmt.Errorf("unexpected message %q", a.Message)
						}
						return a, nil
					})
			},
			wantCode: http.StatusCreated,
		},
		{
			name:     "missing task_id",
			body:     `{"title":"Report","content":"...","created_by_agent_id":"jarvis"}`,
			setup:    func(d deps) {},
			wantCode: http.StatusBadRequest,
			wantErr:  "task_id is required",
		},
		{
			name: "unknown task",
			body: `{"title":"Report","content":"...","task_id":"nope","created_by_agent_id":"jarvis"}`,
			setup: func(d deps) {
				d.tasks.EXPECT().GetByID(gomock.Any(), "nope").Return(domaintask.Task{}, fmt.Errorf("task nope: %w", apperr.ErrNotFound))
			},
			wantCode: http.StatusNotFound,
			wantErr:  "Task not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, d := newRouter(t)
			tt.setup(d)

			w := do(r, http.MethodPost, "/documents", tt.body)

			require.Equal(t, tt.wantCode, w.Code)
			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, resp["error"])
			} else {
				assert.Equal(t, domaindocument.DefaultType, resp["type"])
			}
		})
	}
}

func TestListDocuments(t *testing.T) {
	r, d := newRouter(t)
	taskID := "t1"
	d.docs.EXPECT().List(gomock.Any(), domaindocument.ListFilters{TaskID: &taskID}).
		Return([]domaindocument.Document{{ID: "d1", TaskID: "t1"}}, nil)

	w := do(r, http.MethodGet, "/documents?task_id=t1", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"d1"`)
}
