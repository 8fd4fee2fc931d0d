package integration_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sqlitedb "github.com/alanyang/mission-control/internal/adapter/sqlite"
	"github.com/alanyang/mission-control/internal/config"
	domainactivity "github.com/alanyang/mission-control/internal/domain/activity"
	domainagent "github.com/alanyang/mission-control/internal/domain/agent"
	domainchat "github.com/alanyang/mission-control/internal/domain/chat"
	domainnotification "github.com/alanyang/mission-control/internal/domain/notification"
	domaintask "github.com/alanyang/mission-control/internal/domain/task"
	"github.com/alanyang/mission-control/internal/wire"
)

func init() { gin.SetMode(gin.TestMode) }

// ── test harness ──────────────────────────────────────────────────────────────

type harness struct {
	t      *testing.T
	router http.Handler
	db     *sql.DB
}

// newHarness serves the full router over a fresh sqlite file with two seeded
// agents. db is a second handle on the same file for row counts.
func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mc.db")

	store, err := wire.OpenStore(ctx, config.Config{DBDriver: config.DriverSQLite, SQLitePath: path})
	require.NoError(t, err)
	t.Cleanup(store.Close)

	for _, a := range []domainagent.Agent{
		domainagent.New("jarvis", "Jarvis", "Squad Lead", domainagent.StatusActive),
		domainagent.New("friday", "Friday", "Developer", ""),
	} {
		_, err := store.Agents.Upsert(ctx, a)
		require.NoError(t, err)
	}

	db, err := sqlitedb.Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &harness{t: t, router: wire.Router(store, true, "test"), db: db}
}

func (h *harness) do(method, path string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) decode(w *httptest.ResponseRecorder, v any) {
	h.t.Helper()
	require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (h *harness) count(query string, args ...any) int {
	h.t.Helper()
	var n int
	require.NoError(h.t, h.db.QueryRow(query, args...).Scan(&n))
	return n
}

func (h *harness) createTask(title string) domaintask.Task {
	h.t.Helper()
	w := h.do(http.MethodPost, "/api/tasks", map[string]any{"title": title, "created_by_agent_id": "jarvis"})
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())
	var task domaintask.Task
	h.decode(w, &task)
	return task
}

func (h *harness) activities() []domainactivity.Entry {
	h.t.Helper()
	w := h.do(http.MethodGet, "/api/activities?limit=100", nil)
	require.Equal(h.t, http.StatusOK, w.Code)
	var feed []domainactivity.Entry
	h.decode(w, &feed)
	return feed
}

func countType(feed []domainactivity.Entry, typ domainactivity.Type) int {
	n := 0
	for _, a := range feed {
		if a.Type == typ {
			n++
		}
	}
	return n
}

// ── properties ────────────────────────────────────────────────────────────────

func TestCreatedTaskHasDefaults(t *testing.T) {
	h := newHarness(t)
	created := h.createTask("Write launch post")

	w := h.do(http.MethodGet, "/api/tasks/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got domaintask.Detail
	h.decode(w, &got)
	assert.Equal(t, domaintask.StatusBacklog, got.Status)
	assert.Equal(t, domaintask.PriorityMedium, got.Priority)
	assert.Equal(t, []string{}, got.Labels)
	assert.Equal(t, []string{}, got.Assignees)
}

func TestDoubleClaimIsRejected(t *testing.T) {
	h := newHarness(t)
	task := h.createTask("Fix login")
	claim := map[string]any{"agent_id": "friday"}

	first := h.do(http.MethodPost, "/api/tasks/"+task.ID+"/claim", claim)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	assert.JSONEq(t, `{"message":"Task claimed"}`, first.Body.String())

	second := h.do(http.MethodPost, "/api/tasks/"+task.ID+"/claim", claim)
	assert.Equal(t, http.StatusBadRequest, second.Code)
	assert.JSONEq(t, `{"error":"Already assigned"}`, second.Body.String())

	assert.Equal(t, 1, h.count(`SELECT COUNT(*) FROM task_assignments WHERE task_id = ? AND agent_id = ?`, task.ID, "friday"))

	var got domaintask.Detail
	h.decode(h.do(http.MethodGet, "/api/tasks/"+task.ID, nil), &got)
	assert.Equal(t, domaintask.StatusInProgress, got.Status)
	assert.Equal(t, []string{"friday"}, got.Assignees)
}

func TestMentionsNotifyExistingAgentsOnly(t *testing.T) {
	h := newHarness(t)
	task := h.createTask("Review PR")
	content := "@friday can you review? cc @nobody"

	w := h.do(http.MethodPost, "/api/tasks/"+task.ID+"/messages", map[string]any{
		"from_agent_id": "jarvis",
		"content":       content,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var pending []domainnotification.Notification
	h.decode(h.do(http.MethodGet, "/api/notifications/friday/undelivered", nil), &pending)
	require.Len(t, pending, 1)
	assert.False(t, pending[0].Delivered)
	assert.Contains(t, pending[0].Content, "Jarvis")
	assert.Contains(t, pending[0].Content, content)

	assert.Equal(t, 0, h.count(`SELECT COUNT(*) FROM notifications WHERE mentioned_agent_id = ?`, "nobody"))
	assert.Equal(t, 1, h.count(`SELECT COUNT(*) FROM notifications`))

	ack := h.do(http.MethodPatch, "/api/notifications/"+pending[0].ID+"/delivered", nil)
	require.Equal(t, http.StatusOK, ack.Code)
	h.decode(h.do(http.MethodGet, "/api/notifications/friday/undelivered", nil), &pending)
	assert.Empty(t, pending)
}

func TestEmptyPatchWritesNothing(t *testing.T) {
	h := newHarness(t)
	task := h.createTask("Tidy backlog")

	var before domaintask.Detail
	h.decode(h.do(http.MethodGet, "/api/tasks/"+task.ID, nil), &before)
	activitiesBefore := len(h.activities())

	time.Sleep(5 * time.Millisecond)
	w := h.do(http.MethodPatch, "/api/tasks/"+task.ID, map[string]any{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"No changes"}`, w.Body.String())

	var after domaintask.Detail
	h.decode(h.do(http.MethodGet, "/api/tasks/"+task.ID, nil), &after)
	assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt), "updated_at moved: %s -> %s", before.UpdatedAt, after.UpdatedAt)
	assert.Len(t, h.activities(), activitiesBefore)
}

func TestMutationsLogOneActivityEach(t *testing.T) {
	h := newHarness(t)

	task := h.createTask("Ship v2")
	assert.Equal(t, 1, countType(h.activities(), domainactivity.TypeTaskCreated))

	w := h.do(http.MethodPost, "/api/tasks/"+task.ID+"/messages", map[string]any{"from_agent_id": "friday", "content": "on it"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, countType(h.activities(), domainactivity.TypeMessageSent))

	w = h.do(http.MethodPost, "/api/documents", map[string]any{
		"title": "Release notes", "content": "v2", "task_id": task.ID, "created_by_agent_id": "friday",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 1, countType(h.activities(), domainactivity.TypeDocumentCreated))

	w = h.do(http.MethodPost, "/api/tasks/"+task.ID+"/claim", map[string]any{"agent_id": "friday"})
	require.Equal(t, http.StatusOK, w.Code)

	feed := h.activities()
	assert.Equal(t, 1, countType(feed, domainactivity.TypeTaskClaimed))
	assert.Len(t, feed, 4)
	assert.Equal(t, domainactivity.TypeTaskClaimed, feed[0].Type, "feed is newest first")
}

func TestDuplicateRegistration(t *testing.T) {
	h := newHarness(t)
	body := map[string]any{"email": "pepper@stark.io", "password": "hunter22", "name": "Pepper"}

	first := h.do(http.MethodPost, "/api/auth/register", body)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := h.do(http.MethodPost, "/api/auth/register", body)
	assert.Equal(t, http.StatusBadRequest, second.Code)
	assert.JSONEq(t, `{"error":"Email already exists"}`, second.Body.String())

	assert.Equal(t, 1, h.count(`SELECT COUNT(*) FROM users WHERE email = ?`, "pepper@stark.io"))

	login := h.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "pepper@stark.io", "password": "hunter22"})
	require.Equal(t, http.StatusOK, login.Code)
	var profile map[string]any
	h.decode(login, &profile)
	assert.Equal(t, "Pepper", profile["name"])
	assert.NotContains(t, profile, "password")
}

func TestChatPrecedence(t *testing.T) {
	h := newHarness(t)

	responses := func(c domainchat.Category) []string {
		for _, r := range domainchat.Rules {
			if r.Category == c {
				return r.Responses
			}
		}
		t.Fatalf("no rule for %s", c)
		return nil
	}

	tests := []struct {
		message string
		want    domainchat.Category
	}{
		{"hi there", domainchat.Greeting},
		{"I feel so alone", domainchat.Lonely},
	}
	for _, tc := range tests {
		t.Run(tc.message, func(t *testing.T) {
			for range 10 {
				w := h.do(http.MethodPost, "/api/chat", map[string]any{"message": tc.message})
				require.Equal(t, http.StatusOK, w.Code)

				var reply struct {
					Response  string `json:"response"`
					Timestamp int64  `json:"timestamp"`
				}
				h.decode(w, &reply)
				assert.Contains(t, responses(tc.want), reply.Response)
				if tc.want != domainchat.Greeting {
					assert.NotContains(t, responses(domainchat.Greeting), reply.Response)
				}
				assert.Positive(t, reply.Timestamp)
			}
		})
	}
}

// ── surface ───────────────────────────────────────────────────────────────────

func TestIndexAndUnknownIDs(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var index struct {
		Name      string   `json:"name"`
		Endpoints []string `json:"endpoints"`
	}
	h.decode(w, &index)
	assert.Equal(t, "Mission Control API", index.Name)
	assert.Contains(t, index.Endpoints, "POST /mcp")

	w = h.do(http.MethodGet, "/api/tasks/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Task not found"}`, w.Body.String())

	w = h.do(http.MethodGet, "/api/agents/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Agent not found"}`, w.Body.String())

	w = h.do(http.MethodGet, "/api/tasks/nope/messages", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestAgentCurrentTask(t *testing.T) {
	h := newHarness(t)
	task := h.createTask("Deploy")

	w := h.do(http.MethodPatch, "/api/agents/friday", map[string]any{"status": "active", "current_task_id": task.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var detail map[string]any
	h.decode(h.do(http.MethodGet, "/api/agents/friday", nil), &detail)
	assert.Equal(t, "active", detail["status"])
	assert.Equal(t, map[string]any{"id": task.ID, "title": "Deploy"}, detail["current_task"])

	w = h.do(http.MethodPatch, "/api/agents/friday", map[string]any{"current_task_id": nil})
	require.Equal(t, http.StatusOK, w.Code)
	detail = nil
	h.decode(h.do(http.MethodGet, "/api/agents/friday", nil), &detail)
	assert.Nil(t, detail["current_task_id"])
	assert.Nil(t, detail["current_task"])
}
