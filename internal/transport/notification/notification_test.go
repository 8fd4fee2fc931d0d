package notification_test

import (
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

	"github.com/alanyang/mission-control/internal/domain/apperr"
	domainnotification "github.com/alanyang/mission-control/internal/domain/notification"
	"github.com/alanyang/mission-control/internal/mocks"
	notificationsvc "github.com/alanyang/mission-control/internal/service/notification"
	transportnotification "github.com/alanyang/mission-control/internal/transport/notification"
)

func init() { gin.SetMode(gin.TestMode) }

func newRouter(t *testing.T) (*gin.Engine, *mocks.MockNotificationRepository) {
	t.Helper()
	repo := mocks.NewMockNotificationRepository(gomock.NewController(t))
	r := gin.New()
	transportnotification.Register(r.Group("/notifications"), notificationsvc.NewService(repo))
	return r, repo
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequestWithContext(context.Background(), method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListUndelivered(t *testing.T) {
	r, repo := newRouter(t)
	repo.EXPECT().ListUndelivered(gomock.Any(), "friday").Return([]domainnotification.Notification{
		{ID: "n2", MentionedAgentID: "friday", Content: "newer"},
		{ID: "n1", MentionedAgentID: "friday", Content: "older"},
	}, nil)

	w := serve(r, http.MethodGet, "/notifications/friday/undelivered")

	require.Equal(t, http.StatusOK, w.Code)
	var got []domainnotification.Notification
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "n2", got[0].ID)
}

func TestMarkDelivered(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		r, repo := newRouter(t)
		repo.EXPECT().MarkDelivered(gomock.Any(), "n1").Return(nil)

		w := serve(r, http.MethodPatch, "/notifications/n1/delivered")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Notification marked as delivered"}`, w.Body.String())
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		r, repo := newRouter(t)
		repo.EXPECT().MarkDelivered(gomock.Any(), "nope").Return(fmt.Errorf("notification nope: %w", apperr.ErrNotFound))

		w := serve(r, http.MethodPatch, "/notifications/nope/delivered")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Notification not found"}`, w.Body.String())
	})
}
