package message_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sqliteagent "github.com/alanyang/mission-control/internal/adapter/sqlite/agent"
	sqlitemessage "github.com/alanyang/mission-control/internal/adapter/sqlite/message"
	sqlitetask "github.com/alanyang/mission-control/internal/adapter/sqlite/task"
	domainagent "github.com/alanyang/mission-control/internal/domain/agent"
	"github.com/alanyang/mission-control/internal/domain/apperr"
	domainmessage "github.com/alanyang/mission-control/internal/domain/message"
	domaintask "github.com/alanyang/mission-control/internal/domain/task"
	"github.com/alanyang/mission-control/internal/testutil"
)

func TestCreateAndListByTask(t *testing.T) {
	db := testutil.OpenSQLite(t)
	ctx := context.Background()
	_, err := sqliteagent.New(db).Upsert(ctx, domainagent.New("jarvis", "Jarvis", "lead", ""))
	require.NoError(t, err)
	tk, err := sqlitetask.New(db).Create(ctx, domaintask.New("T", "", "", "", nil, "jarvis"))
	require.NoError(t, err)

	r := sqlitemessage.New(db)
	for _, body := range []string{"first", "second", "third"} {
		_, err := r.Create(ctx, domainmessage.New(tk.ID, "jarvis", body))
		require.NoError(t, err)
	}

	got, err := r.ListByTask(ctx, tk.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Content)
	assert.Equal(t, "third", got[2].Content)
	assert.Equal(t, "Jarvis", got[0].AgentName)
	assert.Equal(t, "lead", got[0].AgentRole)

	empty, err := r.ListByTask(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCreateUnknownTask(t *testing.T) {
	db := testutil.OpenSQLite(t)
	ctx := context.Background()
	_, err := sqliteagent.New(db).Upsert(ctx, domainagent.New("jarvis", "Jarvis", "lead", ""))
	require.NoError(t, err)

	_, err = sqlitemessage.New(db).Create(ctx, domainmessage.New("ghost", "jarvis", "hi"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
