package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	domainmessage "github.com/alanyang/mission-control/internal/domain/message"
	domaintask "github.com/alanyang/mission-control/internal/domain/task"
)

// RegisterPrompts registers the task_briefing prompt, which hands an agent a
// task and its thread as one user message.
func RegisterPrompts(s *mcpserver.MCPServer, svcs Services) {
	s.AddPrompt(
		mcpmcp.NewPrompt("task_briefing",
			mcpmcp.WithPromptDescription("Briefing for a task: its fields, who claimed it, and the discussion so far."),
			mcpmcp.WithArgument("task_id",
				mcpmcp.ArgumentDescription("Task to brief on"),
				mcpmcp.RequiredArgument(),
			),
		),
		briefingHandler(svcs),
	)
}

func briefingHandler(svcs Services) mcpserver.PromptHandlerFunc {
	return func(ctx context.Context, req mcpmcp.GetPromptRequest) (*mcpmcp.GetPromptResult, error) {
		taskID := req.Params.Arguments["task_id"]
		if taskID == "" {
			return nil, errors.New("task_id is required")
		}

		t, err := svcs.Tasks.Get(ctx, taskID)
		if err != nil {
			return nil, fmt.Errorf("get task %s: %w", taskID, err)
		}
		msgs, err := svcs.Messages.List(ctx, taskID)
		if err != nil {
			return nil, fmt.Errorf("list messages for %s: %w", taskID, err)
		}

		return mcpmcp.NewGetPromptResult(
			"Briefing for "+t.Title,
			[]mcpmcp.PromptMessage{
				mcpmcp.NewPromptMessage(mcpmcp.RoleUser, mcpmcp.NewTextContent(briefing(t, msgs))),
			},
		), nil
	}
}

func briefing(t domaintask.Detail, msgs []domainmessage.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t.Title)
	fmt.Fprintf(&b, "Status: %s\nPriority: %s\n", t.Status, t.Priority)
	if len(t.Labels) > 0 {
		fmt.Fprintf(&b, "Labels: %s\n", strings.Join(t.Labels, ", "))
	}
	if len(t.Assignees) > 0 {
		fmt.Fprintf(&b, "Assignees: %s\n", strings.Join(t.Assignees, ", "))
	} else {
		b.WriteString("Assignees: none\n")
	}
	if t.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", t.Description)
	}

	b.WriteString("\n## Thread\n\n")
	if len(msgs) == 0 {
		b.WriteString("No messages yet.\n")
		return b.String()
	}
	for _, m := range msgs {
		author := m.FromAgentID
		if m.AgentName != "" {
			author = fmt.Sprintf("%s (%s)", m.AgentName, m.AgentRole)
		}
		fmt.Fprintf(&b, "- %s [%s]: %s\n", author, m.CreatedAt.Format("2006-01-02 15:04"), m.Content)
	}
	return b.String()
}
