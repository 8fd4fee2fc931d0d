package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/alanyang/mission-control/internal/domain/apperr"
	domaintask "github.com/alanyang/mission-control/internal/domain/task"
	tasksvc "github.com/alanyang/mission-control/internal/service/task"
)

// RegisterTools registers all MCP tools on the server. Agents poll; nothing
// is pushed over the session.
func RegisterTools(s *mcpserver.MCPServer, svcs Services) {
	s.AddTool(mcpmcp.NewTool("list_tasks",
		mcpmcp.WithDescription("List tasks, most recently updated first. Each task carries the ids of the agents that claimed it."),
		mcpmcp.WithString("status", mcpmcp.Description("Only tasks in this status")),
		mcpmcp.WithString("assignee", mcpmcp.Description("Only tasks claimed by this agent id")),
	), listTasksHandler(svcs))

	s.AddTool(mcpmcp.NewTool("get_task",
		mcpmcp.WithDescription("Get one task with its assignees and its full message thread, oldest message first."),
		mcpmcp.WithString("task_id", mcpmcp.Required(), mcpmcp.Description("Task id")),
	), getTaskHandler(svcs))

	s.AddTool(mcpmcp.NewTool("create_task",
		mcpmcp.WithDescription("Create a task. Defaults: status backlog, priority medium, no labels."),
		mcpmcp.WithString("title", mcpmcp.Required(), mcpmcp.Description("Short task title")),
		mcpmcp.WithString("created_by_agent_id", mcpmcp.Required(), mcpmcp.Description("Your agent id")),
		mcpmcp.WithString("description", mcpmcp.Description("Longer description")),
		mcpmcp.WithString("status", mcpmcp.Description("Usually backlog, in_progress, review or done")),
		mcpmcp.WithString("priority", mcpmcp.Description("Usually low, medium, high or urgent")),
		mcpmcp.WithArray("labels", mcpmcp.WithStringItems(), mcpmcp.Description("Free-form labels")),
	), createTaskHandler(svcs))

	s.AddTool(mcpmcp.NewTool("update_task",
		mcpmcp.WithDescription("Change some of a task's fields. Omitted fields are left alone; an empty labels array clears the labels."),
		mcpmcp.WithString("task_id", mcpmcp.Required(), mcpmcp.Description("Task id")),
		mcpmcp.WithString("status"),
		mcpmcp.WithString("description"),
		mcpmcp.WithString("priority"),
		mcpmcp.WithArray("labels", mcpmcp.WithStringItems()),
	), updateTaskHandler(svcs))

	s.AddTool(mcpmcp.NewTool("claim_task",
		mcpmcp.WithDescription("Claim a task for an agent and move it to in_progress. Each agent can claim a task once."),
		mcpmcp.WithString("task_id", mcpmcp.Required(), mcpmcp.Description("Task id")),
		mcpmcp.WithString("agent_id", mcpmcp.Required(), mcpmcp.Description("Your agent id")),
	), claimTaskHandler(svcs))

	s.AddTool(mcpmcp.NewTool("post_message",
		mcpmcp.WithDescription("Post to a task's thread. Every @agent_id in the content notifies that agent."),
		mcpmcp.WithString("task_id", mcpmcp.Required(), mcpmcp.Description("Task id")),
		mcpmcp.WithString("from_agent_id", mcpmcp.Required(), mcpmcp.Description("Your agent id")),
		mcpmcp.WithString("content", mcpmcp.Required(), mcpmcp.Description("Message text")),
	), postMessageHandler(svcs))

	s.AddTool(mcpmcp.NewTool("list_messages",
		mcpmcp.WithDescription("Read a task's thread, oldest message first, with each author's name and role."),
		mcpmcp.WithString("task_id", mcpmcp.Required(), mcpmcp.Description("Task id")),
	), listMessagesHandler(svcs))

	s.AddTool(mcpmcp.NewTool("check_notifications",
		mcpmcp.WithDescription("List your undelivered @mention notifications, newest first. Acknowledge each with ack_notification."),
		mcpmcp.WithString("agent_id", mcpmcp.Required(), mcpmcp.Description("Your agent id")),
	), checkNotificationsHandler(svcs))

	s.AddTool(mcpmcp.NewTool("ack_notification",
		mcpmcp.WithDescription("Mark a notification as delivered so it stops appearing in check_notifications."),
		mcpmcp.WithString("notification_id", mcpmcp.Required(), mcpmcp.Description("Notification id")),
	), ackNotificationHandler(svcs))

	s.AddTool(mcpmcp.NewTool("list_activities",
		mcpmcp.WithDescription("Read the activity feed, newest first."),
		mcpmcp.WithNumber("limit", mcpmcp.Description("Maximum entries, default 50")),
	), listActivitiesHandler(svcs))
}

// ── Tool handlers ─────────────────────────────────────────────────────────

func listTasksHandler(svcs Services) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		var filters domaintask.ListFilters
		if v := req.GetString("status", ""); v != "" {
			s := domaintask.Status(v)
			filters.Status = &s
		}
		if v := req.GetString("assignee", ""); v != "" {
			filters.Assignee = &v
		}

		tasks, err := svcs.Tasks.List(ctx, filters)
		if err != nil {
			return toolError(ctx, "list_tasks", err), nil
		}
		return jsonResult(tasks)
	}
}

func getTaskHandler(svcs Services) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		taskID := req.GetString("task_id", "")
		if taskID == "" {
			return missing("task_id"), nil
		}

		t, err := svcs.Tasks.Get(ctx, taskID)
		if err != nil {
			return toolError(ctx, "get_task", err), nil
		}
		msgs, err := svcs.Messages.List(ctx, taskID)
		if err != nil {
			return toolError(ctx, "get_task", err), nil
		}
		return jsonResult(map[string]any{"task": t, "messages": msgs})
	}
}

func createTaskHandler(svcs Services) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		in := tasksvc.CreateInput{
			Title:            req.GetString("title", ""),
			Description:      req.GetString("description", ""),
			Status:           domaintask.Status(req.GetString("status", "")),
			Priority:         domaintask.Priority(req.GetString("priority", "")),
			Labels:           req.GetStringSlice("labels", nil),
			CreatedByAgentID: req.GetString("created_by_agent_id", ""),
		}
		if in.Title == "" {
			return missing("title"), nil
		}
		if in.CreatedByAgentID == "" {
			return missing("created_by_agent_id"), nil
		}

		res, err := svcs.Tasks.Create(ctx, in)
		if err != nil {
			return toolError(ctx, "create_task", err), nil
		}
		svcs.Effects.Flush(ctx, res.Pending)
		return jsonResult(res.Value)
	}
}

func updateTaskHandler(svcs Services) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		taskID := req.GetString("task_id", "")
		if taskID == "" {
			return missing("task_id"), nil
		}

		var u domaintask.Update
		args := req.GetArguments()
		if v, ok := args["status"].(string); ok {
			s := domaintask.Status(v)
			u.Status = &s
		}
		if v, ok := args["description"].(string); ok {
			u.Description = &v
		}
		if v, ok := args["priority"].(string); ok {
			p := domaintask.Priority(v)
			u.Priority = &p
		}
		if v, ok := args["labels"]; ok && v != nil {
			u.Labels = req.GetStringSlice("labels", []string{})
		}

		res, err := svcs.Tasks.Update(ctx, taskID, u)
		if err != nil {
			return toolError(ctx, "update_task", err), nil
		}
		if !res.Value {
			return mcpmcp.NewToolResultText(`{"message":"No changes"}`), nil
		}
		svcs.Effects.Flush(ctx, res.Pending)
		return mcpmcp.NewToolResultText(`{"message":"Task updated"}`), nil
	}
}

func claimTaskHandler(svcs Services) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		taskID := req.GetString("task_id", "")
		agentID := req.GetString("agent_id", "")
		if taskID == "" {
			return missing("task_id"), nil
		}
		if agentID == "" {
			return missing("agent_id"), nil
		}

		res, err := svcs.Tasks.Claim(ctx, taskID, agentID)
		if err != nil {
			return toolError(ctx, "claim_task", err), nil
		}
		svcs.Effects.Flush(ctx, res.Pending)
		return jsonResult(res.Value)
	}
}

func postMessageHandler(svcs Services) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		taskID := req.GetString("task_id", "")
		from := req.GetString("from_agent_id", "")
		content := req.GetString("content", "")
		switch {
		case taskID == "":
			return missing("task_id"), nil
		case from == "":
			return missing("from_agent_id"), nil
		case strings.TrimSpace(content) == "":
			return missing("content"), nil
		}

		res, err := svcs.Messages.Post(ctx, taskID, from, content)
		if err != nil {
			return toolError(ctx, "post_message", err), nil
		}
		svcs.Effects.Flush(ctx, res.Pending)
		return jsonResult(res.Value)
	}
}

func listMessagesHandler(svcs Services) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		taskID := req.GetString("task_id", "")
		if taskID == "" {
			return missing("task_id"), nil
		}

		msgs, err := svcs.Messages.List(ctx, taskID)
		if err != nil {
			return toolError(ctx, "list_messages", err), nil
		}
		return jsonResult(msgs)
	}
}

func checkNotificationsHandler(svcs Services) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		agentID := req.GetString("agent_id", "")
		if agentID == "" {
			return missing("agent_id"), nil
		}

		pending, err := svcs.Notifications.Undelivered(ctx, agentID)
		if err != nil {
			return toolError(ctx, "check_notifications", err), nil
		}
		return jsonResult(pending)
	}
}

func ackNotificationHandler(svcs Services) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		id := req.GetString("notification_id", "")
		if id == "" {
			return missing("notification_id"), nil
		}

		if err := svcs.Notifications.MarkDelivered(ctx, id); err != nil {
			return toolError(ctx, "ack_notification", err), nil
		}
		return mcpmcp.NewToolResultText(`{"message":"Notification marked as delivered"}`), nil
	}
}

func listActivitiesHandler(svcs Services) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		feed, err := svcs.Activities.Feed(ctx, req.GetInt("limit", 0))
		if err != nil {
			return toolError(ctx, "list_activities", err), nil
		}
		return jsonResult(feed)
	}
}

// ── Results ───────────────────────────────────────────────────────────────

func jsonResult(v any) (*mcpmcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding tool result: %w", err)
	}
	return mcpmcp.NewToolResultText(string(data)), nil
}

func missing(arg string) *mcpmcp.CallToolResult {
	return mcpmcp.NewToolResultError(arg + " is required")
}

// toolError reports classified errors by their message. Anything else is
// logged and reported generically, as the HTTP surface does.
func toolError(ctx context.Context, tool string, err error) *mcpmcp.CallToolResult {
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Kind != apperr.Internal {
		return mcpmcp.NewToolResultError(ae.Error())
	}
	slog.ErrorContext(ctx, "mcp tool failed", "tool", tool, "error", err)
	return mcpmcp.NewToolResultError("Internal server error")
}
