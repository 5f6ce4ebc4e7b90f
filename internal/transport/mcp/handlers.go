package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/dailyfacts/internal/core"
	"github.com/sandevgo/dailyfacts/internal/service/command"
	"github.com/sandevgo/dailyfacts/internal/service/session"
)

type Handlers struct {
	session  command.Session
	settings core.SettingsStore
}

type viewResponse struct {
	Date    string      `json:"date"`
	Facts   []core.Fact `json:"facts"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

type settingsResponse struct {
	Topics               []core.TopicKey `json:"topics"`
	OnePerTopic          bool            `json:"one_per_topic"`
	Language             core.Language   `json:"language"`
	NotificationsEnabled bool            `json:"notifications_enabled"`
	NotificationTime     string          `json:"notification_time"`
	SeenToday            int             `json:"seen_today"`
}

func viewResult(v session.View) (*mcp.CallToolResult, error) {
	resp := viewResponse{
		Date:    v.Date,
		Facts:   v.Facts,
		Error:   string(v.Error),
		Message: v.Error.Message(),
	}
	if resp.Facts == nil {
		resp.Facts = []core.Fact{}
	}
	return jsonResult(resp)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (h *Handlers) TodayFacts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return viewResult(h.session.Resume(ctx))
}

func (h *Handlers) NextFacts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return viewResult(h.session.Refresh(ctx))
}

func (h *Handlers) DiscardFact(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.swipe(ctx, request, h.session.Discard)
}

func (h *Handlers) ReplaceFact(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.swipe(ctx, request, h.session.Replace)
}

func (h *Handlers) swipe(
	ctx context.Context,
	request mcp.CallToolRequest,
	fn func(context.Context, int, ...session.SwipeOption) (session.View, error),
) (*mcp.CallToolResult, error) {
	index := request.GetInt("index", 0)
	if index < 1 {
		return mcp.NewToolResultError("index argument is required and must be a positive number"), nil
	}

	var opts []session.SwipeOption
	if id := request.GetString("fact_id", ""); id != "" {
		opts = append(opts, session.ExpectID(id))
	}

	v, err := fn(ctx, index-1, opts...)
	if errors.Is(err, session.ErrIndexOutOfRange) {
		return mcp.NewToolResultError(fmt.Sprintf("there is no fact %d, %d displayed", index, len(v.Facts))), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return viewResult(v)
}

func (h *Handlers) GetSettings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := h.settings.Get(ctx)
	return jsonResult(settingsResponse{
		Topics:               st.ActiveTopics(),
		OnePerTopic:          st.OnePerTopic,
		Language:             st.Language.OrDefault(),
		NotificationsEnabled: st.NotificationsEnabled,
		NotificationTime:     st.NotificationTime,
		SeenToday:            len(st.ShownIDsFor(h.session.View().Date)),
	})
}

func (h *Handlers) UpdateSettings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	var edits []func(*core.SessionState)

	if _, ok := args["topics"]; ok {
		var topics []core.TopicKey
		for _, name := range request.GetStringSlice("topics", nil) {
			t := core.TopicKey(name)
			if !t.Valid() {
				return mcp.NewToolResultError(fmt.Sprintf("unknown topic %q", name)), nil
			}
			if !slices.Contains(topics, t) {
				topics = append(topics, t)
			}
		}
		edits = append(edits, func(st *core.SessionState) { st.SelectedTopics = topics })
	}

	if _, ok := args["one_per_topic"]; ok {
		one := request.GetBool("one_per_topic", false)
		edits = append(edits, func(st *core.SessionState) { st.OnePerTopic = one })
	}

	if _, ok := args["language"]; ok {
		lang := core.Language(request.GetString("language", ""))
		if !lang.Valid() {
			return mcp.NewToolResultError(fmt.Sprintf("unsupported language %q", lang)), nil
		}
		edits = append(edits, func(st *core.SessionState) { st.Language = lang })
	}

	if len(edits) == 0 {
		return mcp.NewToolResultError("provide at least one of topics, one_per_topic, language"), nil
	}

	v, err := h.session.ApplySettings(ctx, func(st *core.SessionState) {
		for _, edit := range edits {
			edit(st)
		}
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return viewResult(v)
}

func (h *Handlers) ClearHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.session.ClearHistory(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return viewResult(v)
}
