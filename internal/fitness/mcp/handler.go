package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/2beens/fitcoach/internal/fitness"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service contextService
}

func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

// GetPersonalRecordsTool returns the MCP tool handler for get_personal_records.
func (h *Handler) GetPersonalRecordsTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		records, err := h.service.PersonalRecords(ctx)
		if err != nil {
			return errorResult("Error fetching personal records: " + err.Error()), nil, nil
		}
		return jsonResult(records), nil, nil
	}
}

// GetStreakTool returns the MCP tool handler for get_streak.
func (h *Handler) GetStreakTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		streak, err := h.service.Streak(ctx)
		if err != nil {
			return errorResult("Error computing streak: " + err.Error()), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: strconv.Itoa(streak)}},
		}, nil, nil
	}
}

// GetProgressTool returns the MCP tool handler for get_progress.
func (h *Handler) GetProgressTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		report, err := h.service.Progress(ctx)
		if err != nil {
			return errorResult("Error building progress: " + err.Error()), nil, nil
		}
		return jsonResult(report), nil, nil
	}
}

// TodayPlanInput is the input for get_today_plan.
type TodayPlanInput struct {
	Date string `json:"date,omitempty" jsonschema:"Day to plan for (YYYY-MM-DD), defaults to today"`
}

// GetTodayPlanTool returns the MCP tool handler for get_today_plan.
func (h *Handler) GetTodayPlanTool() func(context.Context, *mcp.CallToolRequest, TodayPlanInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in TodayPlanInput) (*mcp.CallToolResult, any, error) {
		plan, err := h.service.TodayPlan(ctx, in.Date)
		if err != nil {
			return errorResult("Error building plan: " + err.Error()), nil, nil
		}
		return jsonResult(plan), nil, nil
	}
}

// OneRepMaxInput is the input for estimate_one_rep_max.
type OneRepMaxInput struct {
	Weight float64 `json:"weight" jsonschema:"Weight lifted (lbs)"`
	Reps   int     `json:"reps" jsonschema:"Repetitions done with that weight"`
}

// EstimateOneRepMaxTool returns the MCP tool handler for estimate_one_rep_max.
func (h *Handler) EstimateOneRepMaxTool() func(context.Context, *mcp.CallToolRequest, OneRepMaxInput) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in OneRepMaxInput) (*mcp.CallToolResult, any, error) {
		oneRepMax, ok := fitness.EstimateOneRepMax(in.Weight, in.Reps)
		if !ok {
			return errorResult("Weight and reps must both be positive"), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{
				Text: fmt.Sprintf("Estimated 1RM: %d lbs", oneRepMax),
			}},
		}, nil, nil
	}
}
