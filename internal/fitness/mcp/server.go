package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with read-only fitness tools: personal records, streak,
// progress, day plan, one rep max estimate.
// Used by the main backend when mounting MCP at /mcp (internal/server) and by cmd/fitcoach_mcp.
func NewServer(store documentLoader, version string) *mcp.Server {
	h := NewHandler(NewContextService(store))
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "fitcoach",
		Version: version,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_personal_records",
		Description: "Returns every personal record (heaviest weight logged per exercise) with the suggested next target (PR + 5%). Use when you need to know current strength levels.",
	}, h.GetPersonalRecordsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_streak",
		Description: "Returns the number of consecutive days, ending today or yesterday, with a workout or nutrition entry logged.",
	}, h.GetStreakTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_progress",
		Description: "Returns body weight and calorie series, current weight, per-day nutrition totals with goal status, PRs, streak and workout count.",
	}, h.GetProgressTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_today_plan",
		Description: "Returns the workout plan (focus, exercises, current PR and target) for today or a given date (YYYY-MM-DD). Sunday is a rest day.",
	}, h.GetTodayPlanTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "estimate_one_rep_max",
		Description: "Estimates a one rep max from a set (Epley formula). Args: weight, reps; both must be positive.",
	}, h.EstimateOneRepMaxTool())

	return s
}
