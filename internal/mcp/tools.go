package mcp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/plates"
	"github.com/claude/ironlog/internal/storage"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 7 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

// parseMuscleList splits a comma-separated muscle list and normalizes each
// name. Returns the first unknown name, or "" when all parsed.
func parseMuscleList(s string) ([]models.MuscleGroup, string) {
	var out []models.MuscleGroup
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		g, ok := models.ParseMuscleGroup(part)
		if !ok {
			return nil, part
		}
		out = append(out, g)
	}
	return out, ""
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGetPlateLoading = mcp.NewTool("get_plate_loading",
	mcp.WithDescription("Solve a target barbell weight into plates per side. Returns the plate breakdown, achieved total, and signed difference when the target is not exactly reachable."),
	mcp.WithNumber("target", mcp.Required(), mcp.Description("Target total weight including the bar")),
	mcp.WithString("unit", mcp.Description("Unit system. Defaults to lb."), mcp.Enum("lb", "kg")),
	mcp.WithString("bar", mcp.Description("Bar variant. Defaults to olympic."), mcp.Enum("olympic", "womens", "ez", "trap")),
)

var toolGetRecoveryStatus = mcp.NewTool("get_recovery_status",
	mcp.WithDescription("Per-muscle-group recovery fractions (0 = just trained, 1 = fully fresh) with last-trained timestamps."),
)

var toolGetSuggestion = mcp.NewTool("get_workout_suggestion",
	mcp.WithDescription("Today's training suggestion (full/upper/lower/rest) with the reasoning and the list of fresh muscle groups."),
)

var toolGetRecentSets = mcp.NewTool("get_recent_sets",
	mcp.WithDescription("Recently logged sets, newest first."),
	mcp.WithNumber("limit", mcp.Description("Maximum sets to return. Defaults to 50.")),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). When set, returns the date range instead of a simple limit.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolLogSet = mcp.NewTool("log_set",
	mcp.WithDescription("Log one working set. Muscle names accept common aliases (pecs, lats, quadriceps, abs)."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name, e.g. Bench Press")),
	mcp.WithString("muscles", mcp.Required(), mcp.Description("Comma-separated muscle groups the exercise trains, e.g. chest,triceps")),
	mcp.WithNumber("weight_kg", mcp.Required(), mcp.Description("Weight in kilograms")),
	mcp.WithNumber("reps", mcp.Required(), mcp.Description("Repetitions performed")),
	mcp.WithNumber("rir", mcp.Description("Reps in reserve, optional")),
)

var toolDeleteSet = mcp.NewTool("delete_set",
	mcp.WithDescription("Delete a previously logged set by its ID (as returned by log_set or get_recent_sets)."),
	mcp.WithString("id", mcp.Required(), mcp.Description("UUID of the set to delete")),
)

var toolGetStats = mcp.NewTool("get_training_stats",
	mcp.WithDescription("History-wide stats: total sets, distinct exercises, date span, tonnage, and all-time last-trained per muscle group."),
)

// --- Tool handlers ---

func (h *handlers) getPlateLoading(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := req.RequireFloat("target")
	if err != nil {
		return mcp.NewToolResultError("target parameter is required"), nil
	}

	unit := plates.Unit(req.GetString("unit", "lb"))
	bar := plates.Bar(req.GetString("bar", "olympic"))
	if !unit.Valid() {
		return mcp.NewToolResultError("unit must be lb or kg"), nil
	}
	if !bar.Valid() {
		return mcp.NewToolResultError("unknown bar variant"), nil
	}

	loading := plates.Solve(target, bar, unit)
	if loading == nil {
		return mcp.NewToolResultError("target must be a non-negative weight"), nil
	}

	result, err := mcp.NewToolResultJSON(loading)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecoveryStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := h.refresher.Snapshot(ctx)
	if err != nil {
		h.log.Error("mcp get_recovery_status", "error", err)
		return mcp.NewToolResultError("recompute failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(snap.Recovery)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSuggestion(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := h.refresher.Snapshot(ctx)
	if err != nil {
		h.log.Error("mcp get_workout_suggestion", "error", err)
		return mcp.NewToolResultError("recompute failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(snap.Suggestion)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecentSets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sets []models.SetLog

	if startStr := req.GetString("start", ""); startStr != "" {
		start, end, err := defaultTimeRange(startStr, req.GetString("end", ""))
		if err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
		sets, err = h.ds.QuerySets(ctx, start, end)
		if err != nil {
			h.log.Error("mcp get_recent_sets", "error", err)
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
	} else {
		limit := int(req.GetFloat("limit", 50))
		if limit <= 0 {
			limit = 50
		}
		var err error
		sets, err = h.ds.RecentSets(ctx, limit)
		if err != nil {
			h.log.Error("mcp get_recent_sets", "error", err)
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
	}

	result, err := mcp.NewToolResultJSON(sets)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) logSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	muscleStr, err := req.RequireString("muscles")
	if err != nil {
		return mcp.NewToolResultError("muscles parameter is required"), nil
	}
	weight, err := req.RequireFloat("weight_kg")
	if err != nil {
		return mcp.NewToolResultError("weight_kg parameter is required"), nil
	}
	reps, err := req.RequireFloat("reps")
	if err != nil || reps <= 0 {
		return mcp.NewToolResultError("reps must be a positive number"), nil
	}

	muscles, bad := parseMuscleList(muscleStr)
	if bad != "" {
		return mcp.NewToolResultError("unknown muscle group: " + bad), nil
	}
	if len(muscles) == 0 {
		return mcp.NewToolResultError("at least one muscle group is required"), nil
	}

	set := models.SetLog{
		ID:          uuid.New(),
		Exercise:    exercise,
		Muscles:     muscles,
		PerformedAt: time.Now(),
		WeightKg:    weight,
		Reps:        int(reps),
	}
	if rir := req.GetFloat("rir", -1); rir >= 0 {
		set.RIR = &rir
	}

	if _, err := h.ds.InsertSets(ctx, []models.SetLog{set}); err != nil {
		h.log.Error("mcp log_set", "error", err)
		return mcp.NewToolResultError("insert failed: " + err.Error()), nil
	}
	h.refresher.SetsChanged(ctx)

	result, err := mcp.NewToolResultJSON(set)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) deleteSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("id must be a valid UUID"), nil
	}

	if err := h.ds.DeleteSet(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return mcp.NewToolResultError("no set with that id"), nil
		}
		h.log.Error("mcp delete_set", "error", err)
		return mcp.NewToolResultError("delete failed: " + err.Error()), nil
	}
	h.refresher.SetsChanged(ctx)

	return mcp.NewToolResultText("deleted " + id.String()), nil
}

func (h *handlers) getStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.ds.GetDataStats(ctx)
	if err != nil {
		h.log.Error("mcp get_training_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
