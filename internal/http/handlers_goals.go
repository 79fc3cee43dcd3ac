package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"pennypilot/internal/core"
	"pennypilot/internal/services"
)

type createGoalRequest struct {
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	Frequency string `json:"frequency"`
	StartDate string `json:"startDate,omitempty"`
	DueDate   string `json:"dueDate"`
}

type editGoalRequest struct {
	Name      *string `json:"name,omitempty"`
	Amount    *string `json:"amount,omitempty"`
	Frequency *string `json:"frequency,omitempty"`
	StartDate *string `json:"startDate,omitempty"`
	DueDate   *string `json:"dueDate,omitempty"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid amount: " + req.Amount})
		return
	}

	input := services.CreateGoalInput{
		Name:      sanitizeInput(req.Name),
		Amount:    core.Money{Cents: cents},
		Frequency: core.Frequency(req.Frequency),
	}
	if req.StartDate != "" {
		start, err := core.ParseDate(req.StartDate)
		if err != nil {
			writeError(w, err)
			return
		}
		input.StartDate = start
	}
	if req.DueDate != "" {
		due, err := core.ParseDate(req.DueDate)
		if err != nil {
			writeError(w, err)
			return
		}
		input.DueDate = due
	}

	goal, err := s.goals.CreateGoal(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidateViews()
	writeJSON(w, http.StatusCreated, services.BuildGoalView(goal, true))
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals := s.goals.Goals()
	activeID := s.goals.ActiveGoalID()

	views := make([]services.GoalView, len(goals))
	for i, g := range goals {
		views[i] = services.BuildGoalView(g, g.ID == activeID)
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := s.goals.Goal(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, services.BuildGoalView(goal, goal.ID == s.goals.ActiveGoalID()))
}

func (s *Server) handleEditGoal(w http.ResponseWriter, r *http.Request) {
	var req editGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	var patch services.GoalPatch
	if req.Name != nil {
		name := sanitizeInput(*req.Name)
		patch.Name = &name
	}
	if req.Amount != nil {
		cents, err := core.ParseDecimalToCents(*req.Amount)
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid amount: " + *req.Amount})
			return
		}
		patch.Amount = &core.Money{Cents: cents}
	}
	if req.Frequency != nil {
		freq := core.Frequency(*req.Frequency)
		patch.Frequency = &freq
	}
	if req.StartDate != nil {
		start, err := core.ParseDate(*req.StartDate)
		if err != nil {
			writeError(w, err)
			return
		}
		patch.StartDate = &start
	}
	if req.DueDate != nil {
		due, err := core.ParseDate(*req.DueDate)
		if err != nil {
			writeError(w, err)
			return
		}
		patch.DueDate = &due
	}

	goal, err := s.goals.EditGoal(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidateViews()
	writeJSON(w, http.StatusOK, services.BuildGoalView(goal, goal.ID == s.goals.ActiveGoalID()))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.goals.DeleteGoal(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	s.invalidateViews()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelectGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.goals.SelectGoal(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	s.invalidateViews()
	writeJSON(w, http.StatusOK, map[string]string{"activeGoalId": s.goals.ActiveGoalID()})
}

func (s *Server) handleCompleteMilestone(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid milestone index"})
		return
	}

	goal, err := s.goals.CompleteMilestone(r.Context(), r.PathValue("id"), index)
	if err != nil {
		writeError(w, err)
		return
	}

	s.invalidateViews()
	writeJSON(w, http.StatusOK, services.BuildGoalView(goal, goal.ID == s.goals.ActiveGoalID()))
}

// handleDashboard serves the aggregate view. The view is cached between
// mutations; the celebration flag is re-derived on every request so the
// cache can never replay a consumed celebration.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if view, found := s.dashboardCache.Get(dashboardCacheKey); found {
		slog.DebugContext(ctx, "Dashboard cache hit")
		if view.ActiveGoal != nil {
			view.Celebrate = s.goals.ShouldCelebrate(ctx, view.ActiveGoal.ID)
		}
		writeJSON(w, http.StatusOK, view)
		return
	}

	view := s.goals.Dashboard(ctx)
	cached := view
	cached.Celebrate = false
	s.dashboardCache.Set(dashboardCacheKey, cached)

	writeJSON(w, http.StatusOK, view)
}
