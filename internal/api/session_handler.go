package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionHandler exposes live session tracking and the saved history.
type SessionHandler struct {
	sessionService service.SessionService
}

func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// --- DTOs ---

type StartSessionRequest struct {
	RoutineID string `json:"routineId" binding:"required"`
	// DayIndex is zero-based; a pointer so that day 0 passes "required".
	DayIndex *int      `json:"dayIndex" binding:"required"`
	Date     time.Time `json:"date"`
}

type TimerRequest struct {
	Action  service.TimerAction `json:"action" binding:"required"`
	Confirm bool                `json:"confirm"`
}

// TimerResponse carries the session after a timer command. Applied is false
// when an unconfirmed reset left the session as it was.
type TimerResponse struct {
	*service.LiveSession
	Applied bool `json:"applied"`
}

type SetCompletionRequest struct {
	Completed bool `json:"completed"`
}

// SetValueRequest carries one metric edit. Value is decoded loosely: JSON
// numbers and numeric strings are accepted, anything else counts as 0.
type SetValueRequest struct {
	Field domain.Metric `json:"field" binding:"required"`
	Value any           `json:"value"`
}

func (r *SetValueRequest) number() float64 {
	switch v := r.Value.(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

type NotesRequest struct {
	Notes string `json:"notes"`
}

// SessionSummary is the history list item.
type SessionSummary struct {
	ID              string    `json:"id"`
	RoutineID       string    `json:"routineId"`
	WorkoutName     string    `json:"workoutName"`
	Date            time.Time `json:"date"`
	DurationSeconds int       `json:"duration"`
	Duration        string    `json:"formattedDuration"`
	Progress        int       `json:"progress"`
	Exercises       int       `json:"exerciseCount"`
}

func mapSessionSummaries(records []domain.SessionRecord) []SessionSummary {
	out := make([]SessionSummary, len(records))
	for i := range records {
		r := &records[i]
		out[i] = SessionSummary{
			ID:              r.ID.Hex(),
			RoutineID:       r.RoutineID.Hex(),
			WorkoutName:     r.WorkoutName,
			Date:            r.Date,
			DurationSeconds: r.DurationSeconds,
			Duration:        r.FormattedDuration(),
			Progress:        r.Progress,
			Exercises:       len(r.Exercises),
		}
	}
	return out
}

// --- Live session handlers ---

// StartSession godoc
// @Summary Start tracking a routine day
// @Description Materializes the chosen day into a fresh session. The timer starts idle.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body StartSessionRequest true "Routine and zero-based day index"
// @Success 201 {object} service.LiveSession
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 403 {object} gin.H "Routine not accessible"
// @Failure 404 {object} gin.H "Routine, day or exercise not found"
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	routineID, err := primitive.ObjectIDFromHex(req.RoutineID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid routineId format")
		return
	}

	live, err := h.sessionService.Start(c.Request.Context(), user, routineID, *req.DayIndex, req.Date)
	if err != nil {
		respondError(c, err, "Failed to start session.")
		return
	}
	c.JSON(http.StatusCreated, live)
}

// GetLiveSession godoc
// @Summary Current snapshot of a live session
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param handle path string true "Live session handle"
// @Success 200 {object} service.LiveSession
// @Failure 404 {object} gin.H "Unknown handle"
// @Router /sessions/live/{handle} [get]
func (h *SessionHandler) GetLiveSession(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	live, err := h.sessionService.Snapshot(user, c.Param("handle"))
	if err != nil {
		respondError(c, err, "Failed to read session.")
		return
	}
	c.JSON(http.StatusOK, live)
}

// Timer godoc
// @Summary Start, pause or reset the session timer
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param handle path string true "Live session handle"
// @Param body body TimerRequest true "Timer command"
// @Success 200 {object} TimerResponse
// @Failure 400 {object} gin.H "Unknown action"
// @Failure 409 {object} gin.H "Invalid transition"
// @Router /sessions/live/{handle}/timer [post]
func (h *SessionHandler) Timer(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req TimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	live, applied, err := h.sessionService.Timer(user, c.Param("handle"), req.Action, req.Confirm)
	if err != nil {
		respondError(c, err, "Failed to update timer.")
		return
	}
	c.JSON(http.StatusOK, TimerResponse{LiveSession: live, Applied: applied})
}

// SetCompletion godoc
// @Summary Mark a set done or not done
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param handle path string true "Live session handle"
// @Param ex path int true "Exercise index"
// @Param set path int true "Set index"
// @Param body body SetCompletionRequest true "Completion flag"
// @Success 200 {object} service.LiveSession
// @Failure 409 {object} gin.H "Index out of range"
// @Router /sessions/live/{handle}/exercises/{ex}/sets/{set}/completion [put]
func (h *SessionHandler) SetCompletion(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	ex, ok := parseIndexParam(c, "ex")
	if !ok {
		return
	}
	set, ok := parseIndexParam(c, "set")
	if !ok {
		return
	}
	var req SetCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	live, err := h.sessionService.ToggleSet(user, c.Param("handle"), ex, set, req.Completed)
	if err != nil {
		respondError(c, err, "Failed to update set.")
		return
	}
	c.JSON(http.StatusOK, live)
}

// SetValue godoc
// @Summary Record reps, weight, duration or distance for a set
// @Description Missing, non-numeric, non-finite or negative values are stored as 0.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param handle path string true "Live session handle"
// @Param ex path int true "Exercise index"
// @Param set path int true "Set index"
// @Param body body SetValueRequest true "Field and value"
// @Success 200 {object} service.LiveSession
// @Failure 400 {object} gin.H "Field not tracked by the exercise"
// @Failure 409 {object} gin.H "Index out of range"
// @Router /sessions/live/{handle}/exercises/{ex}/sets/{set}/value [put]
func (h *SessionHandler) SetValue(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	ex, ok := parseIndexParam(c, "ex")
	if !ok {
		return
	}
	set, ok := parseIndexParam(c, "set")
	if !ok {
		return
	}
	var req SetValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	live, err := h.sessionService.UpdateSet(user, c.Param("handle"), ex, set, req.Field, req.number())
	if err != nil {
		respondError(c, err, "Failed to update set.")
		return
	}
	c.JSON(http.StatusOK, live)
}

// SaveSession godoc
// @Summary Stop the timer and persist the session
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param handle path string true "Live session handle"
// @Param body body NotesRequest false "Optional notes"
// @Success 201 {object} domain.SessionRecord
// @Failure 400 {object} gin.H "Nothing logged yet"
// @Failure 404 {object} gin.H "Unknown handle"
// @Router /sessions/live/{handle}/save [post]
func (h *SessionHandler) SaveSession(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req NotesRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return
		}
	}
	rec, err := h.sessionService.Save(c.Request.Context(), user, c.Param("handle"), req.Notes)
	if err != nil {
		respondError(c, err, "Failed to save session.")
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// AbandonSession godoc
// @Summary Discard a live session without saving
// @Tags Sessions
// @Security BearerAuth
// @Param handle path string true "Live session handle"
// @Success 204
// @Failure 404 {object} gin.H "Unknown handle"
// @Router /sessions/live/{handle} [delete]
func (h *SessionHandler) AbandonSession(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.sessionService.Abandon(user, c.Param("handle")); err != nil {
		respondError(c, err, "Failed to abandon session.")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- History handlers ---

// ListHistory godoc
// @Summary The caller's saved sessions, newest first
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {array} SessionSummary
// @Router /sessions [get]
func (h *SessionHandler) ListHistory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	page, err := queryInt(c, "page")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	records, err := h.sessionService.History(c.Request.Context(), user, page, limit)
	if err != nil {
		respondError(c, err, "Failed to retrieve sessions.")
		return
	}
	c.JSON(http.StatusOK, mapSessionSummaries(records))
}

// GetSession godoc
// @Summary One saved session
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} domain.SessionRecord
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Session not found"
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	rec, err := h.sessionService.GetRecord(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err, "Failed to retrieve session.")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// UpdateSessionNotes godoc
// @Summary Edit the notes of a saved session
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param body body NotesRequest true "Notes"
// @Success 200 {object} domain.SessionRecord
// @Failure 404 {object} gin.H "Session not found"
// @Router /sessions/{id} [patch]
func (h *SessionHandler) UpdateSessionNotes(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	var req NotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	rec, err := h.sessionService.UpdateNotes(c.Request.Context(), user, id, req.Notes)
	if err != nil {
		respondError(c, err, "Failed to update session.")
		return
	}
	c.JSON(http.StatusOK, rec)
}
