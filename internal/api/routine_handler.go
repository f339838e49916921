package api

import (
	"fmt"
	"net/http"
	"strconv"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type RoutineHandler struct {
	routineService service.RoutineService
}

func NewRoutineHandler(routineService service.RoutineService) *RoutineHandler {
	return &RoutineHandler{routineService: routineService}
}

// --- DTOs ---

// RoutineRequest is the body for creating or replacing a routine. Days may
// be omitted on create; the plan then starts with DaysPerWeek blank days.
type RoutineRequest struct {
	Name              string              `json:"name" binding:"required"`
	Description       string              `json:"description"`
	Level             domain.Level        `json:"level" binding:"required"`
	Goal              domain.Goal         `json:"goal" binding:"required"`
	DaysPerWeek       int                 `json:"daysPerWeek" binding:"required"`
	EstimatedDuration int                 `json:"estimatedDuration" binding:"required"`
	Workouts          []domain.RoutineDay `json:"workouts"`
	Tags              []string            `json:"tags"`
	IsPublic          bool                `json:"isPublic"`
}

func (r *RoutineRequest) toPlan() *domain.RoutinePlan {
	return &domain.RoutinePlan{
		Name:              r.Name,
		Description:       r.Description,
		Level:             r.Level,
		Goal:              r.Goal,
		DaysPerWeek:       r.DaysPerWeek,
		EstimatedDuration: r.EstimatedDuration,
		Days:              r.Workouts,
		Tags:              r.Tags,
		IsPublic:          r.IsPublic,
	}
}

type ResizeRequest struct {
	DaysPerWeek int  `json:"daysPerWeek" binding:"required"`
	Confirm     bool `json:"confirm"`
}

// ResizeResponse reports the outcome of a resize. A rejected shrink is not
// an error: the unchanged routine comes back with rejected set so the client
// can ask the user to confirm.
type ResizeResponse struct {
	Routine      *domain.RoutinePlan `json:"routine"`
	Applied      bool                `json:"applied"`
	Rejected     bool                `json:"rejected"`
	PreviousDays int                 `json:"previousDays"`
	CurrentDays  int                 `json:"currentDays"`
}

// --- Handler Methods ---

// ListTemplates godoc
// @Summary Browse public routine templates
// @Tags Routines
// @Produce json
// @Param goal query string false "Training goal, e.g. strength or endurance"
// @Param level query string false "beginner, intermediate or advanced"
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} service.TemplatePage
// @Failure 400 {object} gin.H "Invalid filter"
// @Router /routines/templates [get]
func (h *RoutineHandler) ListTemplates(c *gin.Context) {
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
	filter := repository.TemplateFilter{
		Goal:  domain.Goal(c.Query("goal")),
		Level: domain.Level(c.Query("level")),
	}

	result, err := h.routineService.ListTemplates(c.Request.Context(), filter, page, limit)
	if err != nil {
		respondError(c, err, "Failed to retrieve templates.")
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListMine godoc
// @Summary List the caller's routines, most recently edited first
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.RoutinePlan
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /routines [get]
func (h *RoutineHandler) ListMine(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	plans, err := h.routineService.ListMine(c.Request.Context(), user)
	if err != nil {
		respondError(c, err, "Failed to retrieve routines.")
		return
	}
	if plans == nil {
		plans = []domain.RoutinePlan{}
	}
	c.JSON(http.StatusOK, plans)
}

// GetRoutine godoc
// @Summary Get a routine the caller owns or a public template
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Param id path string true "Routine ID"
// @Success 200 {object} domain.RoutinePlan
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Routine not found"
// @Router /routines/{id} [get]
func (h *RoutineHandler) GetRoutine(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	plan, err := h.routineService.Get(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err, "Failed to retrieve routine.")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// CreateRoutine godoc
// @Summary Create a routine
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param routine body RoutineRequest true "Routine"
// @Success 201 {object} domain.RoutinePlan
// @Failure 400 {object} gin.H "Invalid input"
// @Router /routines [post]
func (h *RoutineHandler) CreateRoutine(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req RoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	plan, err := h.routineService.Create(c.Request.Context(), user, req.toPlan())
	if err != nil {
		respondError(c, err, "Failed to create routine.")
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// UpdateRoutine godoc
// @Summary Replace a routine the caller owns
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Routine ID"
// @Param routine body RoutineRequest true "Routine"
// @Success 200 {object} domain.RoutinePlan
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Routine not found"
// @Router /routines/{id} [put]
func (h *RoutineHandler) UpdateRoutine(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	var req RoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	plan, err := h.routineService.Update(c.Request.Context(), user, id, req.toPlan())
	if err != nil {
		respondError(c, err, "Failed to update routine.")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// DeleteRoutine godoc
// @Summary Delete a routine the caller owns
// @Tags Routines
// @Security BearerAuth
// @Param id path string true "Routine ID"
// @Success 204
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Routine not found"
// @Router /routines/{id} [delete]
func (h *RoutineHandler) DeleteRoutine(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.routineService.Delete(c.Request.Context(), user, id); err != nil {
		respondError(c, err, "Failed to delete routine.")
		return
	}
	c.Status(http.StatusNoContent)
}

// CloneRoutine godoc
// @Summary Copy a template into the caller's routines
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Success 201 {object} domain.RoutinePlan
// @Failure 400 {object} gin.H "Not a template"
// @Failure 404 {object} gin.H "Routine not found"
// @Router /routines/{id}/clone [post]
func (h *RoutineHandler) CloneRoutine(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	plan, err := h.routineService.Clone(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err, "Failed to clone routine.")
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// ResizeRoutine godoc
// @Summary Change the number of training days
// @Description Growing appends blank days. Shrinking drops trailing days and needs confirm=true; otherwise the routine is returned unchanged with rejected=true.
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Routine ID"
// @Param body body ResizeRequest true "New day count"
// @Success 200 {object} ResizeResponse
// @Failure 400 {object} gin.H "Day count out of range"
// @Failure 403 {object} gin.H "Forbidden"
// @Router /routines/{id}/days [post]
func (h *RoutineHandler) ResizeRoutine(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	var req ResizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	plan, res, err := h.routineService.Resize(c.Request.Context(), user, id, req.DaysPerWeek, req.Confirm)
	if err != nil {
		respondError(c, err, "Failed to resize routine.")
		return
	}
	c.JSON(http.StatusOK, ResizeResponse{
		Routine:      plan,
		Applied:      res.Applied,
		Rejected:     res.Rejected,
		PreviousDays: res.Previous,
		CurrentDays:  res.Current,
	})
}

// queryInt reads an optional integer query parameter; absent means 0.
func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return n, nil
}
