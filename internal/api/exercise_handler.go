package api

import (
	"net/http"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Description      string                 `json:"description,omitempty"`
	MuscleGroups     []string               `json:"muscleGroups,omitempty"`
	Difficulty       domain.Level           `json:"difficulty"`
	Category         string                 `json:"category"`
	Equipment        []string               `json:"equipment,omitempty"`
	Metrics          domain.ExerciseMetrics `json:"metrics"`
	SupportedMetrics []domain.Metric        `json:"supportedMetrics"`
	Tips             []string               `json:"tips,omitempty"`
	HasMedia         bool                   `json:"hasMedia"`
	CreatedAt        time.Time              `json:"createdAt"`
	UpdatedAt        time.Time              `json:"updatedAt"`
}

// MediaRequest names an object already uploaded to the media bucket.
type MediaRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
	Kind      string `json:"kind" binding:"required,oneof=image video"`
	AltText   string `json:"altText"`
}

// ExerciseRequest is the body for creating or replacing a catalog exercise.
// Omitting metrics gives sets and reps on create and keeps the stored value
// on update.
type ExerciseRequest struct {
	Name         string                  `json:"name" binding:"required"`
	Description  string                  `json:"description"`
	MuscleGroups []string                `json:"muscleGroups"`
	Difficulty   domain.Level            `json:"difficulty" binding:"required"`
	Category     string                  `json:"category" binding:"required"`
	Equipment    []string                `json:"equipment"`
	Metrics      *domain.ExerciseMetrics `json:"metrics"`
	Media        []MediaRequest          `json:"media" binding:"omitempty,dive"`
	Tips         []string                `json:"tips"`
}

func (r *ExerciseRequest) toInput() service.ExerciseInput {
	in := service.ExerciseInput{
		Name:         r.Name,
		Description:  r.Description,
		MuscleGroups: r.MuscleGroups,
		Difficulty:   r.Difficulty,
		Category:     r.Category,
		Equipment:    r.Equipment,
		Metrics:      r.Metrics,
		Tips:         r.Tips,
	}
	for _, m := range r.Media {
		in.Media = append(in.Media, domain.MediaItem{ObjectKey: m.ObjectKey, Kind: m.Kind, AltText: m.AltText})
	}
	return in
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:               ex.ID.Hex(),
		Name:             ex.Name,
		Description:      ex.Description,
		MuscleGroups:     ex.MuscleGroups,
		Difficulty:       ex.Difficulty,
		Category:         ex.Category,
		Equipment:        ex.Equipment,
		Metrics:          ex.Metrics,
		SupportedMetrics: ex.Metrics.Supported(),
		Tips:             ex.Tips,
		HasMedia:         len(ex.Media) > 0,
		CreatedAt:        ex.CreatedAt,
		UpdatedAt:        ex.UpdatedAt,
	}
}

// MapExercisesToResponse converts a slice of domain.Exercise to a slice of ExerciseResponse DTO.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

// --- Handler Methods ---

// ListExercises godoc
// @Summary Browse the exercise catalog
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param muscleGroup query string false "Muscle group"
// @Param category query string false "Category"
// @Param difficulty query string false "beginner, intermediate or advanced"
// @Success 200 {array} ExerciseResponse
// @Failure 400 {object} gin.H "Invalid filter"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	filter := domain.ExerciseFilter{
		MuscleGroup: c.Query("muscleGroup"),
		Category:    c.Query("category"),
		Difficulty:  domain.Level(c.Query("difficulty")),
	}
	exercises, err := h.exerciseService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to retrieve exercises.")
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// GetExercise godoc
// @Summary Get one catalog exercise
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 200 {object} ExerciseResponse
// @Failure 400 {object} gin.H "Invalid ID"
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/{id} [get]
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	id, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	ex, err := h.exerciseService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve exercise.")
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(ex))
}

// GetExerciseMedia godoc
// @Summary Get short-lived download links for an exercise's media
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 200 {array} service.MediaURL
// @Failure 404 {object} gin.H "Exercise not found"
// @Failure 503 {object} gin.H "Media storage not configured"
// @Router /exercises/{id}/media [get]
func (h *ExerciseHandler) GetExerciseMedia(c *gin.Context) {
	id, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	urls, err := h.exerciseService.MediaURLs(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to generate media links.")
		return
	}
	if urls == nil {
		urls = []service.MediaURL{}
	}
	c.JSON(http.StatusOK, urls)
}

// ListCategories godoc
// @Summary List the values accepted for muscle groups, difficulty, category and equipment
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.ExerciseVocabulary
// @Router /exercises/categories [get]
func (h *ExerciseHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.exerciseService.Vocabulary())
}

// CreateExercise godoc
// @Summary Add an exercise to the catalog
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body ExerciseRequest true "Exercise"
// @Success 201 {object} ExerciseResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 409 {object} gin.H "Name already taken"
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	ex, err := h.exerciseService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, err, "Failed to create exercise.")
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToResponse(ex))
}

// UpdateExercise godoc
// @Summary Replace a catalog exercise
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param exercise body ExerciseRequest true "Exercise"
// @Success 200 {object} ExerciseResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Exercise not found"
// @Failure 409 {object} gin.H "Name already taken"
// @Router /exercises/{id} [put]
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	id, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	ex, err := h.exerciseService.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondError(c, err, "Failed to update exercise.")
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(ex))
}

// DeleteExercise godoc
// @Summary Remove an exercise from the catalog
// @Tags Exercises
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 204
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/{id} [delete]
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	id, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.exerciseService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete exercise.")
		return
	}
	c.Status(http.StatusNoContent)
}
