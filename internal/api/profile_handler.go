package api

import (
	"net/http"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// ProfileRequest is a partial update: omitted fields keep their stored
// value, an empty list clears one.
type ProfileRequest struct {
	FitnessLevel      *domain.Level               `json:"fitnessLevel" binding:"omitempty,oneof=beginner intermediate advanced"`
	Goals             []domain.Goal               `json:"goals"`
	HealthMetrics     *domain.HealthMetrics       `json:"healthMetrics"`
	MedicalConditions []string                    `json:"medicalConditions"`
	Injuries          []string                    `json:"injuries"`
	Preferences       *domain.TrainingPreferences `json:"preferences"`
}

type ProgressRequest struct {
	Weight            *float64                 `json:"weight"`
	BodyFatPercentage *float64                 `json:"bodyFatPercentage"`
	Measurements      *domain.BodyMeasurements `json:"measurements"`
}

type ProgressHistoryResponse struct {
	ProgressHistory []domain.ProgressEntry `json:"progressHistory"`
}

// GetProfile godoc
// @Summary Get the caller's profile and progress history
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ProfileView
// @Failure 404 {object} gin.H "User not found"
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := h.profileService.Get(c.Request.Context(), user)
	if err != nil {
		respondError(c, err, "Failed to retrieve profile.")
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateProfile godoc
// @Summary Update parts of the caller's profile
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body ProfileRequest true "Fields to change"
// @Success 200 {object} service.ProfileView
// @Failure 400 {object} gin.H "Invalid input"
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	view, err := h.profileService.Update(c.Request.Context(), user, service.ProfilePatch{
		FitnessLevel:      req.FitnessLevel,
		Goals:             req.Goals,
		HealthMetrics:     req.HealthMetrics,
		MedicalConditions: req.MedicalConditions,
		Injuries:          req.Injuries,
		Preferences:       req.Preferences,
	})
	if err != nil {
		respondError(c, err, "Failed to update profile.")
		return
	}
	c.JSON(http.StatusOK, view)
}

// AddProgress godoc
// @Summary Record a body check-in
// @Description The entry is dated with the server time.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param entry body ProgressRequest true "Measurements"
// @Success 201 {object} ProgressHistoryResponse
// @Failure 400 {object} gin.H "Empty or invalid entry"
// @Router /profile/progress [post]
func (h *ProfileHandler) AddProgress(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	history, err := h.profileService.AddProgress(c.Request.Context(), user, domain.ProgressEntry{
		Weight:            req.Weight,
		BodyFatPercentage: req.BodyFatPercentage,
		Measurements:      req.Measurements,
	})
	if err != nil {
		respondError(c, err, "Failed to add progress.")
		return
	}
	c.JSON(http.StatusCreated, ProgressHistoryResponse{ProgressHistory: history})
}

// ListProgress godoc
// @Summary List the caller's body check-ins, oldest first
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProgressHistoryResponse
// @Router /profile/progress [get]
func (h *ProfileHandler) ListProgress(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	history, err := h.profileService.Progress(c.Request.Context(), user)
	if err != nil {
		respondError(c, err, "Failed to retrieve progress.")
		return
	}
	if history == nil {
		history = []domain.ProgressEntry{}
	}
	c.JSON(http.StatusOK, ProgressHistoryResponse{ProgressHistory: history})
}
