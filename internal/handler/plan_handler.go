package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/affcms/festival-api/internal/service"
	appErrors "github.com/affcms/festival-api/pkg/errors"
	"github.com/affcms/festival-api/pkg/response"
)

// PlanHandler manages session plan endpoints across the whole
// plan → day → screen → slot hierarchy.
type PlanHandler struct {
	service *service.PlanService
}

// NewPlanHandler constructs handler.
func NewPlanHandler(svc *service.PlanService) *PlanHandler {
	return &PlanHandler{service: svc}
}

// List godoc
// @Summary List session plans
// @Tags Plans
// @Produce json
// @Param visible query bool false "Only publicly visible plans"
// @Success 200 {object} response.Envelope
// @Router /plans [get]
func (h *PlanHandler) List(c *gin.Context) {
	visibleOnly := c.Query("visible") == "true"
	plans, err := h.service.List(c.Request.Context(), visibleOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plans)
}

// Create godoc
// @Summary Create session plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param payload body service.CreatePlanRequest true "Plan payload"
// @Success 201 {object} response.Envelope
// @Router /plans [post]
func (h *PlanHandler) Create(c *gin.Context) {
	var req service.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	plan, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, plan)
}

// Get godoc
// @Summary Get session plan
// @Tags Plans
// @Produce json
// @Param planId path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Router /plans/{planId} [get]
func (h *PlanHandler) Get(c *gin.Context) {
	plan, err := h.service.Get(c.Request.Context(), c.Param("planId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan)
}

// Update godoc
// @Summary Update session plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param planId path string true "Plan ID"
// @Param payload body service.UpdatePlanRequest true "Plan payload"
// @Success 200 {object} response.Envelope
// @Router /plans/{planId} [put]
func (h *PlanHandler) Update(c *gin.Context) {
	var req service.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	plan, err := h.service.Update(c.Request.Context(), c.Param("planId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan)
}

// Delete godoc
// @Summary Delete session plan and its whole tree
// @Tags Plans
// @Produce json
// @Param planId path string true "Plan ID"
// @Success 204
// @Router /plans/{planId} [delete]
func (h *PlanHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("planId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListDays godoc
// @Summary List days of a plan
// @Tags Days
// @Produce json
// @Param planId path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Router /plans/{planId}/days [get]
func (h *PlanHandler) ListDays(c *gin.Context) {
	days, err := h.service.ListDays(c.Request.Context(), c.Param("planId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, days)
}

// CreateDay godoc
// @Summary Append a day to a plan
// @Tags Days
// @Accept json
// @Produce json
// @Param planId path string true "Plan ID"
// @Param payload body service.CreateDayRequest true "Day payload"
// @Success 201 {object} response.Envelope
// @Router /plans/{planId}/days [post]
func (h *PlanHandler) CreateDay(c *gin.Context) {
	var req service.CreateDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	day, err := h.service.CreateDay(c.Request.Context(), c.Param("planId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, day)
}

// GetDay godoc
// @Summary Get a day of a plan
// @Tags Days
// @Produce json
// @Param planId path string true "Plan ID"
// @Param dayId path string true "Day ID"
// @Success 200 {object} response.Envelope
// @Router /plans/{planId}/days/{dayId} [get]
func (h *PlanHandler) GetDay(c *gin.Context) {
	day, err := h.service.GetDay(c.Request.Context(), c.Param("planId"), c.Param("dayId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, day)
}

// UpdateDay godoc
// @Summary Update a day in place
// @Tags Days
// @Accept json
// @Produce json
// @Param planId path string true "Plan ID"
// @Param dayId path string true "Day ID"
// @Param payload body service.UpdateDayRequest true "Day payload"
// @Success 200 {object} response.Envelope
// @Router /plans/{planId}/days/{dayId} [put]
func (h *PlanHandler) UpdateDay(c *gin.Context) {
	var req service.UpdateDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	day, err := h.service.UpdateDay(c.Request.Context(), c.Param("planId"), c.Param("dayId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, day)
}

// DeleteDay godoc
// @Summary Delete a day, cascading to its screens and slots
// @Tags Days
// @Produce json
// @Param planId path string true "Plan ID"
// @Param dayId path string true "Day ID"
// @Success 204
// @Router /plans/{planId}/days/{dayId} [delete]
func (h *PlanHandler) DeleteDay(c *gin.Context) {
	if err := h.service.DeleteDay(c.Request.Context(), c.Param("planId"), c.Param("dayId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListScreens godoc
// @Summary List screens of a day
// @Tags Screens
// @Produce json
// @Param planId path string true "Plan ID"
// @Param dayId path string true "Day ID"
// @Success 200 {object} response.Envelope
// @Router /plans/{planId}/days/{dayId}/screens [get]
func (h *PlanHandler) ListScreens(c *gin.Context) {
	screens, err := h.service.ListScreens(c.Request.Context(), c.Param("planId"), c.Param("dayId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, screens)
}

// CreateScreen godoc
// @Summary Append a screen to a day
// @Tags Screens
// @Accept json
// @Produce json
// @Param planId path string true "Plan ID"
// @Param dayId path string true "Day ID"
// @Param payload body service.CreateScreenRequest true "Screen payload"
// @Success 201 {object} response.Envelope
// @Router /plans/{planId}/days/{dayId}/screens [post]
func (h *PlanHandler) CreateScreen(c *gin.Context) {
	var req service.CreateScreenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	screen, err := h.service.CreateScreen(c.Request.Context(), c.Param("planId"), c.Param("dayId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, screen)
}

// GetScreen godoc
// @Summary Get a screen of a day
// @Tags Screens
// @Produce json
// @Param planId path string true "Plan ID"
// @Param dayId path string true "Day ID"
// @Param screenId path string true "Screen ID"
// @Success 200 {object} response.Envelope
// @Router /plans/{planId}/days/{dayId}/screens/{screenId} [get]
func (h *PlanHandler) GetScreen(c *gin.Context) {
	screen, err := h.service.GetScreen(c.Request.Context(), c.Param("planId"), c.Param("dayId"), c.Param("screenId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, screen)
}

// UpdateScreen godoc
// @Summary Rename a screen
// @Tags Screens
// @Accept json
// @Produce json
// @Param planId path string true "Plan ID"
// @Param dayId path string true "Day ID"
// @Param screenId path string true "Screen ID"
// @Param payload body service.UpdateScreenRequest true "Screen payload"
// @Success 200 {object} response.Envelope
// @Router /plans/{planId}/days/{dayId}/screens/{screenId} [put]
func (h *PlanHandler) UpdateScreen(c *gin.Context) {
	var req service.UpdateScreenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	screen, err := h.service.UpdateScreen(c.Request.Context(), c.Param("planId"), c.Param("dayId"), c.Param("screenId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, screen)
}

// DeleteScreen godoc
// @Summary Delete a screen, cascading to its slots
// @Tags Screens
// @Produce json
// @Param planId path string true "Plan ID"
// @Param dayId path string true "Day ID"
// @Param screenId path string true "Screen ID"
// @Success 204
// @Router /plans/{planId}/days/{dayId}/screens/{screenId} [delete]
func (h *PlanHandler) DeleteScreen(c *gin.Context) {
	if err := h.service.DeleteScreen(c.Request.Context(), c.Param("planId"), c.Param("dayId"), c.Param("screenId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListSlots godoc
// @Summary List slots of a screen
// @Tags Slots
// @Produce json
// @Param planId path string true "Plan ID"
// @Param dayId path string true "Day ID"
// @Param screenId path string true "Screen ID"
// @Success 200 {object} response.Envelope
// @Router /plans/{planId}/days/{dayId}/screens/{screenId}/slots [get]
func (h *PlanHandler) ListSlots(c *gin.Context) {
	slots, err := h.service.ListSlots(c.Request.Context(), c.Param("planId"), c.Param("dayId"), c.Param("screenId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots)
}

// CreateSlot godoc
// @Summary Schedule a slot on a screen
// @Tags Slots
// @Accept json
// @Produce json
// @Param planId path string true "Plan ID"
// @Param dayId path string true "Day ID"
// @Param screenId path string true "Screen ID"
// @Param payload body service.CreateSlotRequest true "Slot payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Time range overlaps a sibling slot"
// @Router /plans/{planId}/days/{dayId}/screens/{screenId}/slots [post]
func (h *PlanHandler) CreateSlot(c *gin.Context) {
	var req service.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slot, err := h.service.CreateSlot(c.Request.Context(), c.Param("planId"), c.Param("dayId"), c.Param("screenId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// GetSlot godoc
// @Summary Get a slot of a screen
// @Tags Slots
// @Produce json
// @Param planId path string true "Plan ID"
// @Param dayId path string true "Day ID"
// @Param screenId path string true "Screen ID"
// @Param slotId path string true "Slot ID"
// @Success 200 {object} response.Envelope
// @Router /plans/{planId}/days/{dayId}/screens/{screenId}/slots/{slotId} [get]
func (h *PlanHandler) GetSlot(c *gin.Context) {
	slot, err := h.service.GetSlot(c.Request.Context(), c.Param("planId"), c.Param("dayId"), c.Param("screenId"), c.Param("slotId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot)
}

// UpdateSlot godoc
// @Summary Update a slot, re-validating its time range
// @Tags Slots
// @Accept json
// @Produce json
// @Param planId path string true "Plan ID"
// @Param dayId path string true "Day ID"
// @Param screenId path string true "Screen ID"
// @Param slotId path string true "Slot ID"
// @Param payload body service.UpdateSlotRequest true "Slot payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Time range overlaps a sibling slot"
// @Router /plans/{planId}/days/{dayId}/screens/{screenId}/slots/{slotId} [put]
func (h *PlanHandler) UpdateSlot(c *gin.Context) {
	var req service.UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slot, err := h.service.UpdateSlot(c.Request.Context(), c.Param("planId"), c.Param("dayId"), c.Param("screenId"), c.Param("slotId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot)
}

// DeleteSlot godoc
// @Summary Delete a slot
// @Tags Slots
// @Produce json
// @Param planId path string true "Plan ID"
// @Param dayId path string true "Day ID"
// @Param screenId path string true "Screen ID"
// @Param slotId path string true "Slot ID"
// @Success 204
// @Router /plans/{planId}/days/{dayId}/screens/{screenId}/slots/{slotId} [delete]
func (h *PlanHandler) DeleteSlot(c *gin.Context) {
	if err := h.service.DeleteSlot(c.Request.Context(), c.Param("planId"), c.Param("dayId"), c.Param("screenId"), c.Param("slotId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
