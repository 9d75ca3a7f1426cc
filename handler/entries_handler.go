package handler

import (
	"errors"
	"strings"

	"main/dto"
	"main/model"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type EntryHandler struct {
	service *usecase.EntryService
}

func NewEntryHandler(service *usecase.EntryService) *EntryHandler {
	return &EntryHandler{service: service}
}

// GetEntries returns completion entries for the requested habits and date
// range. Both bounds default to today, the hot path every client render
// hits.
func (h *EntryHandler) GetEntries(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var habitIDs []string
	if raw := c.Query("habit_ids"); raw != "" {
		habitIDs = strings.Split(raw, ",")
	}

	today := utils.Today()
	start := c.DefaultQuery("start", today)
	end := c.DefaultQuery("end", today)
	if !utils.ValidDateKey(start) || !utils.ValidDateKey(end) {
		utils.BadRequest(c, "Dates must be YYYY-MM-DD")
		return
	}

	entries, err := h.service.GetCompletions(c.Request.Context(), userID.(string), habitIDs, start, end)
	if err != nil {
		utils.InternalError(c, "Failed to fetch entries")
		return
	}
	utils.Success(c, dto.ToEntryResponses(entries))
}

// MarkEntry records a completion for (habit, date). Marking an already
// completed day returns the existing record: an idempotent upsert, not an
// error.
func (h *EntryHandler) MarkEntry(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}
	habitID := c.Param("id")

	var req dto.MarkEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.service.MarkComplete(c.Request.Context(), userID.(string), habitID, req.Date)
	if errors.Is(err, model.ErrNotFound) {
		utils.NotFound(c, "Habit not found")
		return
	}
	if err != nil {
		utils.InternalError(c, "Failed to mark completion")
		return
	}
	utils.Success(c, dto.ToEntryResponse(entry))
}

func (h *EntryHandler) UnmarkEntry(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}
	habitID := c.Param("id")
	date := c.Param("date")
	if !utils.ValidDateKey(date) {
		utils.BadRequest(c, "Date must be YYYY-MM-DD")
		return
	}

	err := h.service.UnmarkComplete(c.Request.Context(), userID.(string), habitID, date)
	if errors.Is(err, model.ErrNotFound) {
		utils.NotFound(c, "Habit not found")
		return
	}
	if err != nil {
		utils.InternalError(c, "Failed to unmark completion")
		return
	}
	utils.Success(c, gin.H{"habit_id": habitID, "date": date})
}
