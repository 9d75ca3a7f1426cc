package handler

import (
	"errors"

	"main/dto"
	"main/model"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type HabitHandler struct {
	service *usecase.HabitService
}

func NewHabitHandler(service *usecase.HabitService) *HabitHandler {
	return &HabitHandler{service: service}
}

func (h *HabitHandler) GetHabits(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	habits, err := h.service.GetUserHabits(c.Request.Context(), userID.(string))
	if err != nil {
		utils.InternalError(c, "Failed to fetch habits")
		return
	}
	utils.Success(c, dto.ToHabitResponses(habits))
}

func (h *HabitHandler) CreateHabit(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req dto.CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	habit := &model.Habit{
		UserID:      userID.(string),
		Name:        req.Name,
		Description: req.Description,
		Color:       model.HabitColor(req.Color),
		Icon:        req.Icon,
	}

	if err := h.service.CreateHabit(c.Request.Context(), habit); err != nil {
		switch {
		case model.IsValidation(err):
			utils.BadRequest(c, err.Error())
		case errors.Is(err, model.ErrHabitLimit):
			utils.Conflict(c, "You have reached the maximum of 10 habits")
		default:
			utils.InternalError(c, "Failed to create habit")
		}
		return
	}
	utils.Created(c, dto.ToHabitResponse(habit))
}

func (h *HabitHandler) UpdateHabit(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}
	habitID := c.Param("id")

	var req dto.UpdateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	updates := &model.Habit{
		Name:        req.Name,
		Description: req.Description,
		Color:       model.HabitColor(req.Color),
		Icon:        req.Icon,
	}

	err := h.service.UpdateHabit(c.Request.Context(), habitID, userID.(string), updates)
	if err != nil {
		switch {
		case model.IsValidation(err):
			utils.BadRequest(c, err.Error())
		case errors.Is(err, model.ErrNotFound):
			utils.NotFound(c, "Habit not found")
		default:
			utils.InternalError(c, "Failed to update habit")
		}
		return
	}

	habit, err := h.service.Habits.GetHabit(c.Request.Context(), habitID, userID.(string))
	if err != nil {
		utils.InternalError(c, "Failed to fetch updated habit")
		return
	}
	utils.Success(c, dto.ToHabitResponse(habit))
}

func (h *HabitHandler) DeleteHabit(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}
	habitID := c.Param("id")

	err := h.service.DeleteHabit(c.Request.Context(), habitID, userID.(string))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			utils.NotFound(c, "Habit not found")
			return
		}
		utils.InternalError(c, "Failed to delete habit")
		return
	}
	utils.Success(c, gin.H{"deleted": habitID})
}
