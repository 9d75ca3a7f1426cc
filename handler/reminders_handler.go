package handler

import (
	"os"
	"strconv"

	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// RunReminders triggers the reminder fan-out. Meant to be hit by an
// external scheduler on an hourly cadence; guarded by a shared service key
// rather than a user token.
func RunReminders(c *gin.Context, service *usecase.ReminderService) {
	serviceKey := os.Getenv("REMINDER_SERVICE_KEY")
	if serviceKey == "" || c.GetHeader("X-Service-Key") != serviceKey {
		utils.Forbidden(c, "Invalid service key")
		return
	}

	hour := usecase.DefaultReminderHour
	if raw := c.Query("hour"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > 23 {
			utils.BadRequest(c, "Hour must be 0-23")
			return
		}
		hour = parsed
	}

	stats, err := service.DispatchDueReminders(c.Request.Context(), hour)
	if err != nil {
		utils.InternalError(c, "Reminder dispatch failed")
		return
	}
	utils.Success(c, stats)
}
