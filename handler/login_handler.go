package handler

import (
	"errors"

	"main/dto"
	"main/model"
	"main/repository"
	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func LoginHandler(c *gin.Context, userRepo *repository.UserRepo) {
	platform := utils.ClientPlatform(c.Request.UserAgent())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := userRepo.FindUserByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			utils.TrackAuthAttempt("failure", "login", platform)
			utils.Unauthorized(c, "Invalid credentials")
			return
		}
		utils.InternalError(c, "Login failed")
		return
	}

	if !services.ComparePasswords(user.Password, req.Password) {
		utils.TrackAuthAttempt("failure", "login", platform)
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	token, err := services.GenerateJWT(user.UserID)
	if err != nil {
		utils.InternalError(c, "Failed to issue token")
		return
	}

	utils.TrackAuthAttempt("success", "login", platform)
	utils.Success(c, dto.LoginResponse{Token: token, UserID: user.UserID})
}
