package handler

import (
	"time"

	"main/dto"
	"main/model"
	"main/repository"
	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func RegistrationHandler(c *gin.Context, userRepo *repository.UserRepo) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if _, err := userRepo.FindUserByUsername(c.Request.Context(), req.Username); err == nil {
		utils.Conflict(c, "Username already taken")
		return
	}

	hashed, err := services.HashPassword(req.Password)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	user := &model.User{
		UserID:    utils.NewID(),
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashed,
		CreatedAt: time.Now(),
	}

	if err := userRepo.AddUser(c.Request.Context(), user); err != nil {
		utils.InternalError(c, "Failed to create user")
		return
	}
	utils.Created(c, gin.H{"user_id": user.UserID})
}
