package handler

import (
	"context"
	"time"

	"main/dto"
	"main/model"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// SubscriptionsStore is the slice of repository.SubscriptionsRepo the
// subscription handlers need.
type SubscriptionsStore interface {
	Upsert(ctx context.Context, sub *model.PushSubscription) error
	DeleteByUser(ctx context.Context, userID string) error
}

// Subscribe stores a push subscription for reminder delivery. Re-posting
// from the same browser replaces the stored row.
func Subscribe(c *gin.Context, repo SubscriptionsStore) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		utils.BadRequest(c, "Unknown timezone")
		return
	}

	sub := &model.PushSubscription{
		SubscriptionID: utils.NewID(),
		UserID:         userID.(string),
		Endpoint:       req.Endpoint,
		P256DH:         req.P256DH,
		Auth:           req.Auth,
		Timezone:       req.Timezone,
		CreatedAt:      time.Now(),
	}

	if err := repo.Upsert(c.Request.Context(), sub); err != nil {
		utils.InternalError(c, "Failed to store subscription")
		return
	}
	utils.Created(c, gin.H{"id": sub.SubscriptionID})
}

// Unsubscribe removes every subscription for the authenticated user.
func Unsubscribe(c *gin.Context, repo SubscriptionsStore) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing user ID")
		return
	}

	if err := repo.DeleteByUser(c.Request.Context(), userID.(string)); err != nil {
		utils.InternalError(c, "Failed to remove subscriptions")
		return
	}
	utils.Success(c, gin.H{"unsubscribed": true})
}
