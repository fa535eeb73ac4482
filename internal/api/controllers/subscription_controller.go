package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"khidma/internal/models/request_models"
	"khidma/internal/services"
	"khidma/pkg/utils"
)

type SubscriptionController struct {
	subscriptionService services.SubscriptionServiceInterface
}

func NewSubscriptionController(subscriptionService services.SubscriptionServiceInterface) *SubscriptionController {
	return &SubscriptionController{subscriptionService: subscriptionService}
}

func principalID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString("provider_id")
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Subscribe godoc
// @Summary Subscribe the authenticated provider to a plan
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Router /subscriptions/subscribe [post]
func (s *SubscriptionController) Subscribe(c *gin.Context) {
	providerID, ok := principalID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Missing provider principal")
		return
	}

	var request request_models.SubscribeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, "Invalid request payload")
		return
	}

	resp, err := s.subscriptionService.Subscribe(c.Request.Context(), providerID, &request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, resp, "Subscription created, redirect to complete payment")
}

func (s *SubscriptionController) Cancel(c *gin.Context) {
	providerID, ok := principalID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Missing provider principal")
		return
	}

	var request request_models.CancelRequest
	if err := c.ShouldBindJSON(&request); err != nil && err.Error() != "EOF" {
		utils.RespondError(c, http.StatusUnprocessableEntity, "Invalid request payload")
		return
	}

	resp, err := s.subscriptionService.Cancel(c.Request.Context(), providerID, request.Reason)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Subscription cancelled, access retained until period end")
}

func (s *SubscriptionController) MySubscription(c *gin.Context) {
	providerID, ok := principalID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Missing provider principal")
		return
	}

	resp, err := s.subscriptionService.MySubscription(c.Request.Context(), providerID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Subscription retrieved")
}
