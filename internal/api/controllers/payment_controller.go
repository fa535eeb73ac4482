package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"khidma/internal/models/request_models"
	"khidma/internal/services"
	"khidma/pkg/utils"
)

type PaymentController struct {
	reconcileService services.ReconcileServiceInterface
}

func NewPaymentController(reconcileService services.ReconcileServiceInterface) *PaymentController {
	return &PaymentController{reconcileService: reconcileService}
}

// HandleCallback receives the gateway's server-to-server webhook. Errors
// answer non-2xx on purpose so the gateway's retry mechanism re-delivers.
func (p *PaymentController) HandleCallback(c *gin.Context) {
	var notification request_models.GatewayNotification
	if err := c.ShouldBindJSON(&notification); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	resp, err := p.reconcileService.HandleCallback(c.Request.Context(), &notification)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Callback processed")
}

// HandleReturn receives the browser redirect back from the hosted payment
// page. Parameters may arrive as query values (GET) or form fields (POST).
func (p *PaymentController) HandleReturn(c *gin.Context) {
	params := request_models.ReturnParams{
		PaymentID: c.Query("payment_id"),
		TranRef:   c.Query("tranRef"),
		CartID:    c.Query("cartId"),
	}
	if c.Request.Method == http.MethodPost {
		if params.PaymentID == "" {
			params.PaymentID = c.PostForm("payment_id")
		}
		if params.TranRef == "" {
			params.TranRef = c.PostForm("tranRef")
		}
		if params.CartID == "" {
			params.CartID = c.PostForm("cartId")
		}
	}

	resp, err := p.reconcileService.HandleReturn(c.Request.Context(), &params)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Payment result confirmed")
}
