package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"khidma/internal/models/request_models"
	"khidma/internal/services"
	"khidma/pkg/utils"
)

type AccountController struct {
	accountService services.AccountServiceInterface
}

func NewAccountController(accountService services.AccountServiceInterface) *AccountController {
	return &AccountController{accountService: accountService}
}

// Register godoc
// @Summary Register a service provider account
// @Tags Auth
// @Accept json
// @Produce json
// @Router /auth/register [post]
func (a *AccountController) Register(c *gin.Context) {
	var request request_models.RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, "Invalid request payload")
		return
	}

	token, err := a.accountService.Register(c.Request.Context(), &request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, gin.H{"token": token}, "Provider registered")
}

func (a *AccountController) Login(c *gin.Context) {
	var request request_models.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, "Invalid request payload")
		return
	}

	token, err := a.accountService.Login(c.Request.Context(), &request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"token": token}, "Login successful")
}
