package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"khidma/internal/models/db_models"
	"khidma/internal/services"
	"khidma/pkg/utils"
)

type PlanController struct {
	planService services.PlanServiceInterface
}

func NewPlanController(planService services.PlanServiceInterface) *PlanController {
	return &PlanController{planService: planService}
}

func (p *PlanController) ListPlans(c *gin.Context) {
	plans, err := p.planService.ListActive(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, plans, "Plans retrieved")
}

func (p *PlanController) GetPlan(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, "Invalid plan id")
		return
	}

	plan, err := p.planService.GetByID(c.Request.Context(), planID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, plan, "Plan retrieved")
}

// ComparePlans godoc
// @Summary Compare plans for a billing cycle
// @Param ids query string true "comma separated plan ids"
// @Param billing_cycle query string false "monthly or yearly"
// @Router /plans/compare [get]
func (p *PlanController) ComparePlans(c *gin.Context) {
	rawIDs := strings.Split(c.Query("ids"), ",")
	ids := make([]uuid.UUID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondError(c, http.StatusUnprocessableEntity, "Invalid plan id: "+raw)
			return
		}
		ids = append(ids, id)
	}

	cycle := db_models.BillingCycle(c.DefaultQuery("billing_cycle", string(db_models.CycleMonthly)))
	if cycle != db_models.CycleMonthly && cycle != db_models.CycleYearly {
		utils.RespondError(c, http.StatusUnprocessableEntity, "billing_cycle must be monthly or yearly")
		return
	}

	comparison, err := p.planService.Compare(c.Request.Context(), ids, cycle)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, comparison, "Plans compared")
}
