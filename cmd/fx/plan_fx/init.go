package plan_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"khidma/internal/api/controllers"
	"khidma/internal/repositories"
	"khidma/internal/services"
)

var Module = fx.Provide(
	providePlanRepository,
	providePlanService,
	providePlanController,
)

func providePlanRepository(db *gorm.DB) repositories.IPlanRepository {
	return repositories.NewPlanRepository(db)
}

func providePlanService(planRepo repositories.IPlanRepository) services.PlanServiceInterface {
	return services.NewPlanService(planRepo)
}

func providePlanController(planService services.PlanServiceInterface) *controllers.PlanController {
	return controllers.NewPlanController(planService)
}
