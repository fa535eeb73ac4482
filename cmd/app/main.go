package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"khidma/cmd/fx/account_fx"
	"khidma/cmd/fx/db_fx"
	"khidma/cmd/fx/gateway_fx"
	"khidma/cmd/fx/logger_fx"
	"khidma/cmd/fx/payment_fx"
	"khidma/cmd/fx/plan_fx"
	"khidma/cmd/fx/subscription_fx"
	"khidma/cmd/fx/sweeper_fx"
	"khidma/internal/api/controllers"
	"khidma/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	app := fx.New(
		logger_fx.Module,
		db_fx.Module,
		gateway_fx.Module,
		plan_fx.Module,
		account_fx.Module,
		subscription_fx.Module,
		payment_fx.Module,
		sweeper_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	accountController *controllers.AccountController,
	planController *controllers.PlanController,
	subscriptionController *controllers.SubscriptionController,
	paymentController *controllers.PaymentController,
) *gin.Engine {
	r := gin.Default()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, accountController, planController, subscriptionController, paymentController)

	return r
}

func RegisterRoutes(
	r *gin.Engine,
	accountController *controllers.AccountController,
	planController *controllers.PlanController,
	subscriptionController *controllers.SubscriptionController,
	paymentController *controllers.PaymentController,
) {
	v1 := r.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", accountController.Register)
	authGroup.POST("/login", accountController.Login)

	plansGroup := v1.Group("/plans")
	plansGroup.GET("", planController.ListPlans)
	plansGroup.GET("/compare", planController.ComparePlans)
	plansGroup.GET("/:id", planController.GetPlan)

	subsGroup := v1.Group("/subscriptions")
	subsGroup.Use(middleware.JWTAuthMiddleware())
	subsGroup.POST("/subscribe", subscriptionController.Subscribe)
	subsGroup.POST("/cancel", subscriptionController.Cancel)
	subsGroup.GET("/my-subscription", subscriptionController.MySubscription)

	// Gateway-facing endpoints are unauthenticated; the callback is
	// re-verified server-side before any state moves.
	paymentsGroup := v1.Group("/payments")
	paymentsGroup.POST("/callback", paymentController.HandleCallback)
	paymentsGroup.GET("/return", paymentController.HandleReturn)
	paymentsGroup.POST("/return", paymentController.HandleReturn)
}
