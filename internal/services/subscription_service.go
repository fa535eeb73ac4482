package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"khidma/internal/gateway"
	"khidma/internal/models/db_models"
	"khidma/internal/models/request_models"
	"khidma/internal/models/response_models"
	"khidma/internal/repositories"
	"khidma/pkg/logger"
	"khidma/pkg/utils"
)

type SubscriptionServiceInterface interface {
	Subscribe(ctx context.Context, providerID uuid.UUID, req *request_models.SubscribeRequest) (*response_models.SubscribeResponse, error)
	Cancel(ctx context.Context, providerID uuid.UUID, reason string) (*response_models.CancelResponse, error)
	MySubscription(ctx context.Context, providerID uuid.UUID) (*response_models.MySubscriptionResponse, error)
}

type SubscriptionService struct {
	planRepo     repositories.IPlanRepository
	providerRepo repositories.IProviderRepository
	billingRepo  repositories.IBillingRepository
	ledger       LedgerServiceInterface
	gw           gateway.Client
	log          *logger.Logger
}

func NewSubscriptionService(
	planRepo repositories.IPlanRepository,
	providerRepo repositories.IProviderRepository,
	billingRepo repositories.IBillingRepository,
	ledger LedgerServiceInterface,
	gw gateway.Client,
	log *logger.Logger,
) SubscriptionServiceInterface {
	return &SubscriptionService{
		planRepo:     planRepo,
		providerRepo: providerRepo,
		billingRepo:  billingRepo,
		ledger:       ledger,
		gw:           gw,
		log:          log,
	}
}

func (s *SubscriptionService) Subscribe(ctx context.Context, providerID uuid.UUID, req *request_models.SubscribeRequest) (*response_models.SubscribeResponse, error) {
	plan, err := s.planRepo.GetByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil || !plan.IsActive {
		return nil, utils.ErrPlanNotFound
	}

	provider, err := s.providerRepo.FindByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, utils.ErrProviderNotFound
	}

	autoRenew := true
	if req.AutoRenew != nil {
		autoRenew = *req.AutoRenew
	}

	set, err := s.ledger.CreatePending(ctx, providerID, plan, db_models.BillingCycle(req.BillingCycle), autoRenew)
	if err != nil {
		return nil, err
	}

	// The pending triple is already committed at this point. If the gateway
	// call fails, the triple is failed through the same guarded transition
	// rather than left orphaned; the sweeper covers any crash window.
	res, err := s.gw.Initiate(ctx, gateway.InitiateParams{
		CartID:      set.Payment.CartID,
		Amount:      set.Payment.Amount,
		Description: fmt.Sprintf("Subscription %s (%s)", plan.Name, req.BillingCycle),
		Customer: gateway.Customer{
			Name:  provider.Name,
			Email: provider.Email,
			Phone: provider.Phone,
		},
	})
	if err != nil {
		if _, failErr := s.ledger.Fail(ctx, set.Transaction.ID, "gateway_unreachable"); failErr != nil {
			s.log.Errorf("could not fail transaction %s after initiate error: %v", set.Transaction.ID, failErr)
		}
		return nil, err
	}

	// Persist the gateway reference before handing out the redirect; it is
	// the correlation key for reconciliation even if the user never returns.
	if err := s.billingRepo.SetPaymentTranRef(ctx, set.Payment.ID, res.TranRef); err != nil {
		// cart_id still resolves the callback, so the flow continues.
		s.log.Errorf("could not persist tran_ref %s on payment %s: %v", res.TranRef, set.Payment.ID, err)
	}

	return &response_models.SubscribeResponse{
		SubscriptionID:  set.Subscription.ID,
		TransactionID:   set.Transaction.ID,
		InvoiceNumber:   set.Transaction.InvoiceNumber,
		Amount:          set.Payment.Amount,
		Currency:        set.Payment.Currency,
		NextBillingDate: set.Subscription.CurrentPeriodEnd,
		RedirectURL:     res.RedirectURL,
	}, nil
}

func (s *SubscriptionService) Cancel(ctx context.Context, providerID uuid.UUID, reason string) (*response_models.CancelResponse, error) {
	if reason == "" {
		reason = "cancelled by provider"
	}
	sub, err := s.ledger.Cancel(ctx, providerID, reason)
	if err != nil {
		return nil, err
	}
	return &response_models.CancelResponse{
		SubscriptionID: sub.ID,
		Status:         string(sub.Status),
		AccessUntil:    sub.CurrentPeriodEnd,
	}, nil
}

func (s *SubscriptionService) MySubscription(ctx context.Context, providerID uuid.UUID) (*response_models.MySubscriptionResponse, error) {
	return s.ledger.Usage(ctx, providerID)
}
