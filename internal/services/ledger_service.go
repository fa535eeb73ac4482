package services

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"khidma/internal/models/db_models"
	"khidma/internal/models/response_models"
	"khidma/internal/repositories"
	"khidma/pkg/logger"
	"khidma/pkg/utils"
)

// PendingSet is the atomically created subscription / payment / transaction
// triple a subscribe request produces before the gateway is ever called.
type PendingSet struct {
	Subscription *db_models.ServiceSubscription
	Payment      *db_models.Payment
	Transaction  *db_models.SubscriptionTransaction
}

type LedgerServiceInterface interface {
	CreatePending(ctx context.Context, providerID uuid.UUID, plan *db_models.SubscriptionPlan, cycle db_models.BillingCycle, autoRenew bool) (*PendingSet, error)

	// Activate and Fail are idempotent: they report applied=false, without
	// error, when the transaction already holds a terminal status.
	Activate(ctx context.Context, txnID uuid.UUID, tranRef string) (bool, error)
	Fail(ctx context.Context, txnID uuid.UUID, reason string) (bool, error)

	Cancel(ctx context.Context, providerID uuid.UUID, reason string) (*db_models.ServiceSubscription, error)
	Usage(ctx context.Context, providerID uuid.UUID) (*response_models.MySubscriptionResponse, error)
}

type LedgerService struct {
	billingRepo  repositories.IBillingRepository
	providerRepo repositories.IProviderRepository
	planRepo     repositories.IPlanRepository
	currency     string
	log          *logger.Logger
}

func NewLedgerService(
	billingRepo repositories.IBillingRepository,
	providerRepo repositories.IProviderRepository,
	planRepo repositories.IPlanRepository,
	currency string,
	log *logger.Logger,
) LedgerServiceInterface {
	return &LedgerService{
		billingRepo:  billingRepo,
		providerRepo: providerRepo,
		planRepo:     planRepo,
		currency:     currency,
		log:          log,
	}
}

func (l *LedgerService) CreatePending(ctx context.Context, providerID uuid.UUID, plan *db_models.SubscriptionPlan, cycle db_models.BillingCycle, autoRenew bool) (*PendingSet, error) {
	amount := plan.PriceFor(cycle)
	if amount.IsNegative() || amount.IsZero() {
		return nil, errors.Mark(errors.Newf("plan %s is not billable for cycle %s", plan.Name, cycle), utils.ErrValidation)
	}

	now := time.Now()
	periodEnd := now.AddDate(0, 1, 0)
	if cycle == db_models.CycleYearly {
		periodEnd = now.AddDate(1, 0, 0)
	}

	sub := &db_models.ServiceSubscription{
		ProviderID:         providerID,
		PlanID:             plan.ID,
		BillingCycle:       cycle,
		Status:             db_models.SubStatusPending,
		CurrentPeriodStart: now.Unix(),
		CurrentPeriodEnd:   periodEnd.Unix(),
		AutoRenew:          autoRenew,
	}
	payment := &db_models.Payment{
		ProviderID: providerID,
		Amount:     amount,
		Currency:   l.currency,
		CartID:     utils.NewCartID(),
		Status:     db_models.PaymentStatusPending,
	}
	txn := &db_models.SubscriptionTransaction{
		Amount:             amount,
		Currency:           l.currency,
		TransactionType:    db_models.TxnTypeSubscription,
		Status:             db_models.TxnStatusPending,
		InvoiceNumber:      utils.NewInvoiceNumber(),
		BillingPeriodStart: sub.CurrentPeriodStart,
		BillingPeriodEnd:   sub.CurrentPeriodEnd,
	}

	if err := l.billingRepo.CreatePendingSet(ctx, sub, payment, txn); err != nil {
		return nil, err
	}

	l.log.Infof("pending subscription %s created for provider %s (invoice %s)", sub.ID, providerID, txn.InvoiceNumber)
	return &PendingSet{Subscription: sub, Payment: payment, Transaction: txn}, nil
}

func (l *LedgerService) Activate(ctx context.Context, txnID uuid.UUID, tranRef string) (bool, error) {
	txn, err := l.billingRepo.FindTransactionByID(ctx, txnID)
	if err != nil {
		return false, err
	}
	if txn == nil {
		return false, utils.ErrTransactionNotFound
	}

	applied, err := l.billingRepo.CompleteTransaction(ctx, txnID, tranRef)
	if err != nil {
		return false, err
	}
	if applied {
		l.log.Infof("transaction %s completed (tran_ref %s), subscription %s activated", txnID, tranRef, txn.SubscriptionID)
	}
	return applied, nil
}

func (l *LedgerService) Fail(ctx context.Context, txnID uuid.UUID, reason string) (bool, error) {
	txn, err := l.billingRepo.FindTransactionByID(ctx, txnID)
	if err != nil {
		return false, err
	}
	if txn == nil {
		return false, utils.ErrTransactionNotFound
	}

	applied, err := l.billingRepo.FailTransaction(ctx, txnID, reason)
	if err != nil {
		return false, err
	}
	if applied {
		l.log.Warnf("transaction %s failed: %s", txnID, reason)
	}
	return applied, nil
}

func (l *LedgerService) Cancel(ctx context.Context, providerID uuid.UUID, reason string) (*db_models.ServiceSubscription, error) {
	sub, err := l.billingRepo.FindCancellableSubscription(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, utils.ErrSubscriptionNotFound
	}

	applied, err := l.billingRepo.CancelSubscription(ctx, sub.ID, reason)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, utils.ErrSubscriptionNotFound
	}

	sub.Status = db_models.SubStatusCancelled
	sub.CancellationReason = &reason
	now := time.Now().Unix()
	sub.CancelledAt = &now
	sub.AutoRenew = false

	l.log.Infof("subscription %s cancelled, access retained until %d", sub.ID, sub.CurrentPeriodEnd)
	return sub, nil
}

func (l *LedgerService) Usage(ctx context.Context, providerID uuid.UUID) (*response_models.MySubscriptionResponse, error) {
	sub, err := l.billingRepo.FindCurrentSubscription(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, utils.ErrSubscriptionNotFound
	}

	plan, err := l.planRepo.GetByID(ctx, sub.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}

	servicesUsed, err := l.providerRepo.CountServices(ctx, providerID)
	if err != nil {
		return nil, err
	}
	bookingsUsed, err := l.providerRepo.CountBookingsThisMonth(ctx, providerID)
	if err != nil {
		return nil, err
	}

	return &response_models.MySubscriptionResponse{
		SubscriptionID:     sub.ID,
		PlanID:             plan.ID,
		PlanName:           plan.Name,
		Status:             string(sub.Status),
		BillingCycle:       string(sub.BillingCycle),
		CurrentPeriodStart: sub.CurrentPeriodStart,
		CurrentPeriodEnd:   sub.CurrentPeriodEnd,
		NextBillingDate:    sub.NextBillingDate,
		AutoRenew:          sub.AutoRenew,
		Services:           ProjectQuota(servicesUsed, plan.MaxServices),
		Bookings:           ProjectQuota(bookingsUsed, plan.MaxBookingsPerMonth),
		Features:           ProjectFeatures(plan),
	}, nil
}
