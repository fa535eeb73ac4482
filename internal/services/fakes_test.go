package services

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"khidma/internal/gateway"
	"khidma/internal/models/db_models"
	"khidma/pkg/utils"
)

// In-memory fakes for the repository and gateway interfaces. They mirror the
// guarded-transition semantics of the real implementations, including the
// compare-and-swap out of pending.

type fakeBillingRepo struct {
	mu        sync.Mutex
	subs      map[uuid.UUID]*db_models.ServiceSubscription
	payments  map[uuid.UUID]*db_models.Payment
	txns      map[uuid.UUID]*db_models.SubscriptionTransaction
	providers *fakeProviderRepo
}

func newFakeBillingRepo(providers *fakeProviderRepo) *fakeBillingRepo {
	return &fakeBillingRepo{
		subs:      map[uuid.UUID]*db_models.ServiceSubscription{},
		payments:  map[uuid.UUID]*db_models.Payment{},
		txns:      map[uuid.UUID]*db_models.SubscriptionTransaction{},
		providers: providers,
	}
}

func (f *fakeBillingRepo) CreatePendingSet(ctx context.Context, sub *db_models.ServiceSubscription, payment *db_models.Payment, txn *db_models.SubscriptionTransaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.providers.byID(sub.ProviderID) == nil {
		return utils.ErrProviderNotFound
	}
	for _, existing := range f.subs {
		if existing.ProviderID == sub.ProviderID && isOpen(existing.Status) {
			return utils.ErrActiveSubscriptionExists
		}
	}

	now := time.Now().Unix()
	sub.ID = uuid.New()
	sub.CreatedAt = now
	payment.ID = uuid.New()
	payment.CreatedAt = now
	txn.ID = uuid.New()
	txn.CreatedAt = now
	txn.SubscriptionID = sub.ID
	txn.PaymentID = payment.ID

	f.subs[sub.ID] = sub
	f.payments[payment.ID] = payment
	f.txns[txn.ID] = txn
	return nil
}

func isOpen(status db_models.SubscriptionStatus) bool {
	for _, s := range db_models.OpenStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (f *fakeBillingRepo) SetPaymentTranRef(ctx context.Context, paymentID uuid.UUID, tranRef string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	payment, ok := f.payments[paymentID]
	if !ok {
		return errors.New("payment missing")
	}
	payment.TranRef = &tranRef
	return nil
}

func (f *fakeBillingRepo) FindPaymentByID(ctx context.Context, id uuid.UUID) (*db_models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payments[id], nil
}

func (f *fakeBillingRepo) FindPaymentByTranRef(ctx context.Context, tranRef string) (*db_models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.TranRef != nil && *p.TranRef == tranRef {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeBillingRepo) FindPaymentByCartID(ctx context.Context, cartID string) (*db_models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.CartID == cartID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeBillingRepo) FindTransactionByID(ctx context.Context, id uuid.UUID) (*db_models.SubscriptionTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.txns[id], nil
}

func (f *fakeBillingRepo) FindTransactionByPaymentID(ctx context.Context, paymentID uuid.UUID) (*db_models.SubscriptionTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.txns {
		if t.PaymentID == paymentID {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeBillingRepo) FindSubscriptionByID(ctx context.Context, id uuid.UUID) (*db_models.ServiceSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subs[id], nil
}

func (f *fakeBillingRepo) FindCancellableSubscription(ctx context.Context, providerID uuid.UUID) (*db_models.ServiceSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subs {
		if s.ProviderID == providerID && (s.Status == db_models.SubStatusActive || s.Status == db_models.SubStatusTrial) {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeBillingRepo) FindCurrentSubscription(ctx context.Context, providerID uuid.UUID) (*db_models.ServiceSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().Unix()
	for _, s := range f.subs {
		if s.ProviderID != providerID {
			continue
		}
		if isOpen(s.Status) {
			return s, nil
		}
		if s.Status == db_models.SubStatusCancelled && s.CurrentPeriodEnd >= now {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeBillingRepo) CompleteTransaction(ctx context.Context, txnID uuid.UUID, tranRef string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	txn, ok := f.txns[txnID]
	if !ok || txn.Status != db_models.TxnStatusPending {
		return false, nil
	}
	now := time.Now().Unix()
	txn.Status = db_models.TxnStatusCompleted
	txn.ProcessedAt = &now

	payment := f.payments[txn.PaymentID]
	payment.Status = db_models.PaymentStatusCompleted
	if tranRef != "" {
		payment.TranRef = &tranRef
	}

	sub := f.subs[txn.SubscriptionID]
	sub.Status = db_models.SubStatusActive
	end := sub.CurrentPeriodEnd
	sub.NextBillingDate = &end

	if provider := f.providers.byID(sub.ProviderID); provider != nil {
		provider.IsActive = true
	}
	return true, nil
}

func (f *fakeBillingRepo) FailTransaction(ctx context.Context, txnID uuid.UUID, reason string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	txn, ok := f.txns[txnID]
	if !ok || txn.Status != db_models.TxnStatusPending {
		return false, nil
	}
	now := time.Now().Unix()
	txn.Status = db_models.TxnStatusFailed
	txn.FailureReason = &reason
	txn.ProcessedAt = &now

	f.payments[txn.PaymentID].Status = db_models.PaymentStatusFailed
	f.subs[txn.SubscriptionID].Status = db_models.SubStatusPaymentFailed
	return true, nil
}

func (f *fakeBillingRepo) CancelSubscription(ctx context.Context, subID uuid.UUID, reason string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub, ok := f.subs[subID]
	if !ok || (sub.Status != db_models.SubStatusActive && sub.Status != db_models.SubStatusTrial) {
		return false, nil
	}
	now := time.Now().Unix()
	sub.Status = db_models.SubStatusCancelled
	sub.CancellationReason = &reason
	sub.CancelledAt = &now
	sub.AutoRenew = false
	return true, nil
}

func (f *fakeBillingRepo) ListStalePending(ctx context.Context, olderThan int64, limit int) ([]db_models.SubscriptionTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.SubscriptionTransaction
	for _, t := range f.txns {
		if t.Status == db_models.TxnStatusPending && t.CreatedAt < olderThan {
			out = append(out, *t)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

type fakeProviderRepo struct {
	mu        sync.Mutex
	providers map[uuid.UUID]*db_models.ServiceProvider
	services  map[uuid.UUID]int
	bookings  map[uuid.UUID]int
}

func newFakeProviderRepo() *fakeProviderRepo {
	return &fakeProviderRepo{
		providers: map[uuid.UUID]*db_models.ServiceProvider{},
		services:  map[uuid.UUID]int{},
		bookings:  map[uuid.UUID]int{},
	}
}

func (f *fakeProviderRepo) byID(id uuid.UUID) *db_models.ServiceProvider {
	return f.providers[id]
}

func (f *fakeProviderRepo) add(name, email string) *db_models.ServiceProvider {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &db_models.ServiceProvider{Name: name, Email: email}
	p.ID = uuid.New()
	f.providers[p.ID] = p
	return p
}

func (f *fakeProviderRepo) Create(ctx context.Context, provider *db_models.ServiceProvider) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	provider.ID = uuid.New()
	f.providers[provider.ID] = provider
	return nil
}

func (f *fakeProviderRepo) FindByID(ctx context.Context, id uuid.UUID) (*db_models.ServiceProvider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.providers[id], nil
}

func (f *fakeProviderRepo) FindByEmail(ctx context.Context, email string) (*db_models.ServiceProvider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.providers {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProviderRepo) CountServices(ctx context.Context, providerID uuid.UUID) (int, error) {
	return f.services[providerID], nil
}

func (f *fakeProviderRepo) CountBookingsThisMonth(ctx context.Context, providerID uuid.UUID) (int, error) {
	return f.bookings[providerID], nil
}

type fakePlanRepo struct {
	plans map[uuid.UUID]*db_models.SubscriptionPlan
}

func newFakePlanRepo(plans ...*db_models.SubscriptionPlan) *fakePlanRepo {
	f := &fakePlanRepo{plans: map[uuid.UUID]*db_models.SubscriptionPlan{}}
	for _, p := range plans {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		f.plans[p.ID] = p
	}
	return f
}

func (f *fakePlanRepo) GetByID(ctx context.Context, planID uuid.UUID) (*db_models.SubscriptionPlan, error) {
	return f.plans[planID], nil
}

func (f *fakePlanRepo) ListActive(ctx context.Context) ([]db_models.SubscriptionPlan, error) {
	var out []db_models.SubscriptionPlan
	for _, p := range f.plans {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePlanRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]db_models.SubscriptionPlan, error) {
	var out []db_models.SubscriptionPlan
	for _, id := range ids {
		if p, ok := f.plans[id]; ok && p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeGateway struct {
	mu            sync.Mutex
	initiateRes   *gateway.InitiateResult
	initiateErr   error
	initiateCalls int
	verifyRes     map[string]*gateway.VerificationResult
	verifyErr     map[string]error
	verifyCalls   int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		initiateRes: &gateway.InitiateResult{TranRef: "TST0000000001", RedirectURL: "https://secure.example.com/pay/TST0000000001"},
		verifyRes:   map[string]*gateway.VerificationResult{},
		verifyErr:   map[string]error{},
	}
}

func (f *fakeGateway) Initiate(ctx context.Context, p gateway.InitiateParams) (*gateway.InitiateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initiateCalls++
	if f.initiateErr != nil {
		return nil, f.initiateErr
	}
	return f.initiateRes, nil
}

func (f *fakeGateway) Verify(ctx context.Context, tranRef string) (*gateway.VerificationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifyCalls++
	if err, ok := f.verifyErr[tranRef]; ok {
		return nil, err
	}
	if res, ok := f.verifyRes[tranRef]; ok {
		return res, nil
	}
	return nil, errors.Mark(errors.Newf("no verdict scripted for %s", tranRef), utils.ErrVerificationUndetermined)
}

func (f *fakeGateway) scriptVerify(tranRef, status, code, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifyRes[tranRef] = &gateway.VerificationResult{
		TranRef:         tranRef,
		ResponseStatus:  status,
		ResponseCode:    code,
		ResponseMessage: message,
	}
}
