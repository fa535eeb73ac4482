package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khidma/internal/models/db_models"
	"khidma/internal/models/request_models"
	"khidma/pkg/logger"
	"khidma/pkg/utils"
)

type subscribeFixture struct {
	*ledgerFixture
	gw  *fakeGateway
	svc SubscriptionServiceInterface
}

func newSubscribeFixture(t *testing.T) *subscribeFixture {
	t.Helper()
	base := newLedgerFixture(t)
	gw := newFakeGateway()
	svc := NewSubscriptionService(base.plans, base.providers, base.billing, base.ledger, gw, logger.NewNop())
	return &subscribeFixture{ledgerFixture: base, gw: gw, svc: svc}
}

func TestSubscribeHappyPath(t *testing.T) {
	fx := newSubscribeFixture(t)

	resp, err := fx.svc.Subscribe(context.Background(), fx.provider.ID, &request_models.SubscribeRequest{
		PlanID:       fx.plan.ID,
		BillingCycle: "monthly",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, resp.SubscriptionID)
	assert.NotEqual(t, uuid.Nil, resp.TransactionID)
	assert.True(t, strings.HasPrefix(resp.InvoiceNumber, "INV-SUB-"))
	assert.True(t, resp.Amount.Equal(decimal.RequireFromString("29.00")))
	assert.NotEmpty(t, resp.RedirectURL)
	assert.Positive(t, resp.NextBillingDate)

	// tran_ref must be persisted before the redirect is handed out
	payment, err := fx.billing.FindPaymentByTranRef(context.Background(), "TST0000000001")
	require.NoError(t, err)
	require.NotNil(t, payment)
	assert.Equal(t, db_models.PaymentStatusPending, payment.Status)
}

func TestSubscribeRejectsSecondOpenSubscription(t *testing.T) {
	fx := newSubscribeFixture(t)
	ctx := context.Background()
	req := &request_models.SubscribeRequest{PlanID: fx.plan.ID, BillingCycle: "monthly"}

	_, err := fx.svc.Subscribe(ctx, fx.provider.ID, req)
	require.NoError(t, err)

	_, err = fx.svc.Subscribe(ctx, fx.provider.ID, req)
	assert.ErrorIs(t, err, utils.ErrActiveSubscriptionExists)

	assert.Len(t, fx.billing.subs, 1)
	assert.Equal(t, 1, fx.gw.initiateCalls)
}

func TestSubscribeUnknownPlan(t *testing.T) {
	fx := newSubscribeFixture(t)

	_, err := fx.svc.Subscribe(context.Background(), fx.provider.ID, &request_models.SubscribeRequest{
		PlanID:       uuid.New(),
		BillingCycle: "monthly",
	})
	assert.ErrorIs(t, err, utils.ErrPlanNotFound)
	assert.Empty(t, fx.billing.subs)
}

func TestSubscribeGatewayFailureCompensatesPendingTriple(t *testing.T) {
	fx := newSubscribeFixture(t)
	fx.gw.initiateErr = utils.ErrGatewayUnavailable

	_, err := fx.svc.Subscribe(context.Background(), fx.provider.ID, &request_models.SubscribeRequest{
		PlanID:       fx.plan.ID,
		BillingCycle: "monthly",
	})
	assert.ErrorIs(t, err, utils.ErrGatewayUnavailable)

	// the committed triple is failed, not left orphaned as pending
	require.Len(t, fx.billing.txns, 1)
	for _, txn := range fx.billing.txns {
		assert.Equal(t, db_models.TxnStatusFailed, txn.Status)
		require.NotNil(t, txn.FailureReason)
		assert.Equal(t, "gateway_unreachable", *txn.FailureReason)
	}
	for _, sub := range fx.billing.subs {
		assert.Equal(t, db_models.SubStatusPaymentFailed, sub.Status)
	}

	// and a fresh subscribe is possible afterwards
	fx.gw.initiateErr = nil
	_, err = fx.svc.Subscribe(context.Background(), fx.provider.ID, &request_models.SubscribeRequest{
		PlanID:       fx.plan.ID,
		BillingCycle: "monthly",
	})
	assert.NoError(t, err)
}

func TestCancelReportsRetainedAccess(t *testing.T) {
	fx := newSubscribeFixture(t)
	ctx := context.Background()

	resp, err := fx.svc.Subscribe(ctx, fx.provider.ID, &request_models.SubscribeRequest{
		PlanID:       fx.plan.ID,
		BillingCycle: "monthly",
	})
	require.NoError(t, err)
	_, err = fx.ledger.Activate(ctx, resp.TransactionID, "TST0000000001")
	require.NoError(t, err)

	cancelResp, err := fx.svc.Cancel(ctx, fx.provider.ID, "")
	require.NoError(t, err)

	assert.Equal(t, "cancelled", cancelResp.Status)
	assert.Equal(t, resp.NextBillingDate, cancelResp.AccessUntil)
}
