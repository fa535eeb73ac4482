package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khidma/internal/models/db_models"
	"khidma/pkg/logger"
)

func newSweeperFixture(t *testing.T) (*reconcileFixture, *PendingSweeper) {
	t.Helper()
	fx := newReconcileFixture(t, ReconcileConfig{})
	sweeper := NewPendingSweeper(fx.billing, fx.ledger, fx.gw, time.Hour, time.Minute, logger.NewNop())
	return fx, sweeper
}

func backdate(fx *reconcileFixture, by time.Duration) {
	fx.billing.txns[fx.set.Transaction.ID].CreatedAt = time.Now().Add(-by).Unix()
}

func TestSweepFailsStalePendingWithoutTranRef(t *testing.T) {
	fx, sweeper := newSweeperFixture(t)
	fx.billing.payments[fx.set.Payment.ID].TranRef = nil
	backdate(fx, 2*time.Hour)

	swept, err := sweeper.SweepOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, swept)
	txn := fx.billing.txns[fx.set.Transaction.ID]
	assert.Equal(t, db_models.TxnStatusFailed, txn.Status)
	require.NotNil(t, txn.FailureReason)
	assert.Contains(t, *txn.FailureReason, "payment window expired")
	assert.Equal(t, db_models.SubStatusPaymentFailed, fx.billing.subs[fx.set.Subscription.ID].Status)
}

func TestSweepActivatesWhenGatewayConfirmsLostWebhook(t *testing.T) {
	fx, sweeper := newSweeperFixture(t)
	backdate(fx, 2*time.Hour)
	fx.gw.scriptVerify(fx.tranRef, "A", "G00000", "Authorised")

	swept, err := sweeper.SweepOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, swept)
	assert.Equal(t, db_models.SubStatusActive, fx.billing.subs[fx.set.Subscription.ID].Status)
	assert.True(t, fx.provider.IsActive)
}

func TestSweepLeavesUndeterminedPending(t *testing.T) {
	fx, sweeper := newSweeperFixture(t)
	backdate(fx, 2*time.Hour)
	// no scripted verdict: verification stays undetermined

	swept, err := sweeper.SweepOnce(context.Background())
	require.NoError(t, err)

	assert.Zero(t, swept)
	assert.Equal(t, db_models.TxnStatusPending, fx.billing.txns[fx.set.Transaction.ID].Status)
}

func TestSweepIgnoresFreshPending(t *testing.T) {
	fx, sweeper := newSweeperFixture(t)

	swept, err := sweeper.SweepOnce(context.Background())
	require.NoError(t, err)

	assert.Zero(t, swept)
	assert.Equal(t, db_models.TxnStatusPending, fx.billing.txns[fx.set.Transaction.ID].Status)
}
