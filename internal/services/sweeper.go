package services

import (
	"context"
	"time"

	"khidma/internal/gateway"
	"khidma/internal/repositories"
	"khidma/pkg/logger"
)

const sweepBatchSize = 100

// PendingSweeper fails pending transactions that outlived their payment
// window. A transaction can end up permanently pending when the gateway call
// crashed mid-flight or the user abandoned the hosted payment page and no
// webhook ever arrived. Before failing, any transaction that already has a
// gateway reference is verified once: a lost success webhook still activates.
type PendingSweeper struct {
	billingRepo repositories.IBillingRepository
	ledger      LedgerServiceInterface
	gw          gateway.Client
	ttl         time.Duration
	interval    time.Duration
	log         *logger.Logger
}

func NewPendingSweeper(
	billingRepo repositories.IBillingRepository,
	ledger LedgerServiceInterface,
	gw gateway.Client,
	ttl time.Duration,
	interval time.Duration,
	log *logger.Logger,
) *PendingSweeper {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &PendingSweeper{
		billingRepo: billingRepo,
		ledger:      ledger,
		gw:          gw,
		ttl:         ttl,
		interval:    interval,
		log:         log,
	}
}

func (s *PendingSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if swept, err := s.SweepOnce(ctx); err != nil {
				s.log.Errorf("pending sweep failed: %v", err)
			} else if swept > 0 {
				s.log.Infof("pending sweep resolved %d stale transactions", swept)
			}
		}
	}
}

// SweepOnce resolves one batch of stale pending transactions and returns how
// many reached a terminal state.
func (s *PendingSweeper) SweepOnce(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.ttl).Unix()
	stale, err := s.billingRepo.ListStalePending(ctx, cutoff, sweepBatchSize)
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, txn := range stale {
		payment, err := s.billingRepo.FindPaymentByID(ctx, txn.PaymentID)
		if err != nil {
			s.log.Errorf("sweep: loading payment %s: %v", txn.PaymentID, err)
			continue
		}
		if payment == nil {
			continue
		}

		if payment.TranRef == nil || *payment.TranRef == "" {
			// Never reached the gateway; nothing to verify.
			if applied, err := s.ledger.Fail(ctx, txn.ID, "payment window expired"); err != nil {
				s.log.Errorf("sweep: failing transaction %s: %v", txn.ID, err)
			} else if applied {
				swept++
			}
			continue
		}

		result, err := s.gw.Verify(ctx, *payment.TranRef)
		if err != nil {
			// Undetermined; leave it for the next pass.
			s.log.Warnf("sweep: verification undetermined for tran_ref %s: %v", *payment.TranRef, err)
			continue
		}
		if !result.Final() {
			continue
		}

		var applied bool
		if result.Authorized() {
			applied, err = s.ledger.Activate(ctx, txn.ID, *payment.TranRef)
		} else {
			applied, err = s.ledger.Fail(ctx, txn.ID, "payment window expired: "+result.ResponseMessage)
		}
		if err != nil {
			s.log.Errorf("sweep: resolving transaction %s: %v", txn.ID, err)
			continue
		}
		if applied {
			swept++
		}
	}
	return swept, nil
}
