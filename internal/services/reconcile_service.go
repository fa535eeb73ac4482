package services

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"khidma/internal/gateway"
	"khidma/internal/models/db_models"
	"khidma/internal/models/request_models"
	"khidma/internal/models/response_models"
	"khidma/internal/repositories"
	"khidma/pkg/logger"
	"khidma/pkg/utils"
)

// ReconcileServiceInterface resolves the gateway's two notification paths,
// the server-to-server callback and the browser return, into one consistent
// subscription state. Both paths converge on the same guarded transitions,
// so order and repetition do not matter.
type ReconcileServiceInterface interface {
	HandleCallback(ctx context.Context, n *request_models.GatewayNotification) (*response_models.ReconcileResponse, error)
	HandleReturn(ctx context.Context, p *request_models.ReturnParams) (*response_models.ReconcileResponse, error)
}

type ReconcileConfig struct {
	// TrustWebhook lets the callback handler act on the payment-result
	// fields embedded in the webhook body instead of re-querying the
	// gateway. Off by default: the query result is authoritative.
	TrustWebhook bool
}

type ReconcileService struct {
	billingRepo repositories.IBillingRepository
	ledger      LedgerServiceInterface
	gw          gateway.Client
	cfg         ReconcileConfig
	log         *logger.Logger
}

func NewReconcileService(
	billingRepo repositories.IBillingRepository,
	ledger LedgerServiceInterface,
	gw gateway.Client,
	cfg ReconcileConfig,
	log *logger.Logger,
) ReconcileServiceInterface {
	return &ReconcileService{
		billingRepo: billingRepo,
		ledger:      ledger,
		gw:          gw,
		cfg:         cfg,
		log:         log,
	}
}

func (r *ReconcileService) HandleCallback(ctx context.Context, n *request_models.GatewayNotification) (*response_models.ReconcileResponse, error) {
	if n.TranRef == "" && n.CartID == "" {
		return nil, errors.Mark(errors.New("callback carries neither tran_ref nor cart_id"), utils.ErrValidation)
	}

	payment, err := r.resolveCallbackPayment(ctx, n)
	if err != nil {
		return nil, err
	}

	tranRef := n.TranRef
	if tranRef == "" && payment.TranRef != nil {
		tranRef = *payment.TranRef
	}

	var result *gateway.VerificationResult
	if r.cfg.TrustWebhook && n.PaymentResult != nil {
		result = &gateway.VerificationResult{
			TranRef:         tranRef,
			ResponseStatus:  n.PaymentResult.ResponseStatus,
			ResponseCode:    n.PaymentResult.ResponseCode,
			ResponseMessage: n.PaymentResult.ResponseMessage,
		}
	} else {
		result, err = r.verify(ctx, tranRef)
		if err != nil {
			return nil, err
		}
	}

	return r.apply(ctx, payment, result, tranRef)
}

func (r *ReconcileService) HandleReturn(ctx context.Context, p *request_models.ReturnParams) (*response_models.ReconcileResponse, error) {
	payment, err := r.resolveReturnPayment(ctx, p)
	if err != nil {
		return nil, err
	}

	// Some gateways omit tran_ref on the return redirect; the reference
	// persisted at initiation time covers that case.
	tranRef := p.TranRef
	if tranRef == "" && payment.TranRef != nil {
		tranRef = *payment.TranRef
	}

	// Return parameters are attacker-influenceable, so the redirect's own
	// status claims are never trusted. Only the query result counts.
	result, err := r.verify(ctx, tranRef)
	if err != nil {
		return nil, err
	}

	return r.apply(ctx, payment, result, tranRef)
}

func (r *ReconcileService) resolveCallbackPayment(ctx context.Context, n *request_models.GatewayNotification) (*db_models.Payment, error) {
	if n.TranRef != "" {
		payment, err := r.billingRepo.FindPaymentByTranRef(ctx, n.TranRef)
		if err != nil {
			return nil, err
		}
		if payment != nil {
			return payment, nil
		}
	}
	if n.CartID != "" {
		payment, err := r.billingRepo.FindPaymentByCartID(ctx, n.CartID)
		if err != nil {
			return nil, err
		}
		if payment != nil {
			return payment, nil
		}
	}
	r.log.Warnf("callback for unknown payment (tran_ref=%q cart_id=%q)", n.TranRef, n.CartID)
	return nil, utils.ErrPaymentNotFound
}

// resolveReturnPayment resolves with priority payment_id > tran_ref > cart_id.
func (r *ReconcileService) resolveReturnPayment(ctx context.Context, p *request_models.ReturnParams) (*db_models.Payment, error) {
	if p.PaymentID != "" {
		id, err := uuid.Parse(p.PaymentID)
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "malformed payment_id"), utils.ErrValidation)
		}
		payment, err := r.billingRepo.FindPaymentByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if payment != nil {
			return payment, nil
		}
	}
	if p.TranRef != "" {
		payment, err := r.billingRepo.FindPaymentByTranRef(ctx, p.TranRef)
		if err != nil {
			return nil, err
		}
		if payment != nil {
			return payment, nil
		}
	}
	if p.CartID != "" {
		payment, err := r.billingRepo.FindPaymentByCartID(ctx, p.CartID)
		if err != nil {
			return nil, err
		}
		if payment != nil {
			return payment, nil
		}
	}
	r.log.Warnf("return redirect for unknown payment (payment_id=%q tran_ref=%q cart_id=%q)", p.PaymentID, p.TranRef, p.CartID)
	return nil, utils.ErrPaymentNotFound
}

func (r *ReconcileService) verify(ctx context.Context, tranRef string) (*gateway.VerificationResult, error) {
	if tranRef == "" {
		return nil, errors.Mark(errors.New("no tran_ref available for verification"), utils.ErrVerificationUndetermined)
	}
	return r.gw.Verify(ctx, tranRef)
}

// apply drives the shared state machine. A non-final verdict changes
// nothing and is reported as undetermined so the notifier retries.
func (r *ReconcileService) apply(ctx context.Context, payment *db_models.Payment, result *gateway.VerificationResult, tranRef string) (*response_models.ReconcileResponse, error) {
	txn, err := r.billingRepo.FindTransactionByPaymentID(ctx, payment.ID)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, utils.ErrTransactionNotFound
	}

	if !result.Final() {
		r.log.Infof("verdict for tran_ref %s not final yet (status %q), leaving transaction %s pending", tranRef, result.ResponseStatus, txn.ID)
		return nil, errors.Mark(errors.Newf("gateway status %q is not final", result.ResponseStatus), utils.ErrVerificationUndetermined)
	}

	var applied bool
	var status db_models.SubscriptionStatus
	if result.Authorized() {
		applied, err = r.ledger.Activate(ctx, txn.ID, tranRef)
		status = db_models.SubStatusActive
	} else {
		reason := fmt.Sprintf("gateway declined: %s (status %s, code %s)", result.ResponseMessage, result.ResponseStatus, result.ResponseCode)
		applied, err = r.ledger.Fail(ctx, txn.ID, reason)
		status = db_models.SubStatusPaymentFailed
	}
	if err != nil {
		return nil, err
	}

	if !applied {
		// Already terminal; report the state that actually stuck.
		sub, err := r.billingRepo.FindSubscriptionByID(ctx, txn.SubscriptionID)
		if err != nil {
			return nil, err
		}
		if sub != nil {
			status = sub.Status
		}
	}

	return &response_models.ReconcileResponse{
		SubscriptionID: txn.SubscriptionID,
		Status:         string(status),
		AlreadyFinal:   !applied,
	}, nil
}
