package repositories

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"khidma/internal/models/db_models"
	"khidma/pkg/utils"
)

// IBillingRepository owns every mutation of the payment / subscription /
// transaction rows. State only moves through the guarded transitions here,
// never through ad hoc field writes.
type IBillingRepository interface {
	// CreatePendingSet writes the subscription, payment and transaction in a
	// single database transaction. Returns ErrActiveSubscriptionExists when
	// the provider already has an open subscription.
	CreatePendingSet(ctx context.Context, sub *db_models.ServiceSubscription, payment *db_models.Payment, txn *db_models.SubscriptionTransaction) error

	SetPaymentTranRef(ctx context.Context, paymentID uuid.UUID, tranRef string) error

	FindPaymentByID(ctx context.Context, id uuid.UUID) (*db_models.Payment, error)
	FindPaymentByTranRef(ctx context.Context, tranRef string) (*db_models.Payment, error)
	FindPaymentByCartID(ctx context.Context, cartID string) (*db_models.Payment, error)

	FindTransactionByID(ctx context.Context, id uuid.UUID) (*db_models.SubscriptionTransaction, error)
	FindTransactionByPaymentID(ctx context.Context, paymentID uuid.UUID) (*db_models.SubscriptionTransaction, error)

	FindSubscriptionByID(ctx context.Context, id uuid.UUID) (*db_models.ServiceSubscription, error)
	FindCancellableSubscription(ctx context.Context, providerID uuid.UUID) (*db_models.ServiceSubscription, error)

	// FindCurrentSubscription returns the subscription the provider is
	// living on: an open one, or a cancelled one whose paid period has not
	// ended yet (access persists until current_period_end).
	FindCurrentSubscription(ctx context.Context, providerID uuid.UUID) (*db_models.ServiceSubscription, error)

	// CompleteTransaction and FailTransaction are compare-and-swap moves out
	// of pending. They report applied=false, without error, when the
	// transaction already reached a terminal status.
	CompleteTransaction(ctx context.Context, txnID uuid.UUID, tranRef string) (bool, error)
	FailTransaction(ctx context.Context, txnID uuid.UUID, reason string) (bool, error)

	CancelSubscription(ctx context.Context, subID uuid.UUID, reason string) (bool, error)

	ListStalePending(ctx context.Context, olderThan int64, limit int) ([]db_models.SubscriptionTransaction, error)
}

type BillingRepository struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) IBillingRepository {
	return &BillingRepository{db: db}
}

func (r *BillingRepository) CreatePendingSet(ctx context.Context, sub *db_models.ServiceSubscription, payment *db_models.Payment, txn *db_models.SubscriptionTransaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the provider row so two concurrent subscribes serialize on
		// the open-subscription check.
		var provider db_models.ServiceProvider
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&provider, "id = ?", sub.ProviderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrProviderNotFound
			}
			return err
		}

		var open int64
		if err := tx.Model(&db_models.ServiceSubscription{}).
			Where("provider_id = ? AND status IN ?", sub.ProviderID, db_models.OpenStatuses).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return utils.ErrActiveSubscriptionExists
		}

		if err := tx.Create(sub).Error; err != nil {
			return err
		}
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		txn.SubscriptionID = sub.ID
		txn.PaymentID = payment.ID
		return tx.Create(txn).Error
	})
}

func (r *BillingRepository) SetPaymentTranRef(ctx context.Context, paymentID uuid.UUID, tranRef string) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Payment{}).
		Where("id = ?", paymentID).
		Update("tran_ref", tranRef).Error
}

func (r *BillingRepository) FindPaymentByID(ctx context.Context, id uuid.UUID) (*db_models.Payment, error) {
	return r.onePayment(ctx, "id = ?", id)
}

func (r *BillingRepository) FindPaymentByTranRef(ctx context.Context, tranRef string) (*db_models.Payment, error) {
	return r.onePayment(ctx, "tran_ref = ?", tranRef)
}

func (r *BillingRepository) FindPaymentByCartID(ctx context.Context, cartID string) (*db_models.Payment, error) {
	return r.onePayment(ctx, "cart_id = ?", cartID)
}

func (r *BillingRepository) onePayment(ctx context.Context, query string, arg any) (*db_models.Payment, error) {
	var payment db_models.Payment
	err := r.db.WithContext(ctx).First(&payment, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *BillingRepository) FindTransactionByID(ctx context.Context, id uuid.UUID) (*db_models.SubscriptionTransaction, error) {
	var txn db_models.SubscriptionTransaction
	err := r.db.WithContext(ctx).First(&txn, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

func (r *BillingRepository) FindTransactionByPaymentID(ctx context.Context, paymentID uuid.UUID) (*db_models.SubscriptionTransaction, error) {
	var txn db_models.SubscriptionTransaction
	err := r.db.WithContext(ctx).First(&txn, "payment_id = ?", paymentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

func (r *BillingRepository) FindSubscriptionByID(ctx context.Context, id uuid.UUID) (*db_models.ServiceSubscription, error) {
	var sub db_models.ServiceSubscription
	err := r.db.WithContext(ctx).First(&sub, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *BillingRepository) FindCancellableSubscription(ctx context.Context, providerID uuid.UUID) (*db_models.ServiceSubscription, error) {
	return r.oneSubscription(ctx, providerID, []db_models.SubscriptionStatus{db_models.SubStatusActive, db_models.SubStatusTrial})
}

func (r *BillingRepository) FindCurrentSubscription(ctx context.Context, providerID uuid.UUID) (*db_models.ServiceSubscription, error) {
	now := time.Now().Unix()
	var sub db_models.ServiceSubscription
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND (status IN ? OR (status = ? AND current_period_end >= ?))",
			providerID, db_models.OpenStatuses, db_models.SubStatusCancelled, now).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *BillingRepository) oneSubscription(ctx context.Context, providerID uuid.UUID, statuses []db_models.SubscriptionStatus) (*db_models.ServiceSubscription, error) {
	var sub db_models.ServiceSubscription
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND status IN ?", providerID, statuses).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *BillingRepository) CompleteTransaction(ctx context.Context, txnID uuid.UUID, tranRef string) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().Unix()

		res := tx.Model(&db_models.SubscriptionTransaction{}).
			Where("id = ? AND status = ?", txnID, db_models.TxnStatusPending).
			Updates(map[string]interface{}{
				"status":       db_models.TxnStatusCompleted,
				"processed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race or the verdict was already applied.
			return nil
		}
		applied = true

		var txn db_models.SubscriptionTransaction
		if err := tx.First(&txn, "id = ?", txnID).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{"status": db_models.PaymentStatusCompleted}
		if tranRef != "" {
			updates["tran_ref"] = tranRef
		}
		if err := tx.Model(&db_models.Payment{}).
			Where("id = ?", txn.PaymentID).
			Updates(updates).Error; err != nil {
			return err
		}

		var sub db_models.ServiceSubscription
		if err := tx.First(&sub, "id = ?", txn.SubscriptionID).Error; err != nil {
			return err
		}
		if err := tx.Model(&sub).Updates(map[string]interface{}{
			"status":            db_models.SubStatusActive,
			"next_billing_date": sub.CurrentPeriodEnd,
		}).Error; err != nil {
			return err
		}

		return tx.Model(&db_models.ServiceProvider{}).
			Where("id = ?", sub.ProviderID).
			Update("is_active", true).Error
	})
	return applied, err
}

func (r *BillingRepository) FailTransaction(ctx context.Context, txnID uuid.UUID, reason string) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().Unix()

		res := tx.Model(&db_models.SubscriptionTransaction{}).
			Where("id = ? AND status = ?", txnID, db_models.TxnStatusPending).
			Updates(map[string]interface{}{
				"status":         db_models.TxnStatusFailed,
				"failure_reason": reason,
				"processed_at":   now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true

		var txn db_models.SubscriptionTransaction
		if err := tx.First(&txn, "id = ?", txnID).Error; err != nil {
			return err
		}

		if err := tx.Model(&db_models.Payment{}).
			Where("id = ?", txn.PaymentID).
			Update("status", db_models.PaymentStatusFailed).Error; err != nil {
			return err
		}

		return tx.Model(&db_models.ServiceSubscription{}).
			Where("id = ?", txn.SubscriptionID).
			Update("status", db_models.SubStatusPaymentFailed).Error
	})
	return applied, err
}

func (r *BillingRepository) CancelSubscription(ctx context.Context, subID uuid.UUID, reason string) (bool, error) {
	now := time.Now().Unix()
	// current_period_end is deliberately untouched: access runs to period end.
	res := r.db.WithContext(ctx).
		Model(&db_models.ServiceSubscription{}).
		Where("id = ? AND status IN ?", subID, []db_models.SubscriptionStatus{db_models.SubStatusActive, db_models.SubStatusTrial}).
		Updates(map[string]interface{}{
			"status":              db_models.SubStatusCancelled,
			"cancellation_reason": reason,
			"cancelled_at":        now,
			"auto_renew":          false,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *BillingRepository) ListStalePending(ctx context.Context, olderThan int64, limit int) ([]db_models.SubscriptionTransaction, error) {
	var txns []db_models.SubscriptionTransaction
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", db_models.TxnStatusPending, olderThan).
		Order("created_at ASC").
		Limit(limit).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}
