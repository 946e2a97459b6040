package repositories

import (
	"context"
	"fmt"

	"github.com/fitplan/fitplan_backend/errs"
	"github.com/fitplan/fitplan_backend/logger"
	"github.com/fitplan/fitplan_backend/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// CreateTransaction writes a ledger row and attributes it to the user.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, userID uint, entry *models.TransactionLog) (*models.TransactionLog, error) {
	if err := validateTransaction(entry); err != nil {
		return nil, err
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createTransaction(tx, userID, entry)
	})
	if err != nil {
		logger.Log.Warn("transaction log rolled back", zap.Uint("user_id", userID), zap.Error(err))
		return nil, errs.FromDB(err)
	}
	logger.Log.Info("transaction logged",
		zap.Uint("transaction_id", entry.ID),
		zap.Uint("user_id", userID),
		zap.String("amount", entry.Amount.StringFixed(2)))
	return entry, nil
}

// createTransaction runs inside a caller's transaction.
func createTransaction(tx *gorm.DB, userID uint, entry *models.TransactionLog) error {
	if err := tx.Create(entry).Error; err != nil {
		return err
	}
	return tx.Create(&models.UserTransactionLog{TransactionID: entry.ID, UserID: userID}).Error
}

func validateTransaction(entry *models.TransactionLog) error {
	if err := validateModel(entry); err != nil {
		return err
	}
	if !validTransactionStatus(entry.Status) {
		return errs.Check("status", fmt.Sprintf("unknown status %q", entry.Status))
	}
	return nil
}

func (r *TransactionRepository) ListUserTransactions(ctx context.Context, userID uint) ([]models.TransactionLog, error) {
	var entries []models.TransactionLog
	err := r.db.WithContext(ctx).
		Joins("JOIN user_transaction_log ON user_transaction_log.transaction_id = transaction_log.id").
		Where("user_transaction_log.user_id = ?", userID).
		Order("transaction_log.id").
		Find(&entries).Error
	if err != nil {
		return nil, errs.FromDB(err)
	}
	return entries, nil
}

func (r *TransactionRepository) UpdateTransactionStatus(ctx context.Context, transactionID uint, status string) (*models.TransactionLog, error) {
	if !validTransactionStatus(status) {
		return nil, errs.Check("status", fmt.Sprintf("unknown status %q", status))
	}
	entry, err := updateWhere[models.TransactionLog](ctx, r.db, nil, map[string]any{"status": status}, "id = ?", transactionID)
	if err != nil {
		logger.Log.Warn("transaction status update failed", zap.Uint("transaction_id", transactionID), zap.Error(err))
		return nil, err
	}
	logger.Log.Info("transaction status updated", zap.Uint("transaction_id", transactionID), zap.String("status", status))
	return entry, nil
}

func validTransactionStatus(status string) bool {
	switch status {
	case models.TransactionPending, models.TransactionCompleted, models.TransactionFailed:
		return true
	}
	return false
}
