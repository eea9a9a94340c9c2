package db

import (
	"context"

	"github.com/hirewire/control-tower/pkg/errors"
	"github.com/hirewire/control-tower/pkg/logger"
	"gorm.io/gorm"
)

type contextKey int

const (
	transactionKey contextKey = iota
)

// NewContext returns a new context with a transaction stored in it.
// Upon error, the original context is still returned along with an error
func (f *ConnectionFactory) NewContext(ctx context.Context) (context.Context, error) {
	tx, err := f.newTransaction()
	if err != nil {
		return ctx, err
	}

	// adding txid explicitly to context with a simple string key and int value
	// due to a cyclical import cycle between pkg/db and pkg/logger
	ctx = context.WithValue(ctx, "txid", tx.txid) //nolint
	ctx = context.WithValue(ctx, transactionKey, tx)

	return ctx, nil
}

// Resolve resolves the current transaction according to the rollback flag.
func Resolve(ctx context.Context) {
	ulog := logger.NewUHCLogger(ctx)
	tx, ok := ctx.Value(transactionKey).(*txFactory)
	if !ok {
		ulog.Errorf("Could not retrieve transaction from context")
		return
	}
	if tx.resolved {
		return
	}
	tx.resolved = true

	if tx.markedForRollback() {
		if err := tx.tx.Rollback().Error; err != nil {
			ulog.Errorf("Could not rollback transaction: %v", err)
			return
		}
		ulog.Infof("Rolled back transaction")
		return
	}

	if err := tx.tx.Commit().Error; err != nil {
		ulog.Errorf("Could not commit transaction: %v", err)
		return
	}
	for _, action := range tx.postCommitActions {
		action()
	}
}

// FromContext retrieves the transaction from the context.
func FromContext(ctx context.Context) (*gorm.DB, error) {
	transaction, ok := ctx.Value(transactionKey).(*txFactory)
	if !ok {
		return nil, errors.GeneralError("Could not retrieve transaction from context")
	}
	return transaction.tx, nil
}

// MarkForRollback flags the transaction stored in the context for rollback and logs whatever error caused the rollback
func MarkForRollback(ctx context.Context, err error) {
	ulog := logger.NewUHCLogger(ctx)
	transaction, ok := ctx.Value(transactionKey).(*txFactory)
	if !ok {
		ulog.Errorf("failed to mark transaction for rollback: could not retrieve transaction from context")
		return
	}
	transaction.rollbackFlag = true
	ulog.Infof("Marked transaction for rollback, err: %v", err)
}

// AddPostCommitAction adds an action to be executed after the transaction in the context commits successfully.
// Actions are dropped when the transaction rolls back.
func AddPostCommitAction(ctx context.Context, action func()) error {
	transaction, ok := ctx.Value(transactionKey).(*txFactory)
	if !ok {
		return errors.GeneralError("Could not retrieve transaction from context")
	}
	transaction.postCommitActions = append(transaction.postCommitActions, action)
	return nil
}
