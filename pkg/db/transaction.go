package db

import (
	"gorm.io/gorm"
)

// By default do not roll back the transaction.
// Rollback is only performed when explicitly requested via db.MarkForRollback(ctx, err).
const defaultRollbackPolicy = false

// txFactory represents a database transaction stored in a request context.
type txFactory struct {
	resolved          bool
	rollbackFlag      bool
	tx                *gorm.DB
	txid              int64
	postCommitActions []func()
}

func (f *ConnectionFactory) newTransaction() (*txFactory, error) {
	tx := f.New().Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var txid int64
	// current transaction ID set by postgres. these are *not* distinct across time
	// and do get reset after postgres performs "vacuuming" to reclaim used IDs.
	row := tx.Raw("select txid_current()").Row()
	if row != nil {
		// the mock driver has no txid_current, ignore scan failures
		_ = row.Scan(&txid)
	}

	return &txFactory{
		tx:           tx,
		txid:         txid,
		resolved:     false,
		rollbackFlag: defaultRollbackPolicy,
	}, nil
}

// markedForRollback returns true if a transaction is flagged for rollback and false otherwise.
func (f *txFactory) markedForRollback() bool {
	return f.rollbackFlag
}
