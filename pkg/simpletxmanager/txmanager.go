package simpletxmanager

import (
	"context"
	"database/sql"

	"github.com/m04kA/CWP-AllocationService/pkg/dbmetrics"
	"github.com/m04kA/CWP-AllocationService/pkg/txmanager"
)

// beginnerAdapter адаптирует *sql.DB к интерфейсу txmanager.TxBeginner
// (*sql.Tx реализует dbmetrics.TxExecutor, но сигнатура BeginTx у *sql.DB
// возвращает конкретный тип)
type beginnerAdapter struct {
	db *sql.DB
}

func (a beginnerAdapter) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	return a.db.BeginTx(ctx, opts)
}

// NewTransactionManager создает менеджер транзакций над чистым *sql.DB,
// без обёртки метрик
func NewTransactionManager(db *sql.DB) *txmanager.TransactionManager {
	return txmanager.NewTransactionManager(beginnerAdapter{db: db})
}
