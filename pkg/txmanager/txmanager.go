package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/CWP-AllocationService/pkg/dbmetrics"
)

// DefaultSerializableAttempts количество попыток сериализуемой транзакции по умолчанию
const DefaultSerializableAttempts = 3

var (
	// ErrBeginTx возвращается при ошибке начала транзакции
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx возвращается при ошибке коммита транзакции
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")

	// ErrSerialization возвращается, когда сериализуемая транзакция не смогла
	// завершиться за отведённое число попыток из-за конфликта сериализации
	ErrSerialization = errors.New("txmanager: serialization conflict, attempts exhausted")
)

// TxBeginner интерфейс для начала транзакций
// Поддерживает *dbmetrics.DB и адаптеры над *sql.DB
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager управляет транзакциями через контекст
// Транзакция кладется в контекст (dbmetrics.WithTx), репозитории достают её
// через dbmetrics.GetExecutor и выполняют запросы в её рамках
type TransactionManager struct {
	db       TxBeginner
	attempts int
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{db: db, attempts: DefaultSerializableAttempts}
}

// WithAttempts задает число попыток для DoSerializable
func (m *TransactionManager) WithAttempts(attempts int) *TransactionManager {
	if attempts > 0 {
		m.attempts = attempts
	}
	return m
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{}, fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

// DoSerializable выполняет fn в SERIALIZABLE транзакции
// При конфликте сериализации (40001/40P01) повторяет попытку, всего не более
// attempts раз; после исчерпания попыток возвращает ErrSerialization
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	for i := 0; i < m.attempts; i++ {
		lastErr = m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
		if lastErr == nil || !IsSerializationFailure(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("%w: %v", ErrSerialization, lastErr)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBeginTx, err)
	}

	txCtx := dbmetrics.WithTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		if IsSerializationFailure(err) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrCommitTx, err)
	}

	return nil
}

// IsSerializationFailure возвращает true для ошибок сериализации PostgreSQL
// 40001 serialization_failure, 40P01 deadlock_detected
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}
