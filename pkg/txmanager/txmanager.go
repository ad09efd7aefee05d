package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/helderalustau/kiagenda-beauty-hub-sub000/pkg/dbmetrics"
)

// Максимум попыток сериализуемой транзакции при serialization failure
const maxSerializableAttempts = 3

// TransactionManager менеджер транзакций поверх обёрнутой метриками БД
type TransactionManager struct {
	db *dbmetrics.DB
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db *dbmetrics.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, nil, fn)
}

// DoSerializable выполняет fn в сериализуемой транзакции
// Используется для операций, требующих строгой защиты от гонок
// (например, проверка доступности слота + создание записи).
//
// При serialization failure postgres (SQLSTATE 40001) транзакция повторяется
// целиком: повторный запуск fn видит результат победившей транзакции и
// возвращает доменную ошибку (например, "слот занят") вместо инфраструктурной
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return retrySerializable(ctx, func() error {
		return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
	})
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("txmanager: begin transaction: %w", err)
	}

	txCtx := dbmetrics.WithTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("txmanager: rollback after error %v: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("txmanager: commit transaction: %w", err)
	}

	return nil
}

// retrySerializable повторяет run, пока тот завершается serialization failure
// и не исчерпан лимит попыток. Любая другая ошибка возвращается сразу
func retrySerializable(ctx context.Context, run func() error) error {
	var err error
	for attempt := 1; attempt <= maxSerializableAttempts; attempt++ {
		err = run()
		if err == nil || !isSerializationFailure(err) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}

// isSerializationFailure проверяет, что ошибка - serialization failure
// postgres (SQLSTATE 40001): проигравшая сериализуемая транзакция
func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "40001"
}
