package storage

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
)

var (
	identifierRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	columnTypeRe = regexp.MustCompile(`^[A-Z][A-Z0-9 ()]*$`)
)

// AddColumnIfNotExists добавляет столбец в существующую таблицу, только если его ещё нет.
// Возвращает true, если столбец был добавлен. Повторные вызовы безопасны.
func (s *Storage) AddColumnIfNotExists(ctx context.Context, table, column, columnType string) (bool, error) {
	const op = "storage.AddColumnIfNotExists"

	if !identifierRe.MatchString(table) || !identifierRe.MatchString(column) {
		return false, fmt.Errorf("%s: invalid identifier %q.%q", op, table, column)
	}
	if !columnTypeRe.MatchString(columnType) {
		return false, fmt.Errorf("%s: invalid column type %q", op, columnType)
	}

	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2
		)`, table, column).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return false, nil
	}

	query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s",
		pgx.Identifier{table}.Sanitize(), pgx.Identifier{column}.Sanitize(), columnType)
	if _, err := s.DB.ExecContext(ctx, query); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// EnsurePaymentColumns гарантирует наличие nullable‑столбцов с датами оплаты в таблице users.
func (s *Storage) EnsurePaymentColumns(ctx context.Context) error {
	const op = "storage.EnsurePaymentColumns"
	for _, column := range []string{"last_payment_date", "expiry_date"} {
		if _, err := s.AddColumnIfNotExists(ctx, "users", column, "DATE"); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}
