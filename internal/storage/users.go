package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

const userColumns = `id, username, password_hash, email, last_payment_date, expiry_date, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var lastPayment, expiry sql.NullTime
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email,
		&lastPayment, &expiry, &u.CreatedAt); err != nil {
		return nil, err
	}
	if lastPayment.Valid {
		u.LastPaymentDate = &lastPayment.Time
	}
	if expiry.Valid {
		u.ExpiryDate = &expiry.Time
	}
	return &u, nil
}

// CreateUser сохраняет нового пользователя и возвращает его ID.
// Конфликт по username определяется по ограничению уникальности и возвращается как ErrUserExists.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.CreateUser"

	query := `INSERT INTO users (username, password_hash, email, last_payment_date, expiry_date)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var id int64
	err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, user.Email,
		nullDate(user.LastPaymentDate), nullDate(user.ExpiryDate)).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetUserByUsername возвращает пользователя по username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByID возвращает пользователя по ID.
func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUserByID"

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdatePayment перезаписывает дату оплаты и дату окончания абонемента одним запросом.
func (s *Storage) UpdatePayment(ctx context.Context, userID int64, paymentDate, expiryDate time.Time) error {
	const op = "storage.UpdatePayment"

	query := `UPDATE users
			  SET last_payment_date = $1, expiry_date = $2
			  WHERE id = $3`
	res, err := s.DB.ExecContext(ctx, query, paymentDate, expiryDate, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// FindMembershipsExpiringOn возвращает пользователей, чей абонемент заканчивается в указанный день.
func (s *Storage) FindMembershipsExpiringOn(ctx context.Context, day time.Time) ([]*models.ExpiryNotice, error) {
	const op = "storage.FindMembershipsExpiringOn"

	query := `SELECT username, email, expiry_date
			  FROM users
			  WHERE expiry_date = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ExpiryNotice
	for rows.Next() {
		var n models.ExpiryNotice
		if err := rows.Scan(&n.Username, &n.Email, &n.ExpiryDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func nullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
