// Package services содержит бизнес‑логику участников клуба: регистрацию,
// аутентификацию, профиль и учёт оплаты абонемента.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/visitdate"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
	"github.com/magabrotheeeer/gym-tracker/internal/storage"
)

// UserRepository описывает операции хранилища, которые нужны сервису.
type UserRepository interface {
	// CreateUser сохраняет пользователя; при конфликте username возвращает storage.ErrUserExists.
	CreateUser(ctx context.Context, user models.User) (int64, error)
	// GetUserByUsername возвращает пользователя или storage.ErrUserNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// GetUserByID возвращает пользователя или storage.ErrUserNotFound.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	// UpdatePayment перезаписывает дату оплаты и дату окончания.
	UpdatePayment(ctx context.Context, userID int64, paymentDate, expiryDate time.Time) error
}

// Hasher сервис учётных данных.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) error
}

// DemoAccount учётные данные демо‑пользователя.
type DemoAccount struct {
	Username string
	Password string
	Email    string
}

// MembershipService реализует операции над участниками клуба.
type MembershipService struct {
	users  UserRepository
	hasher Hasher
	log    *slog.Logger
}

// NewMembershipService создает новый экземпляр MembershipService.
func NewMembershipService(users UserRepository, hasher Hasher, log *slog.Logger) *MembershipService {
	return &MembershipService{
		users:  users,
		hasher: hasher,
		log:    log,
	}
}

// SignUp регистрирует пользователя. Поля оплаты остаются пустыми.
// Занятое имя определяется по конфликту при вставке, а не предварительной проверкой.
func (s *MembershipService) SignUp(ctx context.Context, username, password, email string) (int64, error) {
	const op = "services.membership.SignUp"

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || password == "" || email == "" {
		return 0, fmt.Errorf("%s: %w: username, password and email are required", op, models.ErrValidation)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.users.CreateUser(ctx, models.User{
		Username:     username,
		PasswordHash: digest,
		Email:        email,
	})
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			return 0, fmt.Errorf("%s: %w", op, models.ErrDuplicateUsername)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user signed up", sl.UserID(id), slog.String("username", username))
	return id, nil
}

// Authenticate проверяет имя пользователя и пароль.
// Неизвестный пользователь и неверный пароль дают одну и ту же ошибку models.ErrAuthentication.
func (s *MembershipService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	const op = "services.membership.Authenticate"

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%s: %w: username and password are required", op, models.ErrValidation)
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrAuthentication)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.hasher.Verify(password, user.PasswordHash); err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrAuthentication)
	}

	return user, nil
}

// RecordPayment записывает дату оплаты и вычисляет дату окончания: +30 дней.
// Предыдущие значения перезаписываются безусловно.
func (s *MembershipService) RecordPayment(ctx context.Context, userID int64, paymentDate string) (*models.Payment, error) {
	const op = "services.membership.RecordPayment"

	paidOn, err := visitdate.ParseDate(paymentDate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrValidation, err)
	}
	expiry := ExpiryFor(paidOn)

	if err := s.users.UpdatePayment(ctx, userID, paidOn, expiry); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("payment recorded", sl.UserID(userID),
		slog.String("payment_date", paidOn.Format(visitdate.DateLayout)),
		slog.String("expiry_date", expiry.Format(visitdate.DateLayout)))

	return &models.Payment{
		UserID:          userID,
		LastPaymentDate: paidOn,
		ExpiryDate:      expiry,
	}, nil
}

// GetProfile возвращает пользователя по имени.
func (s *MembershipService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	const op = "services.membership.GetProfile"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// GetProfileByID возвращает пользователя по идентификатору из сессии.
func (s *MembershipService) GetProfileByID(ctx context.Context, userID int64) (*models.User, error) {
	const op = "services.membership.GetProfileByID"

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// SeedDemoUser создаёт демо‑пользователя, если его ещё нет: оплата сегодня,
// абонемент на календарный год. Повторный вызов ничего не меняет.
func (s *MembershipService) SeedDemoUser(ctx context.Context, demo DemoAccount, now time.Time) error {
	const op = "services.membership.SeedDemoUser"

	_, err := s.users.GetUserByUsername(ctx, demo.Username)
	if err == nil {
		s.log.Debug("demo user already exists", slog.String("username", demo.Username))
		return nil
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	digest, err := s.hasher.Hash(demo.Password)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	today := truncateToDay(now)
	expiry := today.AddDate(1, 0, 0)
	id, err := s.users.CreateUser(ctx, models.User{
		Username:        demo.Username,
		PasswordHash:    digest,
		Email:           demo.Email,
		LastPaymentDate: &today,
		ExpiryDate:      &expiry,
	})
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("demo user seeded", sl.UserID(id), slog.String("username", demo.Username))
	return nil
}

// ExpiryFor возвращает дату окончания абонемента, оплаченного в день paidOn.
func ExpiryFor(paidOn time.Time) time.Time {
	return truncateToDay(paidOn).AddDate(0, 0, models.MembershipDays)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
