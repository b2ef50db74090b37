// Package services содержит планировщик напоминаний об окончании абонемента.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/gym-tracker/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// MembershipRepository ищет абонементы, которые заканчиваются в указанный день.
type MembershipRepository interface {
	FindMembershipsExpiringOn(ctx context.Context, day time.Time) ([]*models.ExpiryNotice, error)
}

// ReminderService периодически публикует напоминания в очередь уведомлений.
type ReminderService struct {
	repo      MembershipRepository
	publisher rabbitmq.Publisher
	interval  time.Duration
	daysAhead int
	now       func() time.Time
	log       *slog.Logger
}

// NewReminderService создает новый экземпляр ReminderService.
func NewReminderService(repo MembershipRepository, publisher rabbitmq.Publisher, interval time.Duration, daysAhead int, log *slog.Logger) *ReminderService {
	return &ReminderService{
		repo:      repo,
		publisher: publisher,
		interval:  interval,
		daysAhead: daysAhead,
		now:       time.Now,
		log:       log,
	}
}

// Run выполняет проверку сразу и затем каждые interval, пока не отменён ctx.
func (s *ReminderService) Run(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil {
		s.log.Error("failed to send expiry reminders", sl.Err(err))
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.log.Error("failed to send expiry reminders", sl.Err(err))
			}
		}
	}
}

// RunOnce публикует по сообщению на каждый абонемент, истекающий через daysAhead дней.
// Ошибка публикации одного сообщения не прерывает остальные.
func (s *ReminderService) RunOnce(ctx context.Context) (int, error) {
	const op = "services.reminder.RunOnce"

	now := s.now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, s.daysAhead)

	notices, err := s.repo.FindMembershipsExpiringOn(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(notices) == 0 {
		s.log.Info("no expiring memberships found", slog.String("day", day.Format(time.DateOnly)))
		return 0, nil
	}
	s.log.Info("found expiring memberships", slog.Int("count", len(notices)))

	published := 0
	for _, notice := range notices {
		err := rabbitmq.PublishMessage(s.publisher, rabbitmq.NotificationsExchange, rabbitmq.ExpiringRoutingKey, notice)
		if err != nil {
			s.log.Error("failed to publish message", slog.String("username", notice.Username), sl.Err(err))
			continue
		}
		published++
	}
	return published, nil
}
