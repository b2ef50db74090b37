// Package services содержит бизнес‑логику учёта посещений: запись визита,
// выборки за месяц и сводку для дашборда.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/visitdate"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
	"github.com/magabrotheeeer/gym-tracker/internal/storage"
)

// WorkoutRepository описывает операции хранилища с посещениями.
type WorkoutRepository interface {
	CreateWorkout(ctx context.Context, userID int64, visitedAt string) (int64, error)
	ListWorkouts(ctx context.Context, userID int64) ([]models.Workout, error)
	WorkoutExistsOnDay(ctx context.Context, userID int64, day string) (bool, error)
}

// Cache кеш списков посещений.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// AttendanceService реализует операции над посещениями.
type AttendanceService struct {
	workouts WorkoutRepository
	cache    Cache
	cacheTTL time.Duration
	log      *slog.Logger
}

// NewAttendanceService создает новый экземпляр AttendanceService.
// cache может быть nil: тогда списки всегда читаются из хранилища.
func NewAttendanceService(workouts WorkoutRepository, cache Cache, cacheTTL time.Duration, log *slog.Logger) *AttendanceService {
	return &AttendanceService{
		workouts: workouts,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func visitsKey(userID int64) string {
	return "visits:" + strconv.FormatInt(userID, 10)
}

// LogVisit записывает посещение за день date (2006-01-02) во время timeOfDay.
// Не больше одного посещения в календарный день.
func (s *AttendanceService) LogVisit(ctx context.Context, userID int64, date, timeOfDay string) (*models.Workout, error) {
	const op = "services.attendance.LogVisit"

	if date == "" {
		return nil, fmt.Errorf("%s: %w: date is required", op, models.ErrValidation)
	}
	visitedAt, err := visitdate.Combine(date, timeOfDay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrValidation, err)
	}

	day := visitdate.DayKey(visitedAt)
	exists, err := s.workouts.WorkoutExistsOnDay(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return nil, fmt.Errorf("%s: %w", op, models.ErrDuplicateVisit)
	}

	id, err := s.workouts.CreateWorkout(ctx, userID, visitedAt)
	if err != nil {
		if errors.Is(err, storage.ErrWorkoutExists) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDuplicateVisit)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, visitsKey(userID)); err != nil {
			s.log.Warn("failed to invalidate visits cache", sl.UserID(userID), sl.Err(err))
		}
	}

	s.log.Info("workout logged", sl.UserID(userID), slog.String("visited_at", visitedAt))
	return &models.Workout{ID: id, UserID: userID, VisitedAt: visitedAt}, nil
}

// ListVisits возвращает все посещения пользователя по возрастанию даты.
func (s *AttendanceService) ListVisits(ctx context.Context, userID int64) ([]models.Workout, error) {
	const op = "services.attendance.ListVisits"

	key := visitsKey(userID)
	if s.cache != nil {
		var cached []models.Workout
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("failed to read visits cache", sl.UserID(userID), sl.Err(err))
		} else if found {
			return cached, nil
		}
	}

	workouts, err := s.workouts.ListWorkouts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, workouts, s.cacheTTL); err != nil {
			s.log.Warn("failed to cache visits", sl.UserID(userID), sl.Err(err))
		}
	}
	return workouts, nil
}

// MonthlyCount возвращает число посещений в месяце ref.
// Записи с неразборчивой датой не учитываются.
func (s *AttendanceService) MonthlyCount(ctx context.Context, userID int64, ref time.Time) (int, error) {
	const op = "services.attendance.MonthlyCount"

	workouts, err := s.ListVisits(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return len(inMonth(workouts, ref)), nil
}

// MonthlyVisitDays возвращает отсортированные уникальные дни (2006-01-02) с посещениями в месяце ref.
func (s *AttendanceService) MonthlyVisitDays(ctx context.Context, userID int64, ref time.Time) ([]string, error) {
	const op = "services.attendance.MonthlyVisitDays"

	workouts, err := s.ListVisits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return distinctDays(inMonth(workouts, ref)), nil
}

// Summary собирает сводку за один проход по списку посещений.
func (s *AttendanceService) Summary(ctx context.Context, userID int64, ref time.Time) (*models.AttendanceSummary, error) {
	const op = "services.attendance.Summary"

	workouts, err := s.ListVisits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	month := inMonth(workouts, ref)
	return &models.AttendanceSummary{
		Total:          len(workouts),
		ThisMonthCount: len(month),
		VisitDays:      distinctDays(month),
		MonthLabel:     visitdate.MonthLabel(ref),
	}, nil
}

func inMonth(workouts []models.Workout, ref time.Time) []models.Workout {
	result := make([]models.Workout, 0, len(workouts))
	for _, w := range workouts {
		if visitdate.InMonth(visitdate.Parse(w.VisitedAt), ref) {
			result = append(result, w)
		}
	}
	return result
}

func distinctDays(workouts []models.Workout) []string {
	seen := make(map[string]struct{}, len(workouts))
	days := make([]string, 0, len(workouts))
	for _, w := range workouts {
		day := visitdate.DayKey(w.VisitedAt)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}
