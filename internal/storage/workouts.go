package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/gym-tracker/internal/models"
)

// CreateWorkout сохраняет посещение и возвращает его ID.
// Второе посещение за тот же день отклоняется уникальным индексом и возвращается как ErrWorkoutExists.
func (s *Storage) CreateWorkout(ctx context.Context, userID int64, visitedAt string) (int64, error) {
	const op = "storage.CreateWorkout"

	query := `INSERT INTO workouts (user_id, visited_at)
			  VALUES ($1, $2)
			  RETURNING id`
	var id int64
	if err := s.DB.QueryRowContext(ctx, query, userID, visitedAt).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, ErrWorkoutExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ListWorkouts возвращает все посещения пользователя по возрастанию даты.
func (s *Storage) ListWorkouts(ctx context.Context, userID int64) ([]models.Workout, error) {
	const op = "storage.ListWorkouts"

	query := `SELECT id, user_id, visited_at
			  FROM workouts
			  WHERE user_id = $1
			  ORDER BY visited_at, id`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Workout, 0)
	for rows.Next() {
		var w models.Workout
		if err := rows.Scan(&w.ID, &w.UserID, &w.VisitedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// WorkoutExistsOnDay проверяет, есть ли у пользователя посещение в день day (формат 2006-01-02).
// Сравнивается префикс сохранённого значения с календарным днём.
func (s *Storage) WorkoutExistsOnDay(ctx context.Context, userID int64, day string) (bool, error) {
	const op = "storage.WorkoutExistsOnDay"

	query := `SELECT EXISTS (
				  SELECT 1 FROM workouts
				  WHERE user_id = $1 AND substr(visited_at, 1, 10) = $2
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, userID, day).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}
