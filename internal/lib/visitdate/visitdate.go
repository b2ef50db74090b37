// Package visitdate содержит функции для работы с датами посещений:
// терпимый к формату разбор сохранённых значений, фильтрацию по календарному месяцу
// и сборку даты и времени визита в единую строку.
package visitdate

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout формат календарной даты, который принимают формы.
	DateLayout = "2006-01-02"
	// DateTimeLayout формат, в котором хранится время визита.
	DateTimeLayout = "2006-01-02 15:04:05"
	// MonthLabelLayout человекочитаемая подпись месяца, например "May 2024".
	MonthLabelLayout = "January 2006"

	dayKeyLen      = len(DateLayout)
	dateTimeKeyLen = len(DateTimeLayout)
)

// storedLayouts перебираются по порядку; первый подошедший формат выигрывает.
var storedLayouts = []string{
	DateLayout,
	DateTimeLayout,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

// prefixLayouts применяются к первым 19 символам значения, если целиком оно не разобралось.
// Так читаются значения со смещением или иным хвостом, например "2024-05-03 10:00:00+00:00".
var prefixLayouts = []string{
	DateTimeLayout,
	"2006-01-02T15:04:05",
}

// ErrInvalidTime возвращается, если время визита задано не в формате HH:MM или HH:MM:SS.
var ErrInvalidTime = errors.New("invalid time of day")

// Parse разбирает сохранённую дату визита.
// Ошибки не возвращаются: при неудаче результатом будет нулевое время (минимальная дата),
// которое никогда не попадает в текущий месяц.
func Parse(value string) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range storedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if len(value) > dateTimeKeyLen {
		prefix := value[:dateTimeKeyLen]
		for _, layout := range prefixLayouts {
			if t, err := time.Parse(layout, prefix); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

// ParseDate строго разбирает календарную дату в формате 2006-01-02.
func ParseDate(value string) (time.Time, error) {
	const op = "visitdate.ParseDate"
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// InMonth сообщает, совпадают ли месяц и год у t и ref.
func InMonth(t, ref time.Time) bool {
	return t.Year() == ref.Year() && t.Month() == ref.Month()
}

// DayKey возвращает часть значения с календарным днём (первые 10 символов).
func DayKey(value string) string {
	value = strings.TrimSpace(value)
	if len(value) < dayKeyLen {
		return value
	}
	return value[:dayKeyLen]
}

// MonthLabel возвращает подпись месяца для страницы прогресса.
func MonthLabel(ref time.Time) string {
	return ref.Format(MonthLabelLayout)
}

// Combine собирает дату и необязательное время визита в строку формата DateTimeLayout.
// Пустое время означает полночь, HH:MM дополняется секундами.
func Combine(date, timeOfDay string) (string, error) {
	const op = "visitdate.Combine"

	day, err := ParseDate(date)
	if err != nil {
		return "", err
	}

	timeOfDay = strings.TrimSpace(timeOfDay)
	var clock time.Time
	switch strings.Count(timeOfDay, ":") {
	case 0:
		if timeOfDay != "" {
			return "", fmt.Errorf("%s: %w: %q", op, ErrInvalidTime, timeOfDay)
		}
	case 1:
		clock, err = time.Parse("15:04", timeOfDay)
	case 2:
		clock, err = time.Parse("15:04:05", timeOfDay)
	default:
		err = ErrInvalidTime
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w: %q", op, ErrInvalidTime, timeOfDay)
	}

	visitedAt := time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC)
	return visitedAt.Format(DateTimeLayout), nil
}

// FormatDay возвращает календарную дату в формате DateLayout или пустую строку для nil.
func FormatDay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
