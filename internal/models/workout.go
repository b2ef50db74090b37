package models

// Workout одно посещение спортзала.
// VisitedAt хранится строкой в том виде, в котором её записало хранилище
// (обычно "2006-01-02 15:04:05"), поэтому разбирать её нужно терпимо к формату.
type Workout struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	VisitedAt string `json:"visited_at"`
}

// AttendanceSummary сводка посещений пользователя для дашборда и страницы прогресса.
type AttendanceSummary struct {
	Total          int      `json:"total_workouts"`
	ThisMonthCount int      `json:"this_month_count"`
	VisitDays      []string `json:"dates"`
	MonthLabel     string   `json:"month"`
}
