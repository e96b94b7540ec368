package models

import (
	"database/sql"
	"time"
)

// User представляет посетителя зала
type User struct {
	ID         int
	TelegramID int64
	Name       string
	Role       string // "user" или "admin"
	BenchPress sql.NullFloat64
	CreatedAt  time.Time
}

// IsAdmin проверяет роль пользователя
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// Visit представляет отметку посещения зала за конкретный день
type Visit struct {
	ID        int
	UserID    int
	VisitDate time.Time
	CreatedAt time.Time
}

// Goal цель тренировок из анкеты
type Goal string

const (
	GoalMuscleGain  Goal = "набор массы"
	GoalWeightLoss  Goal = "похудение"
	GoalMaintenance Goal = "поддержание формы"
)

// ParseGoal разбирает ввод анкеты: цифра 1-3 либо название цели дословно
func ParseGoal(text string) (Goal, bool) {
	switch text {
	case "1":
		return GoalMuscleGain, true
	case "2":
		return GoalWeightLoss, true
	case "3":
		return GoalMaintenance, true
	}
	switch Goal(text) {
	case GoalMuscleGain, GoalWeightLoss, GoalMaintenance:
		return Goal(text), true
	}
	return "", false
}

// Metrics анкета пользователя (вес, цель, стаж и т.д.)
type Metrics struct {
	UserID          int
	Weight          float64
	Goal            Goal
	WorkoutsPerWeek int
	ExperienceYears float64
	Age             int
	Comment         string
	UpdatedAt       time.Time
}

// HasComment сообщает, нужно ли показывать комментарий в сводке.
// Односимвольный ввод означает "без комментария".
func (m *Metrics) HasComment() bool {
	return len([]rune(m.Comment)) > 1
}

// VisitReportRow строка отчёта за период: пользователь и число посещений
type VisitReportRow struct {
	Name   string
	Visits int
}

// JournalRow строка журнала посещений
type JournalRow struct {
	VisitDate time.Time
	Name      string
}
