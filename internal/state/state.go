// Package state хранит диалоговые состояния пользователей.
// Каждый пользователь в любой момент находится ровно в одном состоянии;
// новая команда верхнего уровня сбрасывает незавершённый диалог.
package state

import (
	"sync"
	"time"

	"gymbot/internal/models"
)

// DialogState представляет текущий шаг диалога с пользователем
type DialogState string

const (
	StateIdle DialogState = ""

	// Регистрация и смена имени
	StateAwaitingName DialogState = "awaiting_display_name"

	// Составление программы
	StateAwaitingCycleSelection  DialogState = "awaiting_cycle_selection"
	StateAwaitingBenchPress      DialogState = "awaiting_bench_press"
	StateAwaitingFormatSelection DialogState = "awaiting_format_selection"

	// Отчёты администратора. Дата начала периода хранится в контексте
	// пользователя, а не в токене состояния.
	StateAwaitingSpecificDate DialogState = "awaiting_specific_date"
	StateAwaitingStartDate    DialogState = "awaiting_start_date"
	StateAwaitingEndDate      DialogState = "awaiting_end_date"

	// Анкета: развилка на входе и шесть линейных вопросов
	StateAwaitingMetricsDecision   DialogState = "awaiting_metrics_decision"
	StateAwaitingMetricsWeight     DialogState = "awaiting_metrics_weight"
	StateAwaitingMetricsGoal       DialogState = "awaiting_metrics_goal"
	StateAwaitingMetricsWorkouts   DialogState = "awaiting_metrics_workouts"
	StateAwaitingMetricsExperience DialogState = "awaiting_metrics_experience"
	StateAwaitingMetricsAge        DialogState = "awaiting_metrics_age"
	StateAwaitingMetricsComment    DialogState = "awaiting_metrics_comment"
)

// UserContext хранит состояние и накопленные значения текущего диалога
type UserContext struct {
	State DialogState

	// Составление программы
	CycleID    string
	BenchPress float64

	// Отчёт за период
	PendingStartDate time.Time

	// Черновик анкеты
	Metrics models.Metrics
}

// Store потокобезопасное хранилище диалоговых состояний.
// Сообщения разных пользователей не блокируют друг друга дольше,
// чем на время копирования контекста.
type Store struct {
	mu    sync.RWMutex
	users map[int64]*UserContext
}

// NewStore создаёт пустое хранилище
func NewStore() *Store {
	return &Store{users: make(map[int64]*UserContext)}
}

// State возвращает текущее состояние пользователя
func (s *Store) State(chatID int64) DialogState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ctx, ok := s.users[chatID]; ok {
		return ctx.State
	}
	return StateIdle
}

// Get возвращает копию контекста пользователя
func (s *Store) Get(chatID int64) UserContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ctx, ok := s.users[chatID]; ok {
		return *ctx
	}
	return UserContext{}
}

// Set переводит пользователя в состояние, сохраняя накопленные значения
func (s *Store) Set(chatID int64, st DialogState) {
	s.Update(chatID, func(ctx *UserContext) {
		ctx.State = st
	})
}

// Update атомарно изменяет контекст пользователя. Два быстрых сообщения
// от одного пользователя не теряют записи полей мастера.
func (s *Store) Update(chatID int64, fn func(*UserContext)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, ok := s.users[chatID]
	if !ok {
		ctx = &UserContext{}
		s.users[chatID] = ctx
	}
	fn(ctx)
}

// Begin сбрасывает прежний диалог и начинает новый с чистым контекстом.
// Используется командами верхнего уровня, чтобы значения одного потока
// не протекали в другой.
func (s *Store) Begin(chatID int64, st DialogState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[chatID] = &UserContext{State: st}
}

// Clear завершает диалог пользователя
func (s *Store) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, chatID)
}
