package bot

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gymbot/internal/models"
	"gymbot/internal/state"
)

// Вопросы анкеты. Неверный ответ переспрашивается тем же вопросом.
const (
	metricsWeightQuestion     = "Ваш вес в кг (например 75,5):"
	metricsGoalQuestion       = "Цель тренировок:\n1 — набор массы\n2 — похудение\n3 — поддержание формы"
	metricsWorkoutsQuestion   = "Сколько тренировок в неделю? Введите число от 1 до 7:"
	metricsExperienceQuestion = "Стаж тренировок в годах (например 2,5):"
	metricsAgeQuestion        = "Ваш возраст:"
	metricsCommentQuestion    = "Комментарий для тренера. Если без комментария — отправьте любой один символ:"
)

// handleMetricsMenu входит в анкету. Если анкета уже заполнена,
// сначала развилка: использовать сохранённую или ввести заново.
func (b *Bot) handleMetricsMenu(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	user, err := b.currentUser(chatID)
	if err != nil {
		b.sendError(chatID, "Ошибка доступа к данным, попробуйте позже.", err)
		return
	}
	if user == nil {
		b.sendMessage(chatID, "Сначала зарегистрируйтесь: /start")
		return
	}

	saved, err := b.repo.Metrics.GetByUserID(user.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		b.sendError(chatID, "Ошибка доступа к данным, попробуйте позже.", err)
		return
	}

	if saved != nil {
		b.store.Begin(chatID, state.StateAwaitingMetricsDecision)
		b.sendMessageWithKeyboard(chatID,
			"У вас уже есть анкета:\n\n"+formatMetrics(saved)+
				"\n\n1 — использовать сохранённые\n2 — ввести заново",
			cancelKeyboard())
		return
	}

	b.store.Begin(chatID, state.StateAwaitingMetricsWeight)
	b.sendMessageWithKeyboard(chatID, metricsWeightQuestion, cancelKeyboard())
}

// handleMetricsDecision обрабатывает развилку на входе в анкету
func (b *Bot) handleMetricsDecision(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	switch strings.TrimSpace(message.Text) {
	case "1":
		b.store.Clear(chatID)
		b.sendMessageWithKeyboard(chatID,
			"Хорошо, оставляем сохранённую анкету.", b.mainKeyboard(chatID))
	case "2":
		b.store.Begin(chatID, state.StateAwaitingMetricsWeight)
		b.sendMessage(chatID, metricsWeightQuestion)
	default:
		b.sendMessage(chatID, "Ответьте 1 (использовать сохранённые) или 2 (ввести заново).")
	}
}

func (b *Bot) handleMetricsWeight(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	value, err := parseWeight(message.Text)
	if err != nil {
		b.sendMessage(chatID, err.Error()+"\n"+metricsWeightQuestion)
		return
	}

	b.store.Update(chatID, func(ctx *state.UserContext) {
		ctx.Metrics.Weight = value
		ctx.State = state.StateAwaitingMetricsGoal
	})
	b.sendMessage(chatID, metricsGoalQuestion)
}

func (b *Bot) handleMetricsGoal(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	goal, ok := models.ParseGoal(strings.TrimSpace(message.Text))
	if !ok {
		b.sendMessage(chatID, "Не понял цель.\n"+metricsGoalQuestion)
		return
	}

	b.store.Update(chatID, func(ctx *state.UserContext) {
		ctx.Metrics.Goal = goal
		ctx.State = state.StateAwaitingMetricsWorkouts
	})
	b.sendMessage(chatID, metricsWorkoutsQuestion)
}

func (b *Bot) handleMetricsWorkouts(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	value, err := parseWorkouts(message.Text)
	if err != nil {
		b.sendMessage(chatID, err.Error()+"\n"+metricsWorkoutsQuestion)
		return
	}

	b.store.Update(chatID, func(ctx *state.UserContext) {
		ctx.Metrics.WorkoutsPerWeek = value
		ctx.State = state.StateAwaitingMetricsExperience
	})
	b.sendMessage(chatID, metricsExperienceQuestion)
}

func (b *Bot) handleMetricsExperience(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	value, err := parseExperience(message.Text)
	if err != nil {
		b.sendMessage(chatID, err.Error()+"\n"+metricsExperienceQuestion)
		return
	}

	b.store.Update(chatID, func(ctx *state.UserContext) {
		ctx.Metrics.ExperienceYears = value
		ctx.State = state.StateAwaitingMetricsAge
	})
	b.sendMessage(chatID, metricsAgeQuestion)
}

func (b *Bot) handleMetricsAge(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	value, err := parseAge(message.Text)
	if err != nil {
		b.sendMessage(chatID, err.Error()+"\n"+metricsAgeQuestion)
		return
	}

	b.store.Update(chatID, func(ctx *state.UserContext) {
		ctx.Metrics.Age = value
		ctx.State = state.StateAwaitingMetricsComment
	})
	b.sendMessage(chatID, metricsCommentQuestion)
}

func (b *Bot) handleMetricsComment(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	comment := strings.TrimSpace(message.Text)
	if comment == "" {
		b.sendMessage(chatID, metricsCommentQuestion)
		return
	}

	user, err := b.currentUser(chatID)
	if err != nil || user == nil {
		b.store.Clear(chatID)
		b.sendError(chatID, "Сначала зарегистрируйтесь: /start", err)
		return
	}

	ctx := b.store.Get(chatID)
	metrics := ctx.Metrics
	metrics.UserID = user.ID
	metrics.Comment = comment

	if err := b.repo.Metrics.Upsert(&metrics); err != nil {
		b.store.Clear(chatID)
		b.sendError(chatID, "Не удалось сохранить анкету, попробуйте позже.", err)
		return
	}

	b.store.Clear(chatID)
	b.sendMessageWithKeyboard(chatID,
		"Анкета сохранена:\n\n"+formatMetrics(&metrics),
		b.mainKeyboard(chatID))
}

// formatMetrics собирает сводку анкеты. Односимвольный комментарий
// считается отсутствующим и в сводку не попадает.
func formatMetrics(m *models.Metrics) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Вес: %.1f кг\n", m.Weight))
	sb.WriteString(fmt.Sprintf("Цель: %s\n", m.Goal))
	sb.WriteString(fmt.Sprintf("Тренировок в неделю: %d\n", m.WorkoutsPerWeek))
	sb.WriteString(fmt.Sprintf("Стаж: %.1f лет\n", m.ExperienceYears))
	sb.WriteString(fmt.Sprintf("Возраст: %d", m.Age))
	if m.HasComment() {
		sb.WriteString("\nКомментарий: " + m.Comment)
	}
	return sb.String()
}
