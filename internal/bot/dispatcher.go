package bot

import (
	"regexp"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gymbot/internal/state"
)

// Команды верхнего уровня
const (
	commandStart = "start"
	commandHelp  = "help"
	commandAdmin = "admin"
)

// Подписи кнопок меню
const (
	btnCheckIn      = "Я в зале"
	btnBuildProgram = "📋 Составить программу"
	btnChangeName   = "✏️ Изменить имя"
	btnMetrics      = "📝 Мои данные"
	btnCancel       = "Отмена"

	btnAdminMenu    = "👑 Админ-меню"
	btnDailyReport  = "📊 Отчёт за день"
	btnPeriodReport = "📅 Отчёт за период"
	btnJournal      = "📖 Журнал посещений"
	btnBack         = "Назад"
)

// intent результат классификации входящего текста
type intent int

const (
	intentCommand intent = iota
	intentMenu
	intentDate
	intentFormat
	intentDecimal
	intentName
)

var (
	datePattern    = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)
	decimalPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
)

// dateWords относительные даты на двух языках
var dateWords = map[string]bool{
	"сегодня": true, "today": true,
	"вчера": true, "yesterday": true,
}

// formatWords словарь выбора формата на двух языках
var formatWords = map[string]bool{
	"1": true, "2": true,
	"фото": true, "картинка": true, "изображение": true,
	"image": true, "photo": true, "picture": true,
	"эксель": true, "таблица": true, "файл": true,
	"excel": true, "xlsx": true, "file": true,
}

// menuLabels фиксированный набор подписей кнопок, регистр не важен
var menuLabels = map[string]bool{}

func init() {
	for _, label := range []string{
		btnCheckIn, btnBuildProgram, btnChangeName, btnMetrics, btnCancel,
		btnAdminMenu, btnDailyReport, btnPeriodReport, btnJournal, btnBack,
	} {
		menuLabels[strings.ToLower(label)] = true
	}
}

// classify относит текст ровно к одному действию. Порядок правил
// фиксирован: команда, кнопка меню, дата, выбор формата, десятичное
// число, и наконец свободный текст как имя.
//
// Голые "1"/"2" исключены из числового правила, чтобы при ожидании
// выбора формата их забирало правило формата. Если же выбор формата
// не ожидается, "1"/"2" проваливаются до имени — поведение сохранено
// как есть и закреплено тестом.
func classify(text string, formatPending bool) intent {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	if strings.HasPrefix(trimmed, "/") {
		return intentCommand
	}
	if menuLabels[lower] {
		return intentMenu
	}
	if datePattern.MatchString(trimmed) || dateWords[lower] {
		return intentDate
	}
	if formatPending && formatWords[lower] {
		return intentFormat
	}
	normalized := strings.Replace(trimmed, ",", ".", 1)
	if decimalPattern.MatchString(normalized) && normalized != "1" && normalized != "2" {
		return intentDecimal
	}
	return intentName
}

// dispatch направляет сообщение обработчику. Шаги незавершённого
// мастера имеют приоритет над классификацией по образцу, но команды
// и кнопки меню всегда прерывают текущий диалог.
func (b *Bot) dispatch(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	if message.IsCommand() {
		b.handleCommand(message)
		return
	}

	current := b.store.State(chatID)
	if classify(text, current == state.StateAwaitingFormatSelection) == intentMenu {
		b.handleMenu(message)
		return
	}

	switch current {
	case state.StateAwaitingName:
		b.handleNameInput(message)
	case state.StateAwaitingCycleSelection:
		b.handleCycleSelection(message)
	case state.StateAwaitingBenchPress:
		b.handleBenchPressInput(message)
	case state.StateAwaitingFormatSelection:
		b.handleFormatSelection(message)
	case state.StateAwaitingSpecificDate:
		b.handleSpecificDateInput(message)
	case state.StateAwaitingStartDate:
		b.handleStartDateInput(message)
	case state.StateAwaitingEndDate:
		b.handleEndDateInput(message)
	case state.StateAwaitingMetricsDecision:
		b.handleMetricsDecision(message)
	case state.StateAwaitingMetricsWeight:
		b.handleMetricsWeight(message)
	case state.StateAwaitingMetricsGoal:
		b.handleMetricsGoal(message)
	case state.StateAwaitingMetricsWorkouts:
		b.handleMetricsWorkouts(message)
	case state.StateAwaitingMetricsExperience:
		b.handleMetricsExperience(message)
	case state.StateAwaitingMetricsAge:
		b.handleMetricsAge(message)
	case state.StateAwaitingMetricsComment:
		b.handleMetricsComment(message)
	default:
		b.handleStateless(message)
	}
}

// handleStateless обрабатывает текст вне диалога по правилам классификации
func (b *Bot) handleStateless(message *tgbotapi.Message) {
	switch classify(message.Text, false) {
	case intentDecimal:
		// Число без выбранного цикла: подсказываем начать с меню
		b.sendMessage(message.Chat.ID,
			"Сначала выберите цикл через «"+btnBuildProgram+"», потом введите жим.")
	default:
		// Свободный текст считается именем
		b.handleNameInput(message)
	}
}

// handleCommand маршрутизирует /команды
func (b *Bot) handleCommand(message *tgbotapi.Message) {
	switch message.Command() {
	case commandStart:
		b.handleStart(message)
	case commandHelp:
		b.handleHelp(message)
	case commandAdmin:
		b.handleAdminMenu(message)
	default:
		b.sendMessage(message.Chat.ID, "Пока я такого не умею =(")
	}
}

// handleMenu маршрутизирует кнопки меню
func (b *Bot) handleMenu(message *tgbotapi.Message) {
	switch strings.ToLower(strings.TrimSpace(message.Text)) {
	case strings.ToLower(btnCheckIn):
		b.handleCheckIn(message)
	case strings.ToLower(btnBuildProgram):
		b.handleBuildProgram(message)
	case strings.ToLower(btnChangeName):
		b.handleChangeName(message)
	case strings.ToLower(btnMetrics):
		b.handleMetricsMenu(message)
	case strings.ToLower(btnAdminMenu):
		b.handleAdminMenu(message)
	case strings.ToLower(btnDailyReport):
		b.handleDailyReportMenu(message)
	case strings.ToLower(btnPeriodReport):
		b.handlePeriodReportMenu(message)
	case strings.ToLower(btnJournal):
		b.handleJournal(message)
	case strings.ToLower(btnCancel), strings.ToLower(btnBack):
		b.handleCancel(message)
	}
}

// handleCancel прерывает текущий диалог
func (b *Bot) handleCancel(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	b.store.Clear(chatID)
	b.sendMessageWithKeyboard(chatID, "Хорошо, вернулись в меню.", b.mainKeyboard(chatID))
}
