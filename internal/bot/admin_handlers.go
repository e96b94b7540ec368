package bot

import (
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gymbot/internal/chart"
	"gymbot/internal/state"
)

const dateQuestion = "Введите дату в формате ДД.ММ.ГГГГ, «сегодня» или «вчера»:"

// handleAdminMenu показывает меню администратора
func (b *Bot) handleAdminMenu(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if !b.isAdmin(chatID) {
		b.sendMessage(chatID, "Эта команда доступна только администратору.")
		return
	}

	b.store.Clear(chatID)
	b.sendMessageWithKeyboard(chatID, "Админ-меню. Выберите отчёт:", adminKeyboard())
}

// handleDailyReportMenu запрашивает дату отчёта за день
func (b *Bot) handleDailyReportMenu(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if !b.isAdmin(chatID) {
		b.sendMessage(chatID, "Эта команда доступна только администратору.")
		return
	}

	b.store.Begin(chatID, state.StateAwaitingSpecificDate)
	b.sendMessageWithKeyboard(chatID, "За какой день нужен отчёт?\n"+dateQuestion, cancelKeyboard())
}

// handleSpecificDateInput строит отчёт посещений за один день
func (b *Bot) handleSpecificDateInput(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	date, err := parseReportDate(message.Text, time.Now())
	if err != nil {
		b.sendMessage(chatID, err.Error())
		return
	}

	names, err := b.repo.Visit.VisitorsByDate(date)
	if err != nil {
		b.sendError(chatID, "Не удалось получить отчёт, попробуйте позже.", err)
		return
	}

	b.store.Clear(chatID)

	if len(names) == 0 {
		b.sendMessageWithKeyboard(chatID,
			fmt.Sprintf("За %s никто не отмечался.", date.Format("02.01.2006")),
			adminKeyboard())
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Посещения за %s (всего %d):\n\n", date.Format("02.01.2006"), len(names)))
	for i, name := range names {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, name))
	}
	b.sendMessageWithKeyboard(chatID, sb.String(), adminKeyboard())
}

// handlePeriodReportMenu запрашивает начало периода
func (b *Bot) handlePeriodReportMenu(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if !b.isAdmin(chatID) {
		b.sendMessage(chatID, "Эта команда доступна только администратору.")
		return
	}

	b.store.Begin(chatID, state.StateAwaitingStartDate)
	b.sendMessageWithKeyboard(chatID, "Начало периода.\n"+dateQuestion, cancelKeyboard())
}

// handleStartDateInput запоминает начало периода и спрашивает конец
func (b *Bot) handleStartDateInput(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	date, err := parseReportDate(message.Text, time.Now())
	if err != nil {
		b.sendMessage(chatID, err.Error())
		return
	}

	b.store.Update(chatID, func(ctx *state.UserContext) {
		ctx.PendingStartDate = date
		ctx.State = state.StateAwaitingEndDate
	})
	b.sendMessage(chatID, "Конец периода.\n"+dateQuestion)
}

// handleEndDateInput строит отчёт за период: текстовая сводка по
// пользователям и график посещаемости по дням
func (b *Bot) handleEndDateInput(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	end, err := parseReportDate(message.Text, time.Now())
	if err != nil {
		b.sendMessage(chatID, err.Error())
		return
	}

	start := b.store.Get(chatID).PendingStartDate
	if start.IsZero() {
		// Начало периода потерялось, начинаем диалог заново
		b.handlePeriodReportMenu(message)
		return
	}
	if end.Before(start) {
		b.sendMessage(chatID,
			fmt.Sprintf("Конец периода раньше начала (%s). Введите дату не раньше начала:",
				start.Format("02.01.2006")))
		return
	}

	report, err := b.repo.Visit.ReportByPeriod(start, end)
	if err != nil {
		b.sendError(chatID, "Не удалось получить отчёт, попробуйте позже.", err)
		return
	}

	b.store.Clear(chatID)

	period := fmt.Sprintf("%s — %s", start.Format("02.01.2006"), end.Format("02.01.2006"))
	if len(report) == 0 {
		b.sendMessageWithKeyboard(chatID, "За период "+period+" посещений не было.", adminKeyboard())
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Посещения за %s:\n\n", period))
	total := 0
	for i, row := range report {
		sb.WriteString(fmt.Sprintf("%d. %s — %d\n", i+1, row.Name, row.Visits))
		total += row.Visits
	}
	sb.WriteString(fmt.Sprintf("\nВсего отметок: %d", total))
	b.sendMessageWithKeyboard(chatID, sb.String(), adminKeyboard())

	counts, err := b.repo.Visit.CountPerDay(start, end)
	if err != nil {
		log.Printf("Не удалось построить данные графика [chat=%d]: %v", chatID, err)
		return
	}
	png, err := chart.VisitsPerDay(counts, start, end)
	if err != nil {
		log.Printf("Не удалось построить график [chat=%d]: %v", chatID, err)
		return
	}
	b.sendPhotoBytes(chatID, "visits.png", png, "Посещаемость по дням")
}

// journalLimit ограничивает журнал свежими записями, чтобы картинка
// оставалась читаемой
const journalLimit = 200

// handleJournal собирает журнал посещений в xlsx, рендерит его в PNG
// и отправляет картинкой. При сбое рендера уходит сам файл.
func (b *Bot) handleJournal(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if !b.isAdmin(chatID) {
		b.sendMessage(chatID, "Эта команда доступна только администратору.")
		return
	}

	journal, err := b.repo.Visit.Journal(journalLimit)
	if err != nil {
		b.sendError(chatID, "Не удалось получить журнал, попробуйте позже.", err)
		return
	}
	if len(journal) == 0 {
		b.sendMessageWithKeyboard(chatID, "Журнал пока пуст.", adminKeyboard())
		return
	}

	path, err := b.buildJournalWorkbook(journal)
	if err != nil {
		b.sendError(chatID, "Не удалось собрать журнал, попробуйте позже.", err)
		return
	}

	png, err := b.converter.Convert(path)
	if err != nil {
		log.Printf("Рендер журнала не удался, отправляю файл [chat=%d]: %v", chatID, err)
		b.sendDocument(chatID, path, "Журнал посещений")
	} else {
		b.sendPhotoBytes(chatID, "journal.png", png,
			fmt.Sprintf("Журнал посещений (последние %d записей)", len(journal)))
	}

	if b.sheets != nil {
		rows := journal
		go func() {
			if err := b.sheets.PushJournal(rows); err != nil {
				log.Printf("Не удалось выгрузить журнал в Google Sheets: %v", err)
			} else {
				log.Println("Журнал выгружен в Google Sheets")
			}
		}()
	}
}
