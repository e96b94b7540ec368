package bot

import (
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gymbot/internal/state"
)

// handleStart регистрирует нового пользователя или приветствует старого
func (b *Bot) handleStart(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	user, err := b.currentUser(chatID)
	if err != nil {
		b.sendError(chatID, "Ошибка доступа к данным, попробуйте позже.", err)
		return
	}

	if user != nil {
		b.store.Clear(chatID)
		b.sendMessageWithKeyboard(chatID,
			fmt.Sprintf("С возвращением, %s! Чем займёмся?", user.Name),
			b.mainKeyboard(chatID))
		return
	}

	role := "user"
	if b.config.AdminChatID != 0 && chatID == b.config.AdminChatID {
		role = "admin"
	}
	if _, err := b.repo.User.Create(chatID, message.From.FirstName, role); err != nil {
		b.sendError(chatID, "Не удалось зарегистрироваться, попробуйте позже.", err)
		return
	}

	b.store.Begin(chatID, state.StateAwaitingName)
	b.sendMessage(chatID, "Добро пожаловать в зал! Как вас записать? Введите имя:")
}

// handleHelp показывает краткую справку
func (b *Bot) handleHelp(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	b.store.Clear(chatID)
	b.sendMessageWithKeyboard(chatID,
		"Что я умею:\n"+
			"• «"+btnCheckIn+"» — отметить посещение за сегодня\n"+
			"• «"+btnBuildProgram+"» — программа по вашему жиму лёжа\n"+
			"• «"+btnMetrics+"» — анкета с вашими данными\n"+
			"• «"+btnChangeName+"» — сменить имя в журнале",
		b.mainKeyboard(chatID))
}

// handleCheckIn отмечает посещение за сегодня. Отметка — действие
// верхнего уровня: незавершённый диалог сбрасывается до любых проверок.
func (b *Bot) handleCheckIn(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	b.store.Clear(chatID)

	user, err := b.currentUser(chatID)
	if err != nil {
		b.sendError(chatID, "Ошибка доступа к данным, попробуйте позже.", err)
		return
	}
	if user == nil {
		b.sendMessage(chatID, "Сначала зарегистрируйтесь: /start")
		return
	}

	created, err := b.repo.Visit.CheckIn(user.ID, time.Now())
	if err != nil {
		b.sendError(chatID, "Не удалось записать посещение, попробуйте позже.", err)
		return
	}
	if !created {
		b.sendMessage(chatID, "Вы уже отметились сегодня 💪")
		return
	}

	total, err := b.repo.Visit.CountByUser(user.ID)
	if err != nil {
		log.Printf("Ошибка подсчёта посещений [chat=%d]: %v", chatID, err)
		b.sendMessage(chatID, "Посещение записано. Хорошей тренировки!")
		return
	}
	b.sendMessage(chatID, fmt.Sprintf(
		"Посещение записано. Хорошей тренировки!\nВсего посещений: %d", total))
}

// handleChangeName запускает смену имени
func (b *Bot) handleChangeName(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	b.store.Begin(chatID, state.StateAwaitingName)
	b.sendMessageWithKeyboard(chatID, "Введите новое имя:", cancelKeyboard())
}

// handleNameInput сохраняет введённое имя. Сюда же попадает любой
// свободный текст вне диалога: он считается именем.
func (b *Bot) handleNameInput(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	name := strings.TrimSpace(message.Text)

	if err := validateName(name); err != nil {
		b.sendMessage(chatID, err.Error()+" Введите имя ещё раз:")
		return
	}

	user, err := b.currentUser(chatID)
	if err != nil {
		b.sendError(chatID, "Ошибка доступа к данным, попробуйте позже.", err)
		return
	}
	if user == nil {
		b.store.Clear(chatID)
		b.sendMessage(chatID, "Сначала зарегистрируйтесь: /start")
		return
	}

	if err := b.repo.User.UpdateName(chatID, name); err != nil {
		b.sendError(chatID, "Не удалось сохранить имя, попробуйте позже.", err)
		return
	}

	b.store.Clear(chatID)
	b.sendMessageWithKeyboard(chatID,
		fmt.Sprintf("Записал: %s. Увидимся в зале!", name),
		b.mainKeyboard(chatID))
}
