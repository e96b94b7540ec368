package bot

import (
	"database/sql"
	"errors"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gymbot/internal/models"
)

// sendError отправляет пользователю сообщение об ошибке и пишет её в лог
func (b *Bot) sendError(chatID int64, userMessage string, err error) {
	if err != nil {
		log.Printf("Ошибка [chat=%d]: %v", chatID, err)
	}
	msg := tgbotapi.NewMessage(chatID, userMessage)
	if _, sendErr := b.api.Send(msg); sendErr != nil {
		log.Printf("Не удалось отправить сообщение об ошибке [chat=%d]: %v", chatID, sendErr)
	}
}

// sendMessage отправляет текст с логированием ошибки доставки
func (b *Bot) sendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	if err != nil {
		log.Printf("Не удалось отправить сообщение [chat=%d]: %v", chatID, err)
	}
	return err
}

// sendMessageWithKeyboard отправляет текст с клавиатурой
func (b *Bot) sendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	_, err := b.api.Send(msg)
	if err != nil {
		log.Printf("Не удалось отправить сообщение с клавиатурой [chat=%d]: %v", chatID, err)
	}
	return err
}

// sendPhotoBytes отправляет PNG из памяти
func (b *Bot) sendPhotoBytes(chatID int64, name string, data []byte, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	photo.Caption = caption
	_, err := b.api.Send(photo)
	if err != nil {
		log.Printf("Не удалось отправить фото [chat=%d]: %v", chatID, err)
	}
	return err
}

// sendDocument отправляет файл с диска
func (b *Bot) sendDocument(chatID int64, path, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = caption
	_, err := b.api.Send(doc)
	if err != nil {
		log.Printf("Не удалось отправить документ [chat=%d]: %v", chatID, err)
	}
	return err
}

// currentUser возвращает пользователя или nil, если он не зарегистрирован
func (b *Bot) currentUser(chatID int64) (*models.User, error) {
	user, err := b.repo.User.GetByTelegramID(chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// isAdmin проверяет роль. Пользователь из ADMIN_CHAT_ID — админ всегда.
func (b *Bot) isAdmin(chatID int64) bool {
	if b.config.AdminChatID != 0 && chatID == b.config.AdminChatID {
		return true
	}
	user, err := b.currentUser(chatID)
	if err != nil || user == nil {
		return false
	}
	return user.IsAdmin()
}

// mainKeyboard собирает главное меню; администраторам добавляется
// кнопка админ-меню
func (b *Bot) mainKeyboard(chatID int64) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCheckIn),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBuildProgram),
			tgbotapi.NewKeyboardButton(btnMetrics),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnChangeName),
		),
	}
	if b.isAdmin(chatID) {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAdminMenu),
		))
	}
	return tgbotapi.NewReplyKeyboard(rows...)
}

// adminKeyboard меню администратора
func adminKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnDailyReport),
			tgbotapi.NewKeyboardButton(btnPeriodReport),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnJournal),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBack),
		),
	)
}

// cancelKeyboard клавиатура с единственной кнопкой отмены
func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
}
