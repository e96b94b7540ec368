package bot

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gymbot/internal/imgcache"
	"gymbot/internal/plan"
	"gymbot/internal/render"
	"gymbot/internal/state"
)

// Форматы выдачи программы
const (
	formatImage = "image"
	formatExcel = "excel"
)

const benchPressQuestion = "Введите ваш максимальный жим лёжа в кг, например 100 или 102.5:"

// handleBuildProgram открывает выбор цикла
func (b *Bot) handleBuildProgram(message *tgbotapi.Message) {
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

	var sb strings.Builder
	sb.WriteString("Выберите тренировочный цикл:\n\n")
	var buttons [][]tgbotapi.KeyboardButton
	for _, c := range plan.Cycles() {
		sb.WriteString(fmt.Sprintf("%s. %s — %s\n", c.ID, c.Name, c.Author))
		buttons = append(buttons, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(fmt.Sprintf("%s. %s", c.ID, c.Name)),
		))
	}
	buttons = append(buttons, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(btnCancel),
	))

	b.store.Begin(chatID, state.StateAwaitingCycleSelection)
	b.sendMessageWithKeyboard(chatID, sb.String(), tgbotapi.NewReplyKeyboard(buttons...))
}

// handleCycleSelection запоминает выбранный цикл и спрашивает жим
func (b *Bot) handleCycleSelection(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	id, ok := parseCycleChoice(message.Text)
	if !ok {
		b.sendMessage(chatID, "Выберите цикл кнопкой или введите его номер.")
		return
	}
	cycle, ok := plan.CycleByID(id)
	if !ok {
		b.sendMessage(chatID, "Такого цикла нет. Выберите номер из списка.")
		return
	}

	b.store.Update(chatID, func(ctx *state.UserContext) {
		ctx.CycleID = cycle.ID
		ctx.State = state.StateAwaitingBenchPress
	})
	b.sendMessageWithKeyboard(chatID,
		fmt.Sprintf("Цикл «%s». %s", cycle.Name, benchPressQuestion),
		cancelKeyboard())
}

// handleBenchPressInput принимает жим лёжа
func (b *Bot) handleBenchPressInput(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	value, err := parseBenchPress(message.Text)
	if err != nil {
		// Переспрашиваем тем же вопросом, состояние не сбрасываем
		b.sendMessage(chatID, err.Error()+"\n"+benchPressQuestion)
		return
	}

	b.store.Update(chatID, func(ctx *state.UserContext) {
		ctx.BenchPress = value
		ctx.State = state.StateAwaitingFormatSelection
	})

	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("1"),
			tgbotapi.NewKeyboardButton("2"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	b.sendMessageWithKeyboard(chatID,
		"В каком виде прислать программу?\n1 — картинка\n2 — Excel файл",
		keyboard)
}

// handleFormatSelection завершает поток: генерирует программу и шлёт файл
func (b *Bot) handleFormatSelection(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	format, ok := parseFormatChoice(message.Text)
	if !ok {
		b.sendMessage(chatID, "Не понял. Ответьте 1 (картинка) или 2 (Excel файл).")
		return
	}

	ctx := b.store.Get(chatID)
	cycle, okCycle := plan.CycleByID(ctx.CycleID)
	if !okCycle {
		b.store.Clear(chatID)
		b.sendMessage(chatID, "Диалог устарел, начните заново: «"+btnBuildProgram+"».")
		return
	}

	user, err := b.currentUser(chatID)
	if err != nil || user == nil {
		b.store.Clear(chatID)
		b.sendError(chatID, "Сначала зарегистрируйтесь: /start", err)
		return
	}

	// Для картинок сперва пробуем дисковый кеш
	cacheKey := imgcache.Key(cycle.Name, ctx.BenchPress)
	if format == formatImage {
		if cached, hit := b.imgCache.Get(cacheKey); hit {
			data, err := os.ReadFile(cached)
			if err == nil {
				b.finishProgram(chatID, user.TelegramID, ctx.BenchPress, func() error {
					return b.sendPhotoBytes(chatID, "program.png", data,
						fmt.Sprintf("%s, жим %.1f кг", cycle.Name, ctx.BenchPress))
				})
				return
			}
			log.Printf("Кеш изображений отдал битый файл [%s]: %v", cached, err)
		}
	}

	planPath, err := b.generator.Generate(cycle.ID, ctx.BenchPress)
	if err != nil {
		b.store.Clear(chatID)
		if errors.Is(err, plan.ErrUnknownCycle) || errors.Is(err, plan.ErrTemplateMissing) {
			b.sendError(chatID, "Не удалось сформировать программу: цикл недоступен.", err)
		} else {
			b.sendError(chatID, "Не удалось сформировать программу, попробуйте позже.", err)
		}
		return
	}

	if format == formatExcel {
		b.finishProgram(chatID, user.TelegramID, ctx.BenchPress, func() error {
			return b.sendDocument(chatID, planPath,
				fmt.Sprintf("%s, жим %.1f кг", cycle.Name, ctx.BenchPress))
		})
		return
	}

	data, err := b.converter.Convert(planPath)
	if err != nil {
		if errors.Is(err, render.ErrTableTooLarge) {
			// Картинка не влезает — отдаём файл
			log.Printf("Рендер программы не влез в бюджет [chat=%d]: %v", chatID, err)
			b.finishProgram(chatID, user.TelegramID, ctx.BenchPress, func() error {
				b.sendMessage(chatID, "Таблица слишком большая для картинки, отправляю файлом.")
				return b.sendDocument(chatID, planPath, cycle.Name)
			})
			return
		}
		b.store.Clear(chatID)
		b.sendError(chatID, "Не удалось отрисовать программу, попробуйте позже.", err)
		return
	}

	// Кладём готовую картинку в дисковый кеш для следующих запросов
	pngPath := strings.TrimSuffix(planPath, filepath.Ext(planPath)) + ".png"
	if err := os.WriteFile(pngPath, data, 0644); err != nil {
		log.Printf("Не удалось сохранить PNG программы: %v", err)
	} else {
		if _, err := b.imgCache.Put(cacheKey, pngPath); err != nil {
			log.Printf("Не удалось закешировать PNG программы: %v", err)
		} else {
			// Имя файла программы уникально и больше не запрашивается,
			// его строка в LRU только занимает место
			b.converter.Invalidate(planPath)
		}
	}

	b.finishProgram(chatID, user.TelegramID, ctx.BenchPress, func() error {
		return b.sendPhotoBytes(chatID, "program.png", data,
			fmt.Sprintf("%s, жим %.1f кг", cycle.Name, ctx.BenchPress))
	})
}

// finishProgram отправляет результат, сохраняет жим ровно один раз
// и завершает диалог
func (b *Bot) finishProgram(chatID, telegramID int64, benchPress float64, send func() error) {
	if err := send(); err != nil {
		b.store.Clear(chatID)
		b.sendError(chatID, "Не удалось отправить программу, попробуйте позже.", err)
		return
	}
	if err := b.repo.User.UpdateBenchPress(telegramID, benchPress); err != nil {
		log.Printf("Не удалось сохранить жим [chat=%d]: %v", chatID, err)
	}
	b.store.Clear(chatID)
	b.sendMessageWithKeyboard(chatID, "Готово! Хороших тренировок 💪", b.mainKeyboard(chatID))
}
