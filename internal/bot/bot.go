package bot

import (
	"log"
	"runtime/debug"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gymbot/internal/config"
	"gymbot/internal/gsheets"
	"gymbot/internal/imgcache"
	"gymbot/internal/plan"
	"gymbot/internal/render"
	"gymbot/internal/repository"
	"gymbot/internal/state"
)

// Bot представляет Telegram бота зала
type Bot struct {
	api       *tgbotapi.BotAPI
	repo      *repository.Repository
	store     *state.Store
	generator *plan.Generator
	converter *render.Converter
	imgCache  *imgcache.Cache
	sheets    *gsheets.Client
	config    *config.Config
}

// New создаёт новый экземпляр бота
func New(
	api *tgbotapi.BotAPI,
	repo *repository.Repository,
	store *state.Store,
	generator *plan.Generator,
	converter *render.Converter,
	imgCache *imgcache.Cache,
	cfg *config.Config,
) *Bot {
	var sheetsClient *gsheets.Client
	if cfg.GoogleCredentialsPath != "" && cfg.GoogleSheetID != "" {
		var err error
		sheetsClient, err = gsheets.NewClient(cfg.GoogleCredentialsPath, cfg.GoogleSheetID)
		if err != nil {
			log.Printf("Предупреждение: Google Sheets не инициализирован: %v", err)
		} else {
			log.Println("Google Sheets клиент инициализирован")
		}
	}

	return &Bot{
		api:       api,
		repo:      repo,
		store:     store,
		generator: generator,
		converter: converter,
		imgCache:  imgCache,
		sheets:    sheetsClient,
		config:    cfg,
	}
}

// Start запускает бота
func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)
	b.handleUpdates(updates)
	return nil
}

func (b *Bot) handleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.Message == nil || update.Message.Text == "" {
			continue
		}
		// Каждое сообщение обрабатывается в своей горутине:
		// долгий рендер одного пользователя не задерживает остальных
		go b.handleMessage(update.Message)
	}
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	defer func() {
		if r := recover(); r != nil {
			log.Printf("Паника в обработчике [chat=%d, text=%q]: %v\n%s",
				chatID, message.Text, r, debug.Stack())
			b.store.Clear(chatID)
			b.sendMessage(chatID, "Что-то пошло не так. Попробуйте ещё раз.")
		}
	}()

	start := time.Now()
	b.dispatch(message)
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		log.Printf("Долгая обработка [chat=%d]: %s", chatID, elapsed)
	}
}
