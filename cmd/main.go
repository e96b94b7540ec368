package main

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"

	"gymbot/internal/bot"
	"gymbot/internal/config"
	"gymbot/internal/imgcache"
	"gymbot/internal/plan"
	"gymbot/internal/render"
	"gymbot/internal/repository"
	"gymbot/internal/state"
	"gymbot/internal/tmplwatch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		log.Fatalf("Ошибка подключения к базе: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("База данных недоступна: %v", err)
	}
	if err := repository.InitSchema(db); err != nil {
		log.Fatalf("Ошибка инициализации схемы: %v", err)
	}
	log.Println("База данных подключена")

	for _, dir := range []string{cfg.TemplatesDir, cfg.OutputDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Каталог %s недоступен: %v", dir, err)
		}
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("Ошибка создания бота: %v", err)
	}
	log.Printf("Авторизован как @%s", api.Self.UserName)

	converter, err := render.NewConverter(render.Options{
		MaxRows:         cfg.MaxRows,
		MaxColumns:      cfg.MaxColumns,
		ChunkSize:       cfg.ChunkSize,
		SampleRows:      cfg.SampleRows,
		EnableHDScaling: cfg.EnableHDScaling,
		TempDir:         cfg.TempDir,
	})
	if err != nil {
		log.Fatalf("Ошибка создания конвертера: %v", err)
	}
	defer converter.Close()

	imgCache := imgcache.Disabled()
	if cfg.CacheEnabled {
		imgCache = imgcache.New(
			cfg.CacheFileDir,
			time.Duration(cfg.CacheTTLMinutes)*time.Minute,
			cfg.CacheMaxSize,
		)
		imgCache.Start()
		defer imgCache.Stop()
	}

	// Правка шаблона на диске сбрасывает готовые картинки его цикла:
	// иначе до конца TTL уходили бы программы по старому шаблону
	watcher := tmplwatch.NewWatcher(cfg.TemplatesDir, tmplwatch.InvalidatorFunc(func(path string) {
		cycle, ok := plan.CycleByTemplate(filepath.Base(path))
		if !ok {
			return
		}
		imgCache.RemovePrefix(imgcache.KeyPrefix(cycle.Name))
	}))
	watcher.Start()
	defer watcher.Stop()

	b := bot.New(
		api,
		repository.New(db),
		state.NewStore(),
		plan.NewGenerator(cfg.TemplatesDir, cfg.OutputDir),
		converter,
		imgCache,
		cfg,
	)

	log.Println("Бот запущен")
	if err := b.Start(); err != nil {
		log.Fatalf("Ошибка запуска бота: %v", err)
	}
}
