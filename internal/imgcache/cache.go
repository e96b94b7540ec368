// Package imgcache — дисковый кеш готовых изображений программ.
// Ключ человекочитаемый: имя шаблона плюс жим, округлённый до десятых.
// Фоновая уборка раз в полпериода TTL удаляет просроченные записи и,
// если записей всё ещё больше лимита, самые старые из оставшихся.
package imgcache

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Zа-яА-Я0-9._-]`)

type entry struct {
	file      string
	createdAt time.Time
	size      int64
}

// Cache дисковый кеш изображений. Если каталог кеша создать не удалось,
// кеш полностью выключен и все операции ничего не делают.
type Cache struct {
	mu      sync.Mutex
	dir     string
	ttl     time.Duration
	maxSize int
	entries map[string]*entry
	sweeper *cron.Cron
	enabled bool

	now func() time.Time
}

// New создаёт кеш в указанном каталоге
func New(dir string, ttl time.Duration, maxSize int) *Cache {
	c := &Cache{
		dir:     dir,
		ttl:     ttl,
		maxSize: maxSize,
		entries: make(map[string]*entry),
		now:     time.Now,
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Каталог кеша %s недоступен, кеш выключен: %v", dir, err)
		return c
	}
	c.enabled = true
	return c
}

// Disabled возвращает выключенный кеш: все операции ничего не делают
func Disabled() *Cache {
	return &Cache{entries: make(map[string]*entry), now: time.Now}
}

// Key строит ключ кеша из имени шаблона и значения жима
func Key(templateName string, benchPress float64) string {
	return fmt.Sprintf("%s_%.1f", templateName, benchPress)
}

// KeyPrefix общий префикс ключей всех картинок одного шаблона
func KeyPrefix(templateName string) string {
	return templateName + "_"
}

// Start запускает фоновую уборку с интервалом в полпериода TTL
func (c *Cache) Start() {
	if !c.enabled {
		return
	}
	c.sweeper = cron.New()
	spec := fmt.Sprintf("@every %s", c.ttl/2)
	if err := c.sweeper.AddFunc(spec, c.Sweep); err != nil {
		log.Printf("Не удалось запланировать уборку кеша: %v", err)
		return
	}
	c.sweeper.Start()
}

// Stop останавливает фоновую уборку
func (c *Cache) Stop() {
	if c.sweeper != nil {
		c.sweeper.Stop()
	}
}

// Get возвращает путь к закешированному файлу. Просроченная запись
// считается промахом и сразу удаляется вместе с файлом.
func (c *Cache) Get(key string) (string, bool) {
	if !c.enabled {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.now().Sub(e.createdAt) > c.ttl {
		c.removeLocked(key)
		return "", false
	}
	if _, err := os.Stat(e.file); err != nil {
		// Файл пропал из-под кеша
		delete(c.entries, key)
		return "", false
	}
	return e.file, true
}

// Put копирует файл в каталог кеша под уникальным именем
func (c *Cache) Put(key, srcPath string) (string, error) {
	if !c.enabled {
		return srcPath, nil
	}

	dstPath := filepath.Join(c.dir, fmt.Sprintf(
		"%s_%s%s",
		unsafeChars.ReplaceAllString(key, "_"),
		uuid.New().String()[:8],
		filepath.Ext(srcPath),
	))

	size, err := copyFile(srcPath, dstPath)
	if err != nil {
		return "", fmt.Errorf("ошибка копирования в кеш: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Старый файл под тем же ключом больше не нужен
	if old, ok := c.entries[key]; ok {
		os.Remove(old.file)
	}
	c.entries[key] = &entry{file: dstPath, createdAt: c.now(), size: size}
	return dstPath, nil
}

// RemovePrefix удаляет записи с ключами на prefix вместе с файлами.
// Так сбрасываются все картинки цикла после правки его шаблона.
func (c *Cache) RemovePrefix(prefix string) {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			c.removeLocked(key)
		}
	}
}

// Sweep удаляет просроченные записи, затем самые старые сверх лимита
func (c *Cache) Sweep() {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if c.now().Sub(e.createdAt) > c.ttl {
			c.removeLocked(key)
		}
	}

	if len(c.entries) <= c.maxSize {
		return
	}

	type aged struct {
		key       string
		createdAt time.Time
	}
	byAge := make([]aged, 0, len(c.entries))
	for key, e := range c.entries {
		byAge = append(byAge, aged{key, e.createdAt})
	}
	sort.Slice(byAge, func(i, j int) bool {
		return byAge[i].createdAt.Before(byAge[j].createdAt)
	})

	for _, a := range byAge {
		if len(c.entries) <= c.maxSize {
			break
		}
		c.removeLocked(a.key)
	}
}

// Len текущее число записей
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) removeLocked(key string) {
	if e, ok := c.entries[key]; ok {
		if err := os.Remove(e.file); err != nil && !os.IsNotExist(err) {
			log.Printf("Не удалось удалить файл кеша %s: %v", e.file, err)
		}
		delete(c.entries, key)
	}
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	n, err := io.Copy(out, in)
	if err != nil {
		os.Remove(dst)
		return 0, err
	}
	return n, out.Close()
}
