// Package tmplwatch следит за каталогом шаблонов циклов и сбрасывает
// кеш рендера при изменении файла: авторы правят шаблоны на живом боте.
package tmplwatch

import (
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Invalidator сбрасывает кеши, построенные по файлу шаблона
type Invalidator interface {
	Invalidate(path string)
}

// InvalidatorFunc адаптер функции к интерфейсу Invalidator
type InvalidatorFunc func(path string)

// Invalidate вызывает функцию
func (f InvalidatorFunc) Invalidate(path string) { f(path) }

// Watcher наблюдает за каталогом шаблонов
type Watcher struct {
	dir  string
	inv  Invalidator
	done chan struct{}
}

// NewWatcher создаёт наблюдатель за каталогом шаблонов
func NewWatcher(dir string, inv Invalidator) *Watcher {
	return &Watcher{dir: dir, inv: inv, done: make(chan struct{})}
}

// Start запускает наблюдение в отдельной горутине
func (w *Watcher) Start() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("Ошибка создания наблюдателя шаблонов: %v", err)
		return
	}
	if err := watcher.Add(w.dir); err != nil {
		log.Printf("Каталог шаблонов %s не под наблюдением: %v", w.dir, err)
		watcher.Close()
		return
	}

	go func() {
		defer watcher.Close()

		// Редакторы пишут файл сериями событий; схлопываем их
		var lastEvent time.Time

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if !strings.HasSuffix(strings.ToLower(event.Name), ".xlsx") {
					continue
				}
				if time.Since(lastEvent) < time.Second {
					continue
				}
				lastEvent = time.Now()

				log.Printf("Шаблон %s изменён, кеш рендера сброшен", filepath.Base(event.Name))
				w.inv.Invalidate(event.Name)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("Ошибка наблюдателя шаблонов: %v", err)

			case <-w.done:
				return
			}
		}
	}()
}

// Stop останавливает наблюдение
func (w *Watcher) Stop() {
	close(w.done)
}
