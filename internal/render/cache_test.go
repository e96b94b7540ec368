package render

import "testing"

func TestRenderCacheLRUEviction(t *testing.T) {
	c := newRenderCache(2)

	c.Put("a", []byte("a"), 1, 1)
	c.Put("b", []byte("b"), 1, 1)

	// Обращение к "a" делает "b" самым давним
	if _, ok := c.Get("a"); !ok {
		t.Fatal("запись a потеряна до переполнения")
	}

	c.Put("c", []byte("c"), 1, 1)

	if _, ok := c.Get("b"); ok {
		t.Error("вытеснена не самая давняя запись: b ещё в кеше")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("запись a вытеснена, хотя использовалась позже b")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("свежая запись c не в кеше")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestRenderCacheInvalidatePrefix(t *testing.T) {
	c := newRenderCache(10)

	c.Put("/tmp/a.xlsx|1", []byte("x"), 1, 1)
	c.Put("/tmp/a.xlsx|2", []byte("y"), 1, 1)
	c.Put("/tmp/b.xlsx|1", []byte("z"), 1, 1)

	c.InvalidatePrefix("/tmp/a.xlsx|")

	if _, ok := c.Get("/tmp/a.xlsx|1"); ok {
		t.Error("устаревший рендер a.xlsx остался в кеше")
	}
	if _, ok := c.Get("/tmp/a.xlsx|2"); ok {
		t.Error("устаревший рендер a.xlsx остался в кеше")
	}
	if _, ok := c.Get("/tmp/b.xlsx|1"); !ok {
		t.Error("рендер другого файла задет инвалидацией")
	}
}
