package committer

import (
	"context"
	"sync"
)

// PlaceholderLister источник списка URL изображений-заглушек
type PlaceholderLister interface {
	ListPlaceholders(ctx context.Context) ([]string, error)
}

// PlaceholderCache кэш списка заглушек на время сессии.
// Явное состояние процесса: флаг initialized и принудительное
// обновление вместо неявного синглтона уровня модуля.
type PlaceholderCache struct {
	mu          sync.Mutex
	lister      PlaceholderLister
	initialized bool
	urls        []string
}

// NewPlaceholderCache создает новый кэш заглушек
func NewPlaceholderCache(lister PlaceholderLister) *PlaceholderCache {
	return &PlaceholderCache{lister: lister}
}

// Get возвращает список заглушек, запрашивая его у источника только
// при первом обращении. forceRefresh сбрасывает кэш и запрашивает заново.
func (c *PlaceholderCache) Get(ctx context.Context, forceRefresh bool) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized && !forceRefresh {
		return c.urls, nil
	}

	urls, err := c.lister.ListPlaceholders(ctx)
	if err != nil {
		return nil, err
	}

	c.urls = urls
	c.initialized = true
	return c.urls, nil
}

// Initialized сообщает, был ли список уже загружен
func (c *PlaceholderCache) Initialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}
