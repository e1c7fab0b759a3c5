package service

import (
	"sync"

	"echo_trade/internal/models"
)

// Book — последняя известная цена по символу. Потребители (runner,
// генератор сигналов) читают её pull-ом и терпят устаревание, никто
// ни на чём не блокируется.
type Book struct {
	mu     sync.RWMutex
	latest map[string]models.PriceTick
}

func NewBook() *Book {
	return &Book{latest: make(map[string]models.PriceTick)}
}

func (b *Book) Apply(t models.PriceTick) {
	b.mu.Lock()
	b.latest[t.Symbol] = t
	b.mu.Unlock()
}

func (b *Book) Price(symbol string) (float64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	t, ok := b.latest[symbol]
	return t.Price, ok
}

func (b *Book) Tick(symbol string) (models.PriceTick, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	t, ok := b.latest[symbol]
	return t, ok
}

// Snapshot — карта symbol -> last price для update/check стопов.
func (b *Book) Snapshot() map[string]float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[string]float64, len(b.latest))
	for s, t := range b.latest {
		out[s] = t.Price
	}
	return out
}

func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.latest)
}
