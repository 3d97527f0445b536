package cache

import (
	"sync"
	"time"
)

// entry valor almacenado junto con su marca de tiempo.
type entry[V any] struct {
	value    V
	storedAt time.Time
}

// IsStale indica si la entrada superó el TTL dado.
func (e entry[V]) IsStale(ttl time.Duration, now time.Time) bool {
	return now.Sub(e.storedAt) > ttl
}

// Cache caché en memoria con TTL por lectura e invalidación explícita.
// Reemplaza el caché ambiental de pedidos del frontend original: el TTL se
// evalúa al leer y la invalidación ocurre por cambio de período o refresh forzado.
type Cache[K comparable, V any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[K]entry[V]
	now     func() time.Time
}

// New construye el caché con el TTL dado.
func New[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		ttl:     ttl,
		entries: make(map[K]entry[V]),
		now:     time.Now,
	}
}

// NewWithClock construye el caché con un reloj inyectable (tests sin esperas reales).
func NewWithClock[K comparable, V any](ttl time.Duration, now func() time.Time) *Cache[K, V] {
	c := New[K, V](ttl)
	c.now = now
	return c
}

// Get devuelve el valor si existe y no está vencido.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || e.IsStale(c.ttl, c.now()) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set guarda el valor con la marca de tiempo actual.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, storedAt: c.now()}
	c.mu.Unlock()
}

// Invalidate elimina una clave (ej. refresh forzado de un período).
func (c *Cache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear vacía el caché completo.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	c.entries = make(map[K]entry[V])
	c.mu.Unlock()
}
