package inventory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// ItemLocker serializa los movimientos por ítem con un semáforo de peso 1 por clave.
// Ítems distintos nunca comparten semáforo. Las entradas se eliminan cuando nadie las usa.
type ItemLocker struct {
	mu      sync.Mutex
	locks   map[string]*itemLock
	timeout time.Duration
}

type itemLock struct {
	sem  *semaphore.Weighted
	refs int
}

// NewItemLocker construye el locker con la espera máxima por ítem.
func NewItemLocker(timeout time.Duration) *ItemLocker {
	return &ItemLocker{
		locks:   make(map[string]*itemLock),
		timeout: timeout,
	}
}

// Lock adquiere acceso exclusivo al ítem. Si no lo obtiene dentro del timeout devuelve
// domain.ErrConcurrencyConflict (también si vence el contexto del caller, envolviendo su error);
// el caller decide si reintenta. La función devuelta libera el bloqueo.
func (l *ItemLocker) Lock(ctx context.Context, itemID string) (func(), error) {
	l.mu.Lock()
	lk, ok := l.locks[itemID]
	if !ok {
		lk = &itemLock{sem: semaphore.NewWeighted(1)}
		l.locks[itemID] = lk
	}
	lk.refs++
	l.mu.Unlock()

	waitCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	if err := lk.sem.Acquire(waitCtx, 1); err != nil {
		l.release(itemID, lk, false)
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrConcurrencyConflict, ctx.Err())
		}
		return nil, domain.ErrConcurrencyConflict
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(itemID, lk, true) })
	}, nil
}

func (l *ItemLocker) release(itemID string, lk *itemLock, held bool) {
	if held {
		lk.sem.Release(1)
	}
	l.mu.Lock()
	lk.refs--
	if lk.refs == 0 {
		delete(l.locks, itemID)
	}
	l.mu.Unlock()
}

// size cantidad de ítems con bloqueo vivo (tests).
func (l *ItemLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
