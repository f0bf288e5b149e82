package session

import "sync"

// orderLocks serializes commands on one order. An entry lives only while a
// command holds or waits for it.
type orderLocks struct {
	mu    sync.Mutex
	locks map[string]*orderLock
}

type orderLock struct {
	sync.Mutex
	refs int
}

func (l *orderLocks) lock(id string) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*orderLock)
	}
	ol, ok := l.locks[id]
	if !ok {
		ol = &orderLock{}
		l.locks[id] = ol
	}
	ol.refs++
	l.mu.Unlock()

	ol.Lock()
	return func() {
		ol.Unlock()
		l.mu.Lock()
		if ol.refs--; ol.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
