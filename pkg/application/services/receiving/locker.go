package receiving

import (
	"sort"
	"sync"

	"github.com/vsinha/partstock/pkg/domain/entities"
)

// PartLocker serializes stock updates per part. Passes that touch disjoint
// parts never wait on each other.
type PartLocker struct {
	mu    sync.Mutex
	locks map[entities.PartID]*partLock
}

type partLock struct {
	mu   sync.Mutex
	refs int
}

// NewPartLocker creates an empty locker
func NewPartLocker() *PartLocker {
	return &PartLocker{locks: make(map[entities.PartID]*partLock)}
}

// Lock acquires every part lock in ascending id order and returns a function
// releasing them. Duplicate ids are ignored.
func (l *PartLocker) Lock(ids []entities.PartID) (unlock func()) {
	ordered := uniqueSorted(ids)

	held := make([]*partLock, 0, len(ordered))
	for _, id := range ordered {
		lock := l.acquire(id)
		lock.mu.Lock()
		held = append(held, lock)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
			l.release(ordered[i])
		}
	}
}

func (l *PartLocker) acquire(id entities.PartID) *partLock {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[id]
	if !ok {
		lock = &partLock{}
		l.locks[id] = lock
	}
	lock.refs++
	return lock
}

func (l *PartLocker) release(id entities.PartID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock := l.locks[id]
	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, id)
	}
}

func uniqueSorted(ids []entities.PartID) []entities.PartID {
	seen := make(map[entities.PartID]bool, len(ids))
	out := make([]entities.PartID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
