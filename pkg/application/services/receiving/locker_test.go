package receiving

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vsinha/partstock/pkg/domain/entities"
)

func TestPartLocker_SerializesSharedParts(t *testing.T) {
	locker := NewPartLocker()

	var (
		inside  int32
		maxSeen int32
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids := []entities.PartID{"BOLT", "NUT"}
			if i%2 == 0 {
				ids = []entities.PartID{"NUT", "BOLT", "NUT"}
			}
			unlock := locker.Lock(ids)
			defer unlock()

			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxSeen)
				if n <= m || atomic.CompareAndSwapInt32(&maxSeen, m, n) {
					break
				}
			}
			atomic.AddInt32(&inside, -1)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen)
	assert.Empty(t, locker.locks, "locks are released when unused")
}

func TestPartLocker_DisjointPartsDoNotBlock(t *testing.T) {
	locker := NewPartLocker()

	unlockA := locker.Lock([]entities.PartID{"A"})
	done := make(chan struct{})
	go func() {
		unlock := locker.Lock([]entities.PartID{"B"})
		unlock()
		close(done)
	}()
	<-done
	unlockA()

	assert.Empty(t, locker.locks)
}

func TestUniqueSorted(t *testing.T) {
	assert.Equal(t,
		[]entities.PartID{"A", "B", "C"},
		uniqueSorted([]entities.PartID{"C", "A", "B", "A"}))
	assert.Empty(t, uniqueSorted(nil))
}
