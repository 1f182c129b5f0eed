package timeline

import (
	"hash/fnv"
	"sync"
)

const defaultLockShards = 64

// shardedLocks serialises work per key. Keys hash onto a fixed set of
// mutexes, so two shipments may share a shard but one shipment always maps
// to the same one.
type shardedLocks struct {
	shards []sync.Mutex
}

func newShardedLocks(n int) *shardedLocks {
	if n <= 0 {
		n = defaultLockShards
	}
	return &shardedLocks{shards: make([]sync.Mutex, n)}
}

func (l *shardedLocks) lock(key string) (unlock func()) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	m := &l.shards[h.Sum32()%uint32(len(l.shards))]
	m.Lock()
	return m.Unlock
}
