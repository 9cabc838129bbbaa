package service

import (
	"hash/fnv"
	"sync"
)

const lockShards = 64

// sessionLocks serializes read-modify-write cycles per session. IDs hash onto
// a fixed set of mutexes, so unrelated sessions may occasionally share one.
type sessionLocks struct {
	shards [lockShards]sync.Mutex
}

func (l *sessionLocks) lock(id string) (unlock func()) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	m := &l.shards[h.Sum32()%lockShards]
	m.Lock()
	return m.Unlock
}
