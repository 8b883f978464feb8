package session

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danmuck/longfi/internal/protocol"
)

// Sequencer hands out monotonically increasing sequence numbers. The zero
// value starts at 0 and is safe for concurrent use.
type Sequencer struct {
	next atomic.Uint32
}

// NewSequencer returns a Sequencer whose first value is start.
func NewSequencer(start uint32) *Sequencer {
	s := &Sequencer{}
	s.next.Store(start)
	return s
}

func (s *Sequencer) Next() uint32 {
	return s.next.Add(1) - 1
}

// Verdict classifies a sequence number relative to the last one seen from
// the same device.
type Verdict int

const (
	VerdictFresh Verdict = iota
	VerdictDuplicate
	VerdictStale
)

func (v Verdict) String() string {
	switch v {
	case VerdictFresh:
		return "fresh"
	case VerdictDuplicate:
		return "duplicate"
	case VerdictStale:
		return "stale"
	default:
		return "unknown"
	}
}

// DeviceKey identifies a sender.
type DeviceKey struct {
	OUI uint32
	DID uint32
}

// DeviceState is the tracked state of one sender.
type DeviceState struct {
	Key      DeviceKey
	LastSeq  uint32
	LastSeen time.Time
	Accepted uint64
	Dropped  uint64
}

// DefaultTrackerCapacity bounds the number of devices a Tracker remembers.
const DefaultTrackerCapacity = 1024

// Tracker remembers the last sequence number per device. Comparison uses
// serial number arithmetic so the counter may wrap.
type Tracker struct {
	mu       sync.Mutex
	capacity int
	items    map[DeviceKey]DeviceState
}

func NewTracker(capacity int) *Tracker {
	if capacity <= 0 {
		capacity = DefaultTrackerCapacity
	}
	return &Tracker{
		capacity: capacity,
		items:    make(map[DeviceKey]DeviceState),
	}
}

// Observe records dg and returns its verdict. Only fresh datagrams advance
// the stored sequence number.
func (t *Tracker) Observe(dg protocol.Datagram, at time.Time) Verdict {
	key := DeviceKey{OUI: dg.OUI, DID: dg.DID}
	t.mu.Lock()
	defer t.mu.Unlock()

	item, ok := t.items[key]
	if !ok {
		if len(t.items) >= t.capacity {
			t.evictOldestLocked()
		}
		t.items[key] = DeviceState{Key: key, LastSeq: dg.Seq, LastSeen: at, Accepted: 1}
		return VerdictFresh
	}

	verdict := VerdictFresh
	switch delta := int32(dg.Seq - item.LastSeq); {
	case delta == 0:
		verdict = VerdictDuplicate
	case delta < 0:
		verdict = VerdictStale
	}
	item.LastSeen = at
	if verdict == VerdictFresh {
		item.LastSeq = dg.Seq
		item.Accepted++
	} else {
		item.Dropped++
	}
	t.items[key] = item
	return verdict
}

func (t *Tracker) evictOldestLocked() {
	var (
		oldest DeviceKey
		when   time.Time
		found  bool
	)
	for k, v := range t.items {
		if !found || v.LastSeen.Before(when) {
			oldest, when, found = k, v.LastSeen, true
		}
	}
	if found {
		delete(t.items, oldest)
	}
}

func (t *Tracker) Get(key DeviceKey) (DeviceState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	item, ok := t.items[key]
	return item, ok
}

func (t *Tracker) Forget(key DeviceKey) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.items, key)
}

// List returns tracked devices ordered by OUI then DID.
func (t *Tracker) List() []DeviceState {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]DeviceState, 0, len(t.items))
	for _, item := range t.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.OUI != out[j].Key.OUI {
			return out[i].Key.OUI < out[j].Key.OUI
		}
		return out[i].Key.DID < out[j].Key.DID
	})
	return out
}
