package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/longfi/internal/protocol"
	"github.com/danmuck/longfi/internal/testutil/testlog"
)

func TestIdentityCheck(t *testing.T) {
	testlog.Start(t)
	id := Identity{OUI: 1, DID: 2}
	require.NoError(t, id.Check(protocol.Datagram{OUI: 1, DID: 2}))

	err := id.Check(protocol.Datagram{OUI: 1, DID: 3})
	require.ErrorIs(t, err, protocol.ErrAddress)
	assert.Equal(t, protocol.KindAddress, protocol.KindOf(err))

	gw := Identity{OUI: 1, AnyDevice: true}
	assert.NoError(t, gw.Check(protocol.Datagram{OUI: 1, DID: 77}), "gateway rejected device in its OUI")
	assert.ErrorIs(t, gw.Check(protocol.Datagram{OUI: 2, DID: 77}), protocol.ErrAddress, "gateway accepted foreign OUI")
}

func TestFilterFingerprint(t *testing.T) {
	testlog.Start(t)
	fp := FingerprintFunc(func(dg protocol.Datagram, payload []byte) uint32 {
		return dg.Seq ^ uint32(len(payload))
	})
	f := Filter{Identity: Identity{OUI: 1, DID: 2}, Fingerprinter: fp}

	dg := protocol.Datagram{OUI: 1, DID: 2, Seq: 10}
	dg.FP = fp.Fingerprint(dg, []byte("abc"))
	require.NoError(t, f.Check(dg, []byte("abc")))

	dg.FP++
	assert.ErrorIs(t, f.Check(dg, []byte("abc")), protocol.ErrFingerprint)

	// Address failures take precedence.
	dg.OUI = 9
	assert.ErrorIs(t, f.Check(dg, []byte("abc")), protocol.ErrAddress)
}

func TestFilterWithoutFingerprinter(t *testing.T) {
	testlog.Start(t)
	f := Filter{Identity: Identity{OUI: 4, DID: 5}}
	assert.NoError(t, f.Check(protocol.Datagram{OUI: 4, DID: 5, FP: 0xDEAD}, nil))
	assert.Equal(t, uint32(7), StaticFingerprint(7).Fingerprint(protocol.Datagram{}, nil))
}

func TestSequencerConcurrent(t *testing.T) {
	testlog.Start(t)
	s := NewSequencer(100)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[uint32]struct{})
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				v := s.Next()
				mu.Lock()
				seen[v] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Len(t, seen, 400)
	assert.Contains(t, seen, uint32(100), "start value not issued")
	assert.Equal(t, uint32(500), s.Next())
}

func TestTrackerVerdicts(t *testing.T) {
	testlog.Start(t)
	tr := NewTracker(0)
	now := time.Unix(1700000000, 0)
	dg := protocol.Datagram{OUI: 1, DID: 2, Seq: 5}

	assert.Equal(t, VerdictFresh, tr.Observe(dg, now), "first observation")
	assert.Equal(t, VerdictDuplicate, tr.Observe(dg, now), "repeat observation")
	dg.Seq = 4
	assert.Equal(t, VerdictStale, tr.Observe(dg, now), "older seq")
	dg.Seq = 6
	assert.Equal(t, VerdictFresh, tr.Observe(dg, now), "newer seq")

	state, ok := tr.Get(DeviceKey{OUI: 1, DID: 2})
	require.True(t, ok, "device not tracked")
	assert.Equal(t, uint32(6), state.LastSeq)
	assert.EqualValues(t, 2, state.Accepted)
	assert.EqualValues(t, 2, state.Dropped)
}

func TestTrackerWraparound(t *testing.T) {
	testlog.Start(t)
	tr := NewTracker(4)
	now := time.Now()
	tr.Observe(protocol.Datagram{DID: 1, Seq: ^uint32(0)}, now)
	assert.Equal(t, VerdictFresh, tr.Observe(protocol.Datagram{DID: 1, Seq: 0}, now), "wrapped seq")
}

func TestTrackerEvictsOldest(t *testing.T) {
	testlog.Start(t)
	tr := NewTracker(2)
	base := time.Unix(1700000000, 0)
	tr.Observe(protocol.Datagram{DID: 1}, base)
	tr.Observe(protocol.Datagram{DID: 2}, base.Add(time.Second))
	tr.Observe(protocol.Datagram{DID: 3}, base.Add(2*time.Second))

	list := tr.List()
	require.Len(t, list, 2)
	assert.Equal(t, uint32(2), list[0].Key.DID)
	assert.Equal(t, uint32(3), list[1].Key.DID)

	tr.Forget(DeviceKey{DID: 2})
	_, ok := tr.Get(DeviceKey{DID: 2})
	assert.False(t, ok, "device should be forgotten")
}
