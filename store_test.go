package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icexin/gocraft-holo/proto"
)

func newTestStore(t *testing.T) *Store {
	s, err := NewStore(filepath.Join(t.TempDir(), "capture.db"))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestStoreFrames(t *testing.T) {
	s := newTestStore(t)
	for seq := uint64(1); seq <= 300; seq++ {
		require.NoError(t, s.RecordFrame(2, seq, []byte{byte(seq)}))
	}
	require.NoError(t, s.RecordFrame(1, 1, []byte("other")))
	require.NoError(t, s.RecordFrame(3, 1, []byte("other")))

	var seqs []uint64
	err := s.RangeFrames(2, func(seq uint64, body []byte) bool {
		assert.Equal(t, []byte{byte(seq)}, body)
		seqs = append(seqs, seq)
		return true
	})
	require.NoError(t, err)
	require.Len(t, seqs, 300)
	assert.Equal(t, uint64(1), seqs[0])
	assert.Equal(t, uint64(256), seqs[255])

	n := 0
	err = s.RangeFrames(2, func(uint64, []byte) bool {
		n++
		return n < 10
	})
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	err = s.RangeFrames(9, func(uint64, []byte) bool {
		t.Fatal("no frames for 9")
		return false
	})
	assert.NoError(t, err)
}

func TestStoreSessions(t *testing.T) {
	s := newTestStore(t)
	start := time.Unix(1700000000, 42)
	require.NoError(t, s.RecordSession(SessionInfo{ID: 7, Version: proto.V1_20_2, Start: start, Addr: "127.0.0.1:5000"}))
	require.NoError(t, s.RecordSession(SessionInfo{ID: 3, Version: proto.V1_8, Start: start}))

	infos, err := s.Sessions()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, int32(3), infos[0].ID)
	assert.Equal(t, proto.V1_8, infos[0].Version)
	assert.Equal(t, "", infos[0].Addr)
	assert.Equal(t, int32(7), infos[1].ID)
	assert.Equal(t, "127.0.0.1:5000", infos[1].Addr)
	assert.True(t, start.Equal(infos[1].Start))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
func (discard) Close() error                { return nil }

func TestSessionCapture(t *testing.T) {
	s := newTestStore(t)
	sess := NewSession(5, proto.V1_21, discard{}, -1, s)
	sess.Send(&proto.DestroyEntities{EntityIDs: []int32{1, 2}})
	sess.Send(&proto.SetPassengers{EntityID: 1, Passengers: []int32{2}})

	var got []proto.Packet
	require.NoError(t, s.RangeFrames(5, func(_ uint64, body []byte) bool {
		p, err := proto.Unmarshal(body, proto.V1_21)
		require.NoError(t, err)
		got = append(got, p)
		return true
	}))
	require.Len(t, got, 2)
	assert.Equal(t, &proto.DestroyEntities{EntityIDs: []int32{1, 2}}, got[0])
	assert.Equal(t, &proto.SetPassengers{EntityID: 1, Passengers: []int32{2}}, got[1])
}
