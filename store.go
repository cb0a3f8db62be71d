package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"flag"
	"time"

	"github.com/boltdb/bolt"

	"github.com/icexin/gocraft-holo/proto"
)

var (
	capturePath = flag.String("capture", "", "record every frame sent to viewers into this db file")
)

var (
	sessionBucket = []byte("session")
	frameBucket   = []byte("frame")

	errStopRange = errors.New("stop range")
)

// SessionInfo describes one recorded viewer connection.
type SessionInfo struct {
	ID      int32
	Version proto.Version
	Start   time.Time
	Addr    string
}

// Store records the frames sent to every viewer, keyed by viewer id and
// sequence number.
type Store struct {
	db *bolt.DB
}

func InitStore() (*Store, error) {
	if *capturePath == "" {
		return nil, nil
	}
	return NewStore(*capturePath)
}

func NewStore(p string) (*Store, error) {
	db, err := bolt.Open(p, 0666, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionBucket)
		if err != nil {
			return err
		}
		_, err = tx.CreateBucketIfNotExists(frameBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	db.NoSync = true
	return &Store{
		db: db,
	}, nil
}

func (s *Store) RecordSession(info SessionInfo) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(sessionBucket)
		return bkt.Put(encodeSessionKey(info.ID), encodeSessionValue(info))
	})
}

func (s *Store) Sessions() ([]SessionInfo, error) {
	var out []SessionInfo
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).ForEach(func(k, v []byte) error {
			info, err := decodeSessionValue(v)
			if err != nil {
				return err
			}
			info.ID = int32(binary.BigEndian.Uint32(k))
			out = append(out, info)
			return nil
		})
	})
	return out, err
}

func (s *Store) RecordFrame(id int32, seq uint64, body []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(frameBucket)
		return bkt.Put(encodeFrameKey(id, seq), body)
	})
}

// RangeFrames calls f for every frame recorded for viewer id, in order.
// Returning false stops the iteration.
func (s *Store) RangeFrames(id int32, f func(seq uint64, body []byte) bool) error {
	err := s.db.View(func(tx *bolt.Tx) error {
		prefix := encodeSessionKey(id)
		iter := tx.Bucket(frameBucket).Cursor()
		for k, v := iter.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = iter.Next() {
			_, seq := decodeFrameKey(k)
			// bolt values are only valid inside the transaction
			body := append([]byte(nil), v...)
			if !f(seq, body) {
				return errStopRange
			}
		}
		return nil
	})
	if err == errStopRange {
		return nil
	}
	return err
}

func (s *Store) Close() {
	s.db.Sync()
	s.db.Close()
}

// keys are big endian so cursors walk them in numeric order
func encodeSessionKey(id int32) []byte {
	key := make([]byte, 4)
	binary.BigEndian.PutUint32(key, uint32(id))
	return key
}

func encodeFrameKey(id int32, seq uint64) []byte {
	key := make([]byte, 12)
	binary.BigEndian.PutUint32(key, uint32(id))
	binary.BigEndian.PutUint64(key[4:], seq)
	return key
}

func decodeFrameKey(k []byte) (int32, uint64) {
	return int32(binary.BigEndian.Uint32(k)), binary.BigEndian.Uint64(k[4:])
}

func encodeSessionValue(info SessionInfo) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.BigEndian, int32(info.Version))
	binary.Write(buf, binary.BigEndian, info.Start.UnixNano())
	buf.WriteString(info.Addr)
	return buf.Bytes()
}

func decodeSessionValue(b []byte) (SessionInfo, error) {
	var info SessionInfo
	if len(b) < 12 {
		return info, errors.New("bad session value")
	}
	info.Version = proto.Version(binary.BigEndian.Uint32(b))
	info.Start = time.Unix(0, int64(binary.BigEndian.Uint64(b[4:])))
	info.Addr = string(b[12:])
	return info, nil
}
