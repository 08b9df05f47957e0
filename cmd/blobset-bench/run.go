package main

import (
	"bufio"
	"encoding/binary"
	"os"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/zeebo/errs/v2"
	"github.com/zeebo/mwc"
	"go.uber.org/zap"

	"github.com/histdb/blobset"
	"github.com/histdb/blobset/chainset"
	"github.com/histdb/blobset/oaset"
	"github.com/histdb/blobset/rwutils"
)

type config struct {
	impl     string
	keys     int
	keySize  int
	capacity int
	hash     string
	seed     uint64
	out      string
	verbose  bool
}

type set interface {
	blobset.Set
	rwutils.RW
}

func newSet(cfg config) (set, error) {
	hash, err := blobset.HashByName(cfg.hash)
	if err != nil {
		return nil, err
	}
	switch cfg.impl {
	case "oaset":
		return oaset.New(cfg.capacity, cfg.keySize, hash), nil
	case "chainset":
		return chainset.New(cfg.capacity, cfg.keySize, hash), nil
	default:
		return nil, errs.Errorf("unknown implementation: %q", cfg.impl)
	}
}

// keyOf writes id into the front of key and fills the rest from rng. Keys
// are at least four bytes so that ids stay distinct.
func keyOf(key []byte, id uint32, rng *mwc.T) []byte {
	binary.LittleEndian.PutUint32(key, id)
	for i := 4; i < len(key); i++ {
		key[i] = byte(rng.Uint64())
	}
	return key
}

func run(log *zap.Logger, cfg config) error {
	if cfg.keySize < 4 {
		return errs.Errorf("key size must be at least 4 bytes: %d", cfg.keySize)
	}
	if cfg.keys < 0 || cfg.keys > blobset.MaxCapacity {
		return errs.Errorf("key count out of range: %d", cfg.keys)
	}

	s, err := newSet(cfg)
	if err != nil {
		return err
	}

	log.Info("starting",
		zap.String("impl", cfg.impl),
		zap.String("hash", cfg.hash),
		zap.Int("keys", cfg.keys),
		zap.Int("key_size", cfg.keySize),
		zap.Int("capacity", s.Cap()))

	// ids are dense, so a bitmap of them is what the set should hold.
	keys := make([][]byte, cfg.keys)
	rng := mwc.New(cfg.seed, cfg.seed)
	for i := range keys {
		keys[i] = keyOf(make([]byte, cfg.keySize), uint32(i), rng)
	}
	live := roaring.New()

	phase := func(name string, fn func(i int) error) error {
		now := time.Now()
		for i := range keys {
			if err := fn(i); err != nil {
				log.Error("phase failed", zap.String("phase", name), zap.Int("key", i), zap.Error(err))
				return errs.Wrap(err)
			}
		}
		dur := time.Since(now)
		log.Debug("phase done",
			zap.String("phase", name),
			zap.Duration("took", dur),
			zap.Float64("ns_per_key", float64(dur)/float64(max(len(keys), 1))),
			zap.Int("len", s.Len()),
			zap.Int("cap", s.Cap()),
			zap.Uint64("bytes", s.Size()))
		return nil
	}

	check := func(i int) error {
		if s.Contains(keys[i]) != live.Contains(uint32(i)) {
			return errs.Errorf("membership mismatch for key %d", i)
		}
		return nil
	}

	if err := phase("add", func(i int) error {
		live.Add(uint32(i))
		return s.Add(keys[i])
	}); err != nil {
		return err
	}
	if err := phase("contains", check); err != nil {
		return err
	}
	if err := phase("remove", func(i int) error {
		if i%2 != 0 {
			return nil
		}
		live.Remove(uint32(i))
		return s.Remove(keys[i])
	}); err != nil {
		return err
	}
	if err := phase("contains", check); err != nil {
		return err
	}
	if uint64(s.Len()) != live.GetCardinality() {
		return errs.Errorf("length mismatch: set has %d, expected %d", s.Len(), live.GetCardinality())
	}

	if cfg.out != "" {
		if err := writeSet(s, cfg.out); err != nil {
			return err
		}
		log.Info("wrote set", zap.String("path", cfg.out))
	}

	log.Info("done",
		zap.Int("len", s.Len()),
		zap.Int("cap", s.Cap()),
		zap.Float64("load", float64(s.Len())/float64(s.Cap())),
		zap.Uint64("bytes", s.Size()))
	return nil
}

func writeSet(s set, path string) (err error) {
	fh, err := os.Create(path)
	if err != nil {
		return errs.Wrap(err)
	}
	defer func() { err = errs.Combine(err, fh.Close()) }()

	bw := bufio.NewWriter(fh)

	var w rwutils.W
	w.Init(bw, nil)
	s.AppendTo(&w)
	if err := w.Done(); err != nil {
		return errs.Wrap(err)
	}
	return errs.Wrap(bw.Flush())
}
