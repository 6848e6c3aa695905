package lsf

import (
	"github.com/clemarescx/bg3d/internal/binreader"
	"github.com/clemarescx/bg3d/internal/strutil"
)

// namePool is the two-level string table: namePool[bucket][slot] is the
// display string for that (bucket, slot) pair.
type namePool [][]string

func (p namePool) lookup(bucket, slot uint16) (string, bool) {
	if int(bucket) >= len(p) {
		return "", false
	}
	row := p[bucket]
	if int(slot) >= len(row) {
		return "", false
	}
	return row[slot], true
}

func readNames(data []byte) (namePool, error) {
	r := binreader.New(data)

	numBuckets, err := r.ReadU32()
	if err != nil {
		return nil, wrapf(err, "failed reading number of hash buckets")
	}

	pool := make(namePool, 0, numBuckets)
	for b := uint32(0); b < numBuckets; b++ {
		numSlots, err := r.ReadU16()
		if err != nil {
			return nil, wrapf(err, "failed reading number of slots in bucket %d", b)
		}
		slots := make([]string, 0, numSlots)
		for s := uint16(0); s < numSlots; s++ {
			length, err := r.ReadU16()
			if err != nil {
				return nil, wrapf(err, "failed reading name length in bucket %d slot %d", b, s)
			}
			raw, err := r.ReadBytes(int(length))
			if err != nil {
				return nil, wrapf(err, "failed reading %d-byte name in bucket %d slot %d", length, b, s)
			}
			slots = append(slots, strutil.Lossy(raw))
		}
		pool = append(pool, slots)
	}

	return pool, nil
}
