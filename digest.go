package zynqboot

import (
	"io"

	"github.com/cespare/xxhash"
)

// digest computes an xxhash64 of the whole input and rewinds it.
func digest(r io.ReadSeeker) (uint64, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, eMsg(err, "seeking to hash input")
	}

	xxh := xxhash.New()
	if _, err := io.Copy(xxh, r); err != nil {
		return 0, eMsg(err, "hashing input")
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, eMsg(err, "seeking after hashing input")
	}

	return xxh.Sum64(), nil
}
