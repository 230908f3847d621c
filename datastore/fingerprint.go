package datastore

import (
	"encoding/binary"

	"github.com/minio/highwayhash"

	"github.com/robert-malhotra/go-simplnx/internal/dtype"
)

var fingerprintKey = []byte("simplnx-datastore-fingerprint-k!")

// Fingerprint hashes the shapes, element type and values of s. Two stores
// with equal fingerprints hold the same data with overwhelming probability.
func Fingerprint[T Value](s AbstractStore[T]) (uint64, error) {
	vals, err := s.Values()
	if err != nil {
		return 0, err
	}
	hash, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return 0, err
	}

	var buf [8]byte
	hash.Write([]byte{byte(s.DataType())})
	for _, shape := range []Shape{s.TupleShape(), s.ComponentShape()} {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(shape)))
		hash.Write(buf[:])
		for _, d := range shape {
			binary.LittleEndian.PutUint64(buf[:], d)
			hash.Write(buf[:])
		}
	}
	hash.Write(dtype.EncodeOrder(vals, dtype.LittleEndian))
	return hash.Sum64(), nil
}
