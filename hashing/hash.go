// Package hashing computes content digests. The engine uses it to checksum undo payloads
// so that journal corruption is detected before a compensating action runs.
package hashing

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"

	"github.com/OneOfOne/xxhash"
	"github.com/spaolacci/murmur3"

	"github.com/txkit-go/txkit/commonerrors"
)

const (
	HashSha256 = "SHA256"
	HashMurmur = "Murmur"
	HashXXHash = "xxhash" // https://github.com/OneOfOne/xxhash
)

// IHash defines a hashing algorithm.
type IHash interface {
	Calculate(reader io.Reader) (string, error)
	CalculateBytes(data []byte) (string, error)
	GetType() string
}

// algorithm builds a fresh hash.Hash per calculation, which keeps instances safe for
// concurrent use without locking around a shared digest state.
type algorithm struct {
	build func() hash.Hash
	kind  string
}

func (a *algorithm) Calculate(reader io.Reader) (string, error) {
	if reader == nil {
		return "", commonerrors.UndefinedVariable("reader")
	}
	digest := a.build()
	_, err := io.Copy(digest, reader)
	if err != nil {
		return "", commonerrors.WrapError(commonerrors.ErrUnexpected, err, "could not consume the content to hash")
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}

func (a *algorithm) CalculateBytes(data []byte) (string, error) {
	return a.Calculate(bytes.NewReader(data))
}

func (a *algorithm) GetType() string {
	return a.kind
}

// NewHashingAlgorithm returns the hashing algorithm corresponding to `htype`.
func NewHashingAlgorithm(htype string) (IHash, error) {
	var build func() hash.Hash
	switch htype {
	case HashSha256:
		build = sha256.New
	case HashMurmur:
		build = func() hash.Hash { return murmur3.New64() }
	case HashXXHash:
		build = func() hash.Hash { return xxhash.New64() }
	default:
		return nil, commonerrors.Newf(commonerrors.ErrNotFound, "unknown hashing algorithm [%v]", htype)
	}
	return &algorithm{build: build, kind: htype}, nil
}

// CalculateXXHash returns the xxhash digest of data. It is the default checksum used for
// journal payload integrity.
func CalculateXXHash(data []byte) string {
	algo, err := NewHashingAlgorithm(HashXXHash)
	if err != nil {
		return ""
	}
	digest, err := algo.CalculateBytes(data)
	if err != nil {
		return ""
	}
	return digest
}
