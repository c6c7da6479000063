// Package tagging derives revision keys from index.html content.
package tagging

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/zeebo/blake3"
)

const (
	DefaultLength = 12
	MinLength     = 8
	MaxLength     = 64
)

var ErrEmptyPayload = errors.New("empty payload")

// Tagger produces a deterministic, non-empty identifier for a payload.
type Tagger interface {
	Tag(payload []byte) (string, error)
}

// ContentTagger tags payloads with a truncated BLAKE3-256 hex digest.
type ContentTagger struct {
	length int
}

func NewContentTagger(length int) (*ContentTagger, error) {
	if length == 0 {
		length = DefaultLength
	}
	if length < MinLength || length > MaxLength {
		return nil, fmt.Errorf("tag length %d out of range [%d, %d]", length, MinLength, MaxLength)
	}
	return &ContentTagger{length: length}, nil
}

func (t *ContentTagger) Tag(payload []byte) (string, error) {
	if len(payload) == 0 {
		return "", ErrEmptyPayload
	}
	return HashHex(payload)[:t.length], nil
}

func HashHex(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
