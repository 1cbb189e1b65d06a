package service

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
)

// Identifier sequences start after this value, so the first id is <prefix>-1001.
const sequenceStart = 1000

// IDSequence hands out <prefix>-<n> identifiers.
type IDSequence struct {
	prefix string
	last   atomic.Uint64
}

// NewIDSequence returns a sequence whose first id is <prefix>-1001.
func NewIDSequence(prefix string) *IDSequence {
	seq := &IDSequence{prefix: prefix}
	seq.last.Store(sequenceStart)
	return seq
}

// Next returns the next identifier.
func (s *IDSequence) Next() string {
	return fmt.Sprintf("%s-%d", s.prefix, s.last.Add(1))
}

// Advance moves the sequence past an existing identifier so restored stores
// never receive a duplicate. Identifiers with another prefix are ignored.
func (s *IDSequence) Advance(existing string) {
	raw, ok := strings.CutPrefix(existing, s.prefix+"-")
	if !ok {
		return
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return
	}
	for {
		cur := s.last.Load()
		if n <= cur || s.last.CompareAndSwap(cur, n) {
			return
		}
	}
}
