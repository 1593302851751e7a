// Copyright (C) 2025 Creditor Corp. Group.
// See LICENSE for copying information.

package sequencereader

import "errors"

// ErrEndOfSequence defines that the reader consumed all elements.
var ErrEndOfSequence = errors.New("end of sequence")

// SequenceReader yields the elements of a slice one by one.
type SequenceReader[T any] struct {
	seq []T
	idx int
}

// New is a constructor for SequenceReader.
func New[T any](seq []T) *SequenceReader[T] {
	return &SequenceReader[T]{seq: seq}
}

// HasNext returns true while unread elements remain.
func (sr *SequenceReader[T]) HasNext() bool {
	return sr.idx < len(sr.seq)
}

// Next returns the next element, ErrEndOfSequence when exhausted.
func (sr *SequenceReader[T]) Next() (T, error) {
	if !sr.HasNext() {
		var zero T
		return zero, ErrEndOfSequence
	}

	sr.idx++

	return sr.seq[sr.idx-1], nil
}

// Len returns how many elements are left unread.
func (sr *SequenceReader[T]) Len() int {
	return len(sr.seq) - sr.idx
}
