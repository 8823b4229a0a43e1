//-------------------------------------------------------------------------
//
// Customer Churn Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package dims resolves cleaned records into dimension rows with
// surrogate identity. Only this package assigns surrogate keys.
package dims

// KeyAllocator hands out surrogate keys. Injectable so tests can use a
// fixed-start allocator and the pipeline can seed from the store's
// current maximum.
type KeyAllocator interface {
	Next() int64
}

// Sequence is a monotonic counter allocator, scoped to one dimension.
type Sequence struct {
	next int64
}

// NewSequence creates an allocator whose first key is start.
func NewSequence(start int64) *Sequence {
	return &Sequence{next: start}
}

// Next returns the next surrogate key.
func (s *Sequence) Next() int64 {
	key := s.next
	s.next++
	return key
}
