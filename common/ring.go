package common

import (
	"sync"
)

// RingBuffer is a fixed size FIFO buffer which overwrites its oldest value when full.
// If built with NewSortingRingBuffer, values are kept ordered by less,
// which is cheap when values arrive mostly in order.
type RingBuffer[T any] struct {
	mu     sync.Mutex
	buffer []T
	size   int
	write  int
	count  int
	less   func(a, b T) bool
}

// NewRingBuffer creates a new ring buffer with a fixed size.
func NewRingBuffer[T any](size int) *RingBuffer[T] {
	if size < 1 {
		size = 1
	}
	return &RingBuffer[T]{
		buffer: make([]T, size),
		size:   size,
	}
}

func NewSortingRingBuffer[T any](size int, less func(a, b T) bool) *RingBuffer[T] {
	rb := NewRingBuffer[T](size)
	rb.less = less
	return rb
}

// back returns the buffer index of the i'th newest value.
func (rb *RingBuffer[T]) back(i int) int {
	return (rb.write - 1 - i + 2*rb.size) % rb.size
}

// Add inserts a new element into the buffer, overwriting the oldest if full.
func (rb *RingBuffer[T]) Add(value T) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.buffer[rb.write] = value
	rb.write = (rb.write + 1) % rb.size
	if rb.count < rb.size {
		rb.count++
	}
	if rb.less == nil {
		return
	}
	// Walk the new value back until it is not less than its predecessor.
	for i := 0; i < rb.count-1; i++ {
		newer, older := rb.back(i), rb.back(i+1)
		if !rb.less(rb.buffer[newer], rb.buffer[older]) {
			break
		}
		rb.buffer[newer], rb.buffer[older] = rb.buffer[older], rb.buffer[newer]
	}
}

// Get returns the contents of the buffer in FIFO (or sorted) order.
func (rb *RingBuffer[T]) Get() []T {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	result := make([]T, 0, rb.count)
	for i := rb.count - 1; i >= 0; i-- {
		result = append(result, rb.buffer[rb.back(i)])
	}
	return result
}

// Last returns the newest (or greatest) value, and false if the buffer is empty.
func (rb *RingBuffer[T]) Last() (T, bool) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if rb.count == 0 {
		var zero T
		return zero, false
	}
	return rb.buffer[rb.back(0)], true
}

// Len returns the current number of elements in the buffer.
func (rb *RingBuffer[T]) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.count
}

func (rb *RingBuffer[T]) Reset() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.buffer = make([]T, rb.size)
	rb.write = 0
	rb.count = 0
}
