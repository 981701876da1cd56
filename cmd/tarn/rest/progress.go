package rest

import (
	"io"
	"sync"
)

// Progress watches a long-running transfer.
type Progress[T any] interface {
	// EstimatedTotalSize returns the size of the content being sent,
	// in bytes.
	EstimatedTotalSize() int64

	// ProgressedSize returns how many bytes went out so far.
	//
	// This size is updated during the transfer.
	ProgressedSize() int64

	// ProgressingFile returns the file currently being transferred.
	ProgressingFile() string

	// Error returns the error the operation failed with, if any.
	Error() error

	// Result returns the result of the operation.
	//
	// # Returns
	//
	// - T: the result of the operation.
	//
	// - bool: true if the operation has been done.
	Result() (T, bool)

	// Done returns a channel which is closed when the operation is over.
	Done() <-chan struct{}

	// Sent returns a channel which is closed when the content has been
	// handed to the server completely.
	Sent() <-chan struct{}
}

type progress[T any] struct {
	total    int64
	sentSize int64
	file     string
	err      error
	result   T
	resultOk bool
	done     chan struct{}
	sent     chan struct{}
	sentOnce sync.Once
}

func newProgress[T any](file string) *progress[T] {
	return &progress[T]{
		file: file,
		done: make(chan struct{}),
		sent: make(chan struct{}),
	}
}

func (p *progress[T]) EstimatedTotalSize() int64 {
	return p.total
}

func (p *progress[T]) ProgressedSize() int64 {
	return p.sentSize
}

func (p *progress[T]) ProgressingFile() string {
	return p.file
}

func (p *progress[T]) Error() error {
	return p.err
}

func (p *progress[T]) Result() (T, bool) {
	return p.result, p.resultOk
}

func (p *progress[T]) Done() <-chan struct{} {
	return p.done
}

func (p *progress[T]) Sent() <-chan struct{} {
	return p.sent
}

// markSent closes the sent channel, exactly once.
//
// Sent must close even when the transfer dies halfway; watchers wait on
// it before they wait on Done.
func (p *progress[T]) markSent() {
	p.sentOnce.Do(func() { close(p.sent) })
}

// fail finishes the progress before its transfer even started.
func (p *progress[T]) fail(err error) *progress[T] {
	p.err = err
	p.markSent()
	close(p.done)
	return p
}

type reportingReader struct {
	source io.Reader
	sent   *int64
}

func (r *reportingReader) Read(p []byte) (int, error) {
	n, err := r.source.Read(p)
	*r.sent += int64(n)
	return n, err
}
