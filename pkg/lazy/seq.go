package lazy

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrFetch wraps errors coming out of page fetchers.
	ErrFetch = errors.New("page fetch failed")

	// ErrRange flags an index beyond the end of a Seq.
	ErrRange = errors.New("index out of range")
)

// DefaultPageSize is used when NewSeq is given a non-positive page size.
const DefaultPageSize = 128

// FetchPage reads one page of a remote listing: up to limit items starting
// at offset, plus the total item count of the whole listing.
type FetchPage[T any] func(ctx context.Context, offset, limit int) (items []T, total int, err error)

// Seq is a lazily fetched, paged view of a remote sequence.
//
// Each page is unfetched, fetching, or cached. A cached page is never
// fetched again until Invalidate; a failed fetch leaves its page unfetched
// so the next access simply retries.
type Seq[T any] struct {
	fetch FetchPage[T]
	size  int
	pages map[int]*page[T]
	total int // below zero until some fetch reports it
}

type pageState int

const (
	fetching pageState = iota + 1
	cached
)

type page[T any] struct {
	state pageState
	items []T
}

func NewSeq[T any](size int, fetch FetchPage[T]) *Seq[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Seq[T]{
		fetch: fetch,
		size:  size,
		pages: map[int]*page[T]{},
		total: -1,
	}
}

func (s *Seq[T]) PageSize() int {
	return s.size
}

// Get returns the i-th item of the whole sequence, fetching the covering
// page when it is not cached yet.
func (s *Seq[T]) Get(ctx context.Context, i int) (T, error) {
	if i < 0 {
		return *new(T), fmt.Errorf("%w: %d", ErrRange, i)
	}

	p, err := s.page(ctx, i/s.size)
	if err != nil {
		return *new(T), err
	}
	at := i % s.size
	if len(p.items) <= at {
		return *new(T), fmt.Errorf("%w: %d", ErrRange, i)
	}
	return p.items[at], nil
}

// Total reports how many items the whole sequence has. When no page has
// been fetched yet, this fetches the first one.
func (s *Seq[T]) Total(ctx context.Context) (int, error) {
	if s.total < 0 {
		if _, err := s.page(ctx, 0); err != nil {
			return 0, err
		}
	}
	return s.total, nil
}

// Invalidate drops every cached page and the known total.
func (s *Seq[T]) Invalidate() {
	s.pages = map[int]*page[T]{}
	s.total = -1
}

// First fetches the first page. An empty sequence yields (nil, nil).
func (s *Seq[T]) First(ctx context.Context) (*Page[T], error) {
	return s.pageView(ctx, 0)
}

// Slice fetches every page, front to back, into one slice.
func (s *Seq[T]) Slice(ctx context.Context) ([]T, error) {
	items := []T{}
	p, err := s.First(ctx)
	for err == nil && p != nil {
		items = append(items, p.Items()...)
		p, err = p.Next(ctx)
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Seq[T]) page(ctx context.Context, pageno int) (*page[T], error) {
	if p, ok := s.pages[pageno]; ok {
		if p.state == cached {
			return p, nil
		}
		// the fetcher called back into its own Seq
		return nil, fmt.Errorf(
			"%w: reentrant fetch of the page at offset %d", ErrFetch, pageno*s.size,
		)
	}

	offset := pageno * s.size
	p := &page[T]{state: fetching}
	s.pages[pageno] = p

	items, total, err := s.fetch(ctx, offset, s.size)
	if err != nil {
		delete(s.pages, pageno) // back to unfetched; retrying is safe
		return nil, fmt.Errorf("%w: offset %d: %w", ErrFetch, offset, err)
	}

	p.state = cached
	p.items = items
	s.total = total
	return p, nil
}

func (s *Seq[T]) pageView(ctx context.Context, pageno int) (*Page[T], error) {
	if 0 <= s.total && s.total <= pageno*s.size {
		return nil, nil
	}
	p, err := s.page(ctx, pageno)
	if err != nil {
		return nil, err
	}
	if len(p.items) == 0 {
		return nil, nil
	}
	return &Page[T]{seq: s, pageno: pageno, items: p.items}, nil
}

// Page is one fetched page of a Seq.
type Page[T any] struct {
	seq    *Seq[T]
	pageno int
	items  []T
}

// Items of this page. Reading them never refetches.
func (p *Page[T]) Items() []T {
	return p.items
}

// Offset of this page's first item within the whole sequence.
func (p *Page[T]) Offset() int {
	return p.pageno * p.seq.size
}

// Next pulls the following page, fetching it on demand.
// After the last page it returns (nil, nil).
func (p *Page[T]) Next(ctx context.Context) (*Page[T], error) {
	return p.seq.pageView(ctx, p.pageno+1)
}
