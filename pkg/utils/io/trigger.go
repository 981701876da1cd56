package io

import (
	"io"
	"sync"
)

// TriggerReader invokes callbacks when the underlying stream is exhausted.
//
// Callbacks run exactly once, on the Read that returns io.EOF. A callback
// registered after exhaustion runs immediately.
type TriggerReader interface {
	io.Reader
	OnEnd(callback func())
}

type triggerReader struct {
	base      io.Reader
	onEnd     []func()
	exhausted bool
	mux       sync.Mutex
}

func NewTriggerReader(base io.Reader) TriggerReader {
	return &triggerReader{base: base}
}

func (t *triggerReader) Read(p []byte) (int, error) {
	n, err := t.base.Read(p)
	if err == io.EOF {
		t.mux.Lock()
		defer t.mux.Unlock()
		if !t.exhausted {
			t.exhausted = true
			for _, f := range t.onEnd {
				f()
			}
			t.onEnd = nil
		}
	}
	return n, err
}

func (t *triggerReader) OnEnd(callback func()) {
	t.mux.Lock()
	defer t.mux.Unlock()

	if t.exhausted {
		callback()
		return
	}
	t.onEnd = append(t.onEnd, callback)
}
