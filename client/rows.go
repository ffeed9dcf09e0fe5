package client

import "sync"

// rowItem is one element of the streaming pipeline: a row, or the single
// terminal error that precedes channel close.
type rowItem struct {
	row *Row
	err error
}

// Rows is the consumer side of a streaming query result: a lazy, finite,
// non-restartable sequence of rows pulled from a bounded channel. The
// producer blocks when the buffer is full, so a slow consumer
// backpressures query execution.
//
// Rows is not safe for concurrent use.
type Rows struct {
	ch        <-chan rowItem
	done      chan struct{}
	cur       *Row
	err       error
	finished  bool
	closeOnce sync.Once
}

func newRows(ch <-chan rowItem, done chan struct{}) *Rows {
	return &Rows{ch: ch, done: done}
}

// Next blocks until the next row is available and reports whether one
// was. It returns false at end of results, after a terminal error
// (see Err), or after Close.
func (r *Rows) Next() bool {
	if r.finished {
		return false
	}

	item, ok := <-r.ch
	if !ok {
		r.finished = true
		r.cur = nil
		return false
	}
	if item.err != nil {
		r.err = item.err
		r.finished = true
		r.cur = nil
		return false
	}

	r.cur = item.row
	return true
}

// Row returns the current row. Valid after Next returned true.
func (r *Rows) Row() *Row { return r.cur }

// Err returns the terminal error, if the stream ended because of one.
// Rows delivered before the error remain valid.
func (r *Rows) Err() error { return r.err }

// Close abandons the result. The producer is signalled to stop promptly;
// rows still buffered are discarded. Close is idempotent and safe to call
// concurrently with a blocked producer.
func (r *Rows) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
	})
	r.finished = true
	r.cur = nil
}
