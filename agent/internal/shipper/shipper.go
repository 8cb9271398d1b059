package shipper

import (
	"context"
	"log/slog"
	"time"

	"github.com/tabtamer/tabtamer/pkg/backoff"
	"github.com/tabtamer/tabtamer/pkg/client"
	"github.com/tabtamer/tabtamer/pkg/types"
)

const (
	backoffInitial = 1 * time.Second
	backoffMax     = 60 * time.Second
	sendTimeout    = 10 * time.Second
)

// Sender delivers one batch to the server. *client.Client satisfies it.
type Sender interface {
	Analyze(ctx context.Context, tabs []types.Tab) error
}

// Shipper buffers tab batches and ships them to tabtamer-server.
// Ship() is non-blocking; when the buffer is full the oldest batch is evicted.
// Run() must be called in a goroutine to drain the buffer.
type Shipper struct {
	send    Sender
	buf     chan []types.Tab
	bo      *backoff.Backoff
	timeout time.Duration
}

// New creates a Shipper that holds up to bufferSize batches.
func New(send Sender, bufferSize int) *Shipper {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &Shipper{
		send:    send,
		buf:     make(chan []types.Tab, bufferSize),
		bo:      backoff.New(backoffInitial, backoffMax),
		timeout: sendTimeout,
	}
}

// Ship enqueues one batch. If the buffer is full the oldest batch is evicted
// to make room.
func (s *Shipper) Ship(tabs []types.Tab) {
	for {
		select {
		case s.buf <- tabs:
			return
		default:
		}
		select {
		case <-s.buf:
			slog.Warn("shipper: buffer full, evicted oldest batch",
				"buffer_cap", cap(s.buf))
		default:
		}
	}
}

// Pending returns the number of batches waiting to be sent.
func (s *Shipper) Pending() int { return len(s.buf) }

// Run drains the buffer, sending batches to the server in order.
// Run blocks until ctx is cancelled.
func (s *Shipper) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch := <-s.buf:
			if !s.deliver(ctx, batch) {
				return
			}
		}
	}
}

// deliver sends batch, retrying only failures that prove the server never
// applied it. Delivery is at most once per batch: a timeout or reset after the
// request went out drops the batch, since the next poll reports the same
// open tabs anyway. It returns false only when ctx is cancelled.
func (s *Shipper) deliver(ctx context.Context, batch []types.Tab) bool {
	for {
		sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err := s.send.Analyze(sendCtx, batch)
		cancel()

		if err == nil {
			s.bo.Reset()
			slog.Debug("shipper: batch delivered", "tabs", len(batch))
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		if client.IsPermanent(err) {
			slog.Error("shipper: permanent send error, discarding batch",
				"tabs", len(batch), "err", err)
			return true
		}
		if !client.NotDelivered(err) {
			slog.Warn("shipper: delivery outcome unknown, discarding batch",
				"tabs", len(batch), "err", err)
			return true
		}

		wait := s.bo.Next()
		slog.Warn("shipper: send failed, will retry",
			"tabs", len(batch), "err", err, "retry_in", wait)
		if backoff.Sleep(ctx, wait) != nil {
			return false
		}
	}
}
