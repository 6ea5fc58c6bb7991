package stream

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/soocke/facepad-go/domain/steer"
)

const eventBuffer = 16

// Hub runs a single producer session while at least one video client is
// subscribed and fans its output out to every subscriber. Slow clients
// miss frames instead of queueing them.
type Hub struct {
	producer Producer
	logger   *slog.Logger

	mu      sync.Mutex
	frames  map[chan []byte]struct{}
	events  map[chan steer.Event]struct{}
	cancel  context.CancelFunc
	done    chan struct{}
	session string
	err     error
	closed  bool
}

// NewHub returns an idle hub over producer.
func NewHub(producer Producer, logger *slog.Logger) *Hub {
	return &Hub{
		producer: producer,
		logger:   logger,
		frames:   make(map[chan []byte]struct{}),
		events:   make(map[chan steer.Event]struct{}),
	}
}

// SubscribeFrames registers a video client. The first client starts a
// session. The channel is closed when the session fails or the hub closes;
// the returned func unsubscribes and stops the session after the last
// client leaves.
func (h *Hub) SubscribeFrames() (<-chan []byte, func()) {
	ch := make(chan []byte, 1)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.frames[ch] = struct{}{}
	if h.cancel == nil {
		h.startLocked()
	}
	return ch, func() { h.unsubscribeFrames(ch) }
}

// SubscribeEvents registers an event listener. Listeners do not keep the
// session alive.
func (h *Hub) SubscribeEvents() (<-chan steer.Event, func()) {
	ch := make(chan steer.Event, eventBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.events[ch] = struct{}{}
	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.events[ch]; ok {
			delete(h.events, ch)
			close(ch)
		}
	}
}

// Clients returns the number of video subscribers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.frames)
}

// Running reports whether a session is active.
func (h *Hub) Running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancel != nil
}

// Session returns the id of the current or last session.
func (h *Hub) Session() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session
}

// Err returns the error that ended the last session, if any.
func (h *Hub) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Close ends the session, closes all subscriber channels and waits for the
// producer to stop.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	h.dropAllLocked()
	done := h.done
	h.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (h *Hub) startLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	prev := h.done
	done := make(chan struct{})
	h.cancel = cancel
	h.done = done
	h.err = nil
	go func() {
		// A new session waits for the previous producer to stop.
		if prev != nil {
			<-prev
		}
		h.run(ctx, done)
	}()
}

func (h *Hub) unsubscribeFrames(ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.frames[ch]; !ok {
		return
	}
	delete(h.frames, ch)
	close(ch)
	if len(h.frames) == 0 && h.cancel != nil {
		h.cancel()
		h.cancel = nil
		h.logger.Info("last client left, stopping session", "session", h.session)
	}
}

func (h *Hub) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	if ctx.Err() != nil {
		return
	}
	id := h.producer.Start(time.Now())
	defer h.producer.Stop()
	h.mu.Lock()
	h.session = id
	h.mu.Unlock()
	h.logger.Info("session started", "session", id)

	for {
		f, err := h.producer.Next(ctx)
		if err != nil {
			if ctx.Err() == nil {
				h.fail(err)
			}
			return
		}
		h.broadcast(f)
	}
}

func (h *Hub) broadcast(f Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(f.JPEG) > 0 {
		for ch := range h.frames {
			// Replace a frame the client has not picked up yet.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- f.JPEG:
			default:
			}
		}
	}
	for ch := range h.events {
		select {
		case ch <- f.Event:
		default:
		}
	}
}

// fail ends the session and disconnects every video client.
func (h *Hub) fail(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
	h.logger.Error("session ended", "session", h.session, "error", err)
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	for ch := range h.frames {
		delete(h.frames, ch)
		close(ch)
	}
}

func (h *Hub) dropAllLocked() {
	for ch := range h.frames {
		delete(h.frames, ch)
		close(ch)
	}
	for ch := range h.events {
		delete(h.events, ch)
		close(ch)
	}
}
