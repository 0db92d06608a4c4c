package capture

import (
	"context"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/holoview/internal/detector"
)

// Preview holds the most recent annotated camera frame as JPEG for
// streaming. Frames are only encoded while someone is watching.
type Preview struct {
	mu       sync.Mutex
	jpeg     []byte
	seq      uint64
	at       time.Time
	watchers int
	updated  chan struct{}
}

// NewPreview creates an empty Preview.
func NewPreview() *Preview {
	return &Preview{updated: make(chan struct{})}
}

// Watching reports whether any viewer is attached.
func (p *Preview) Watching() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.watchers > 0
}

// Watch registers a viewer. The returned function must be called when the
// viewer goes away.
func (p *Preview) Watch() (release func()) {
	p.mu.Lock()
	p.watchers++
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			p.watchers--
			p.mu.Unlock()
		})
	}
}

// Publish draws hands over frame and stores it as the latest JPEG. frame
// is modified in place. Nothing is done when no viewer is attached.
func (p *Preview) Publish(frame *gocv.Mat, hands []detector.Frame, now time.Time) error {
	if !p.Watching() {
		return nil
	}

	DrawHands(frame, hands)

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return err
	}
	data := append([]byte(nil), buf.GetBytes()...)
	buf.Close()

	p.Set(data, now)
	return nil
}

// Set stores an already encoded JPEG and wakes waiting viewers.
func (p *Preview) Set(jpeg []byte, now time.Time) {
	p.mu.Lock()
	p.jpeg = jpeg
	p.seq++
	p.at = now
	close(p.updated)
	p.updated = make(chan struct{})
	p.mu.Unlock()
}

// Latest returns the latest JPEG and its sequence number. The sequence is
// zero if nothing has been published.
func (p *Preview) Latest() ([]byte, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.jpeg, p.seq
}

// Next blocks until a frame newer than after is available or ctx is done.
func (p *Preview) Next(ctx context.Context, after uint64) ([]byte, uint64, error) {
	for {
		p.mu.Lock()
		if p.seq > after {
			jpeg, seq := p.jpeg, p.seq
			p.mu.Unlock()
			return jpeg, seq, nil
		}
		wait := p.updated
		p.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, after, ctx.Err()
		case <-wait:
		}
	}
}
