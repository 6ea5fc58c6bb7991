package stream

import (
	"context"
	"time"

	"github.com/soocke/facepad-go/domain/capture"
	"github.com/soocke/facepad-go/domain/pipeline"
	"github.com/soocke/facepad-go/domain/steer"
	"github.com/soocke/facepad-go/domain/vision"
)

// Frame is one encoded, annotated frame and the event it produced.
type Frame struct {
	JPEG  []byte
	Event steer.Event
}

// Producer yields frames while a session is active. Start and Stop bracket
// a session; Next blocks until a frame is ready or ctx is done.
type Producer interface {
	Start(now time.Time) string
	Next(ctx context.Context) (Frame, error)
	Stop()
}

// PipelineProducer drives the capture service and the pipeline runner and
// encodes each processed frame as JPEG.
type PipelineProducer struct {
	svc     capture.CaptureService
	runner  *pipeline.Runner
	quality int
}

// NewPipelineProducer returns a producer over svc and runner. quality is the
// JPEG quality, 1..100.
func NewPipelineProducer(svc capture.CaptureService, runner *pipeline.Runner, quality int) *PipelineProducer {
	return &PipelineProducer{svc: svc, runner: runner, quality: quality}
}

// Start resets tracking under a new session id and opens the frame flow.
func (p *PipelineProducer) Start(now time.Time) string {
	id := p.runner.Pipeline().Begin(now)
	p.svc.Start()
	return id
}

func (p *PipelineProducer) Next(ctx context.Context) (Frame, error) {
	ev, err := p.runner.Next(ctx)
	if err != nil {
		return Frame{}, err
	}
	// A frame that fails to encode still reports its event.
	jpeg, _ := vision.EncodeJPEG(*p.runner.Pipeline().Frame(), p.quality)
	return Frame{JPEG: jpeg, Event: ev}, nil
}

// Stop halts capture. The camera stays open for the next session.
func (p *PipelineProducer) Stop() { p.svc.Stop() }
