// Package orchestrator drives one identification request at a time: an
// image is selected, submitted once, and the outcome is either a parsed
// result (recorded in scan history) or a user-facing failure.
//
// At most one request is in flight per Orchestrator. Submit while a request
// is pending, or from any state other than ImageSelected, is rejected with
// common.ErrInvalidState and never reaches the transport. Reset detaches a
// pending request; its outcome is dropped when it arrives.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/herbscan/internal/client/capture"
	"github.com/dmitrijs2005/herbscan/internal/client/client"
	"github.com/dmitrijs2005/herbscan/internal/client/models"
	"github.com/dmitrijs2005/herbscan/internal/client/parser"
	"github.com/dmitrijs2005/herbscan/internal/common"
	"github.com/dmitrijs2005/herbscan/internal/logging"
)

// GenericFailureMessage is shown when the service gave no detail.
const GenericFailureMessage = "Failed to identify plant"

// ErrDiscarded is returned by a Submit whose request was detached by Reset.
var ErrDiscarded = errors.New("identification discarded after reset")

// Recorder stores successful identifications. *history.Cache implements it.
type Recorder interface {
	Append(ctx context.Context, s models.Scan) (models.Scan, error)
}

type Orchestrator struct {
	identifier client.Identifier
	history    Recorder
	log        logging.Logger

	mu      sync.Mutex
	state   State
	image   []byte
	result  *models.IdentificationResult
	scan    *models.Scan
	failure *Failure
	gen     uint64
}

func New(identifier client.Identifier, history Recorder, log logging.Logger) *Orchestrator {
	return &Orchestrator{
		identifier: identifier,
		history:    history,
		log:        log.With("component", "orchestrator"),
	}
}

// SelectImage holds a copy of img and moves to ImageSelected, dropping any
// previous result or failure.
func (o *Orchestrator) SelectImage(img []byte) error {
	if len(img) == 0 {
		return fmt.Errorf("%w: empty image", common.ErrInvalidState)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == Submitting {
		return fmt.Errorf("%w: request in flight", common.ErrInvalidState)
	}

	o.clearLocked()
	o.image = common.CloneBytes(img)
	o.state = ImageSelected
	return nil
}

// SelectFrom captures an image from src and selects it. A cancelled capture
// leaves the orchestrator untouched.
func (o *Orchestrator) SelectFrom(ctx context.Context, src capture.Source) error {
	img, err := src.Capture(ctx)
	if err != nil {
		return fmt.Errorf("capture image: %w", err)
	}
	if img.Cancelled {
		return nil
	}
	return o.SelectImage(img.Data)
}

// Submit sends the selected image to the identification service and waits
// for the outcome. It returns nil when the request resolves and a *Failure
// when it fails.
func (o *Orchestrator) Submit(ctx context.Context) error {
	o.mu.Lock()
	if o.state != ImageSelected {
		st := o.state
		o.mu.Unlock()
		return fmt.Errorf("%w: cannot submit while %s", common.ErrInvalidState, st)
	}
	o.state = Submitting
	o.gen++
	gen := o.gen
	image := common.CloneBytes(o.image)
	o.mu.Unlock()

	o.log.Debug(ctx, "submitting image", "bytes", len(image))

	payload, err := o.identifier.Identify(ctx, image)

	var (
		result  *models.IdentificationResult
		failure *Failure
	)
	switch {
	case err != nil && errors.Is(err, common.ErrMalformedResponse):
		failure = &Failure{Kind: FailureMalformed, Message: GenericFailureMessage, Err: err}
	case err != nil:
		msg := client.DetailOf(err)
		if msg == "" {
			msg = GenericFailureMessage
		}
		failure = &Failure{Kind: FailureTransport, Message: msg, Err: err}
	default:
		result, err = parser.ParseIdentification(payload)
		if err != nil {
			failure = &Failure{Kind: FailureMalformed, Message: GenericFailureMessage, Err: err}
		}
	}

	if failure != nil {
		if failure.Kind == FailureMalformed {
			o.log.Warn(ctx, "malformed identification response", "error", failure.Err)
		} else {
			o.log.Error(ctx, "identification request failed", "error", failure.Err)
		}
		if !o.finish(gen, Failed, nil, failure) {
			return ErrDiscarded
		}
		return failure
	}

	if !o.finish(gen, Resolved, result, nil) {
		return ErrDiscarded
	}
	o.log.Info(ctx, "plant identified", "plant", result.Name, "confidence", result.Confidence, "matched", result.MatchesDatabase)

	o.record(ctx, gen, result, image)
	return nil
}

// finish stores the outcome of request gen unless a Reset superseded it.
func (o *Orchestrator) finish(gen uint64, st State, result *models.IdentificationResult, failure *Failure) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.gen != gen || o.state != Submitting {
		return false
	}
	o.state = st
	o.result = result
	o.failure = failure
	return true
}

// record appends the resolved identification to history. A storage failure
// is logged and does not change the resolved state.
func (o *Orchestrator) record(ctx context.Context, gen uint64, result *models.IdentificationResult, image []byte) {
	if o.history == nil {
		return
	}

	scan, err := o.history.Append(ctx, models.ScanFromResult(result, image))
	if err != nil {
		o.log.Error(ctx, "failed to record scan", "plant", result.Name, "error", err)
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.gen == gen && o.state == Resolved {
		o.scan = &scan
	}
}

// Reset returns to Idle from any state.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.clearLocked()
	o.gen++
	o.state = Idle
}

func (o *Orchestrator) clearLocked() {
	common.WipeByteArray(o.image)
	o.image = nil
	o.result = nil
	o.scan = nil
	o.failure = nil
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := Snapshot{State: o.state, ImageSize: len(o.image), Result: o.result.Clone()}
	if o.scan != nil {
		sc := o.scan.Clone()
		s.Scan = &sc
	}
	if o.failure != nil {
		s.Failure = o.failure.Message
		s.Kind = o.failure.Kind
	}
	return s
}

// MatchedPlantID returns the knowledge record id the current result
// matched, so the caller can fetch the record when it needs it.
func (o *Orchestrator) MatchedPlantID() (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result.MatchedPlantID()
}
