package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/herbscan/internal/client/capture"
	"github.com/dmitrijs2005/herbscan/internal/client/orchestrator"
	"github.com/dmitrijs2005/herbscan/internal/common"
)

func (a *App) maxImageBytes() int64 {
	if a.config == nil {
		return 0
	}
	return a.config.MaxImageBytes
}

// Select reads an image file and makes it the current selection. Without an
// argument the path is prompted for; an empty answer keeps the current
// state.
func (a *App) Select(ctx context.Context, args []string) error {
	path := strings.Join(args, " ")
	if path == "" {
		var err error
		path, err = getSimpleText(a.reader, "Enter image path (empty to cancel)", a.out)
		if err != nil {
			return err
		}
	}

	if err := a.scanner.SelectFrom(ctx, capture.NewFileSource(path, a.maxImageBytes())); err != nil {
		return err
	}

	if strings.TrimSpace(path) == "" {
		fmt.Fprintln(a.out, dimColor("Selection cancelled"))
		return nil
	}
	snap := a.scanner.Snapshot()
	fmt.Fprintf(a.out, "Image selected (%d bytes). Use 'identify' to submit.\n", snap.ImageSize)
	return nil
}

// Identify submits the selected image and prints the outcome. A failed
// identification is shown as a result, not returned as an error.
func (a *App) Identify(ctx context.Context) error {
	fmt.Fprintln(a.out, "Identifying...")

	err := a.scanner.Submit(ctx)
	var f *orchestrator.Failure
	switch {
	case err == nil, errors.As(err, &f):
		renderResult(a.out, a.scanner.Snapshot())
		return nil
	case errors.Is(err, orchestrator.ErrDiscarded):
		fmt.Fprintln(a.out, dimColor("Identification discarded"))
		return nil
	case errors.Is(err, common.ErrInvalidState):
		return fmt.Errorf("nothing to identify, use 'select <image>' first (%s)", a.scanner.State())
	default:
		return err
	}
}

func (a *App) Result(ctx context.Context) error {
	renderResult(a.out, a.scanner.Snapshot())
	return nil
}

func (a *App) Reset(ctx context.Context) error {
	a.scanner.Reset()
	fmt.Fprintln(a.out, "Ready for a new image")
	return nil
}

// History prints recorded scans newest first, optionally only the first n.
func (a *App) History(ctx context.Context, args []string) error {
	limit := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("%w: history count must be a non-negative number", common.ErrValidation)
		}
		limit = n
	}

	shown := 0
	for s, err := range a.history.List(ctx) {
		if err != nil {
			return err
		}
		renderScan(a.out, s)
		shown++
		if limit > 0 && shown >= limit {
			break
		}
	}
	if shown == 0 {
		fmt.Fprintln(a.out, "No scans yet")
	}
	return nil
}

func (a *App) ClearHistory(ctx context.Context) error {
	if err := a.history.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "History cleared")
	return nil
}
