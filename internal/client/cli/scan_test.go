package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/herbscan/internal/client/capture"
	"github.com/dmitrijs2005/herbscan/internal/client/client"
	"github.com/dmitrijs2005/herbscan/internal/client/config"
	"github.com/dmitrijs2005/herbscan/internal/client/models"
	"github.com/dmitrijs2005/herbscan/internal/client/orchestrator"
	"github.com/dmitrijs2005/herbscan/internal/client/parser"
	"github.com/dmitrijs2005/herbscan/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImage(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leaf.jpg")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestSelect_FromPath(t *testing.T) {
	app, d := newTestApp(t, "")
	require.NoError(t, app.Select(context.Background(), []string{writeImage(t, "jpegdata")}))

	assert.Equal(t, orchestrator.ImageSelected, app.scanner.State())
	assert.Contains(t, d.out.String(), "Image selected (8 bytes)")
}

func TestSelect_PromptedEmptyIsCancelled(t *testing.T) {
	app, d := newTestApp(t, "\n")
	require.NoError(t, app.Select(context.Background(), nil))

	assert.Equal(t, orchestrator.Idle, app.scanner.State())
	assert.Contains(t, d.out.String(), "Selection cancelled")
}

func TestSelect_TooLarge(t *testing.T) {
	app, _ := newTestApp(t, "")
	app.config = &config.Config{MaxImageBytes: 4}

	err := app.Select(context.Background(), []string{writeImage(t, "jpegdata")})
	require.ErrorIs(t, err, capture.ErrTooLarge)
	assert.Equal(t, orchestrator.Idle, app.scanner.State())
}

func TestIdentify_Resolved(t *testing.T) {
	app, d := newTestApp(t, "")
	d.ident.payload = parser.Payload{
		"plant_name":        "Tulsi",
		"scientific_name":   "Ocimum tenuiflorum",
		"confidence":        "High",
		"uses":              []any{"Tea"},
		"matches_database":  true,
		"database_plant_id": "p1",
	}
	require.NoError(t, app.scanner.SelectImage([]byte("img")))

	require.NoError(t, app.Identify(context.Background()))
	out := d.out.String()
	assert.Contains(t, out, "State: resolved")
	assert.Contains(t, out, "Tulsi")
	assert.Contains(t, out, "Confidence: High")
	assert.Contains(t, out, "  - Tea")
	assert.Contains(t, out, "use 'show p1' for the full record")

	recent, err := app.history.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "p1", recent[0].PlantID)
}

func TestIdentify_FailureIsRendered(t *testing.T) {
	app, d := newTestApp(t, "")
	d.ident.err = &client.TransportError{Op: "identify", Status: 500, Detail: "Failed to identify plant: quota", Err: client.ErrRequestFailed}
	require.NoError(t, app.scanner.SelectImage([]byte("img")))

	require.NoError(t, app.Identify(context.Background()))
	out := d.out.String()
	assert.Contains(t, out, "State: failed")
	assert.Contains(t, out, "Failed: Failed to identify plant: quota")
	assert.Equal(t, orchestrator.Failed, app.scanner.State())
}

func TestIdentify_WithoutSelection(t *testing.T) {
	app, _ := newTestApp(t, "")
	err := app.Identify(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "select <image>")
}

func TestResultAndReset(t *testing.T) {
	app, d := newTestApp(t, "")
	require.NoError(t, app.Result(context.Background()))
	assert.Contains(t, d.out.String(), "No image selected")

	require.NoError(t, app.scanner.SelectImage([]byte("img")))
	d.out.Reset()
	require.NoError(t, app.Result(context.Background()))
	assert.Contains(t, d.out.String(), "Image ready (3 bytes)")

	require.NoError(t, app.Reset(context.Background()))
	assert.Equal(t, orchestrator.Idle, app.scanner.State())
}

func TestHistory(t *testing.T) {
	app, d := newTestApp(t, "")
	ctx := context.Background()

	require.NoError(t, app.History(ctx, nil))
	assert.Contains(t, d.out.String(), "No scans yet")

	for _, n := range []string{"Neem", "Tulsi"} {
		_, err := app.history.Append(ctx, models.Scan{PlantName: n, Confidence: "High"})
		require.NoError(t, err)
	}

	d.out.Reset()
	require.NoError(t, app.History(ctx, nil))
	assert.Contains(t, d.out.String(), "Neem")
	assert.Contains(t, d.out.String(), "Tulsi")

	d.out.Reset()
	require.NoError(t, app.History(ctx, []string{"1"}))
	lines := nonEmptyLines(d.out.String())
	assert.Len(t, lines, 1)

	require.ErrorIs(t, app.History(ctx, []string{"x"}), common.ErrValidation)

	require.NoError(t, app.ClearHistory(ctx))
	d.out.Reset()
	require.NoError(t, app.History(ctx, nil))
	assert.Contains(t, d.out.String(), "No scans yet")
}
