package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/herbscan/internal/common"
)

// Catalog lists one page of the knowledge store. Arguments are an optional
// search query followed by an optional numeric offset.
func (a *App) Catalog(ctx context.Context, args []string) error {
	query, skip := splitQuery(args)

	page, err := a.catalogService.Browse(ctx, query, skip)
	if err != nil {
		return err
	}
	if page.Offline {
		a.setMode(ModeOffline)
	}
	renderCatalogPage(a.out, page)
	return nil
}

func splitQuery(args []string) (string, int) {
	if n := len(args); n > 0 {
		if skip, err := strconv.Atoi(args[n-1]); err == nil && skip >= 0 {
			return strings.Join(args[:n-1], " "), skip
		}
	}
	return strings.Join(args, " "), 0
}

// Search filters the records already loaded on the client without asking
// the server.
func (a *App) Search(ctx context.Context, args []string) error {
	found := a.catalogService.Search(strings.Join(args, " "))
	if len(found) == 0 {
		fmt.Fprintln(a.out, "No plants found. Use 'catalog' to load more records.")
		return nil
	}
	for _, p := range found {
		renderSummary(a.out, p)
	}
	return nil
}

// Show prints the full record for an id.
func (a *App) Show(ctx context.Context, args []string) error {
	p, offline, err := a.catalogService.Get(ctx, args[0])
	if err != nil {
		return err
	}
	if offline {
		a.setMode(ModeOffline)
		fmt.Fprintln(a.out, warnColor("Server unavailable, showing cached record"))
	}
	renderPlant(a.out, p)
	return nil
}

// Import loads seed records from a YAML file into the local catalog.
func (a *App) Import(ctx context.Context, args []string) error {
	path := strings.Join(args, " ")
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	defer f.Close()

	n, rejected, err := a.catalogService.Import(ctx, f)
	for _, r := range rejected {
		fmt.Fprintln(a.out, warnColor("Rejected:"), r)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, successColor(fmt.Sprintf("Imported %d record(s)", n)))
	return nil
}
