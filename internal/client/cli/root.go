package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	var parts []string
	if a.session != nil {
		if u := a.session.Username(); u != "" {
			parts = append(parts, u)
		}
	}
	if m := a.Mode(); m != "" {
		parts = append(parts, string(m))
	}
	if a.scanner != nil {
		parts = append(parts, a.scanner.State().String())
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "))
}

// Root starts the connectivity watcher and blocks in the REPL until the
// user exits or ctx is cancelled.
func (a *App) Root(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to HerbScan CLI (type 'help' for commands)")

	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader, a.report)
}
