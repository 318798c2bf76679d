package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Catalog(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
	Select(ctx context.Context, args []string) error
	Identify(ctx context.Context) error
	Result(ctx context.Context) error
	Reset(ctx context.Context) error
	History(ctx context.Context, args []string) error
	ClearHistory(ctx context.Context) error
}

const (
	helpCommon = "Available commands: catalog [query] [skip], search <query>, show <id>, import <file.yaml>,\n" +
		"  select <image>, identify, result, reset, history [n], clearhistory, exit"
	helpGuest  = "  register, login"
	helpMember = "  whoami, logout"
)

// runREPL starts the read-eval-print loop of the HerbScan CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to a. The rest of the line is passed as arguments. The loop
// exits on EOF or when the user types "exit" or "quit".
//
// Errors returned by command handlers go to errFn so that one failed command
// never ends the session.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, errFn func(error)) {
	for {
		printlnFn(fmt.Sprintf("herb> %s > ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}
		if ctx.Err() != nil {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var cerr error
		switch cmd {
		case "help":
			printlnFn(helpCommon)
			if a.isLoggedIn() {
				printlnFn(helpMember)
			} else {
				printlnFn(helpGuest)
			}

		case "register":
			cerr = a.Register(ctx)
		case "login":
			cerr = a.Login(ctx)
		case "logout":
			cerr = a.Logout(ctx)
		case "whoami":
			cerr = a.WhoAmI(ctx)

		case "catalog", "l", "list":
			cerr = a.Catalog(ctx, args)
		case "search", "find":
			if len(args) == 0 {
				printlnFn("Usage: search <query>")
				continue
			}
			cerr = a.Search(ctx, args)
		case "show":
			if len(args) == 0 {
				printlnFn("Usage: show <id>")
				continue
			}
			cerr = a.Show(ctx, args)
		case "import":
			if len(args) == 0 {
				printlnFn("Usage: import <file.yaml>")
				continue
			}
			cerr = a.Import(ctx, args)

		case "select":
			cerr = a.Select(ctx, args)
		case "identify", "submit":
			cerr = a.Identify(ctx)
		case "result":
			cerr = a.Result(ctx)
		case "reset":
			cerr = a.Reset(ctx)
		case "history":
			cerr = a.History(ctx, args)
		case "clearhistory":
			cerr = a.ClearHistory(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cerr != nil && errFn != nil {
			errFn(cerr)
		}

		if err != nil {
			return
		}
	}
}
