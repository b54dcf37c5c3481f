package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, provider string) error
	Paste(ctx context.Context) error
	Whoami(ctx context.Context) error
	Open(ctx context.Context, path string) error
	Status(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the CodeTrack CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current session status (from statusFn) and accepts:
//
//	Signed out:
//	  - help             — show available commands
//	  - login [provider] — sign in via the browser (prompts when omitted)
//	  - paste            — enter a session token by hand
//	  - open <path>      — visit a page (public pages only)
//	  - status           — show session and route state
//	  - exit | quit      — leave the program
//
//	Signed in:
//	  - help             — show available commands
//	  - whoami           — show the signed-in profile
//	  - open <path>      — visit a page
//	  - status           — show session and route state
//	  - logout           — sign out
//	  - exit | quit      — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("ct> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, open <path>, status, logout, exit")
			} else {
				printlnFn("Available commands: login [provider], paste, open <path>, status, exit")
			}

		case "login":
			provider := ""
			if len(args) > 0 {
				provider = args[0]
			}
			_ = a.Login(ctx, provider)

		case "paste":
			_ = a.Paste(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "open":
			if len(args) == 0 {
				printlnFn("Usage: open <path>")
				continue
			}
			_ = a.Open(ctx, args[0])

		case "status":
			_ = a.Status(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
