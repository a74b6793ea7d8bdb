package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the minimal command surface the REPL dispatches to. The real
// App satisfies it; tests provide a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Show(ctx context.Context) error
	Edit(ctx context.Context) error
	SaveEdit(ctx context.Context) error
	CancelEdit(ctx context.Context) error
	Avatar(ctx context.Context) error
	Logout(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
}

// runREPL reads a line from scanner, parses the first token as the command,
// and dispatches to a. Unknown commands are reported back. The loop exits on
// EOF or when the user types "exit" or "quit".
//
// Handler errors are ignored here; handlers print their own errors so the
// loop stays resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("profile> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch cmd := parts[0]; cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: show, edit, save, cancel, avatar, logout, delete, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "show":
			_ = a.Show(ctx)

		case "edit":
			_ = a.Edit(ctx)

		case "save":
			_ = a.SaveEdit(ctx)

		case "cancel":
			_ = a.CancelEdit(ctx)

		case "avatar":
			_ = a.Avatar(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "delete":
			_ = a.DeleteAccount(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
