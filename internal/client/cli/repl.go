package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/librarydesk/internal/logging"
)

// printlnFn and printFn are test seams for user-facing output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Open(ctx context.Context, path string) error
	Notify(ctx context.Context, kind, title string) error
	Issue(ctx context.Context, book, member string) error
	Return(ctx context.Context, book, member string) error
	Notifications(ctx context.Context) error
	Read(ctx context.Context, ref string) error
	ReadAll(ctx context.Context) error
	Clear(ctx context.Context) error
}

const (
	helpGuest  = "Available commands: register, login, open <path>, exit"
	helpMember = "Available commands: whoami, open <path>, issue <book> <member>, return <book> <member>, " +
		"notify <kind> <title...>, notifications, read <n|id>, readall, clear, logout, exit"
)

// runREPL starts a simple read-eval-print loop for the librarydesk shell.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on a. The loop exits on EOF or when the user types
// "exit" or "quit". Command errors are printed and the loop carries on.
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help                     show available commands
//	  - register                 create an account
//	  - login                    authenticate
//	  - open <path>              navigate to a view
//	  - exit | quit              leave the program
//
//	Logged in:
//	  - whoami                   show the profile of the current session
//	  - open <path>              navigate to a view
//	  - issue <book> <member>    record a loan
//	  - return <book> <member>   record a return
//	  - notify <kind> <title...> raise a notification
//	  - notifications            list notifications, newest first
//	  - read <n|id>              mark one notification as read
//	  - readall                  mark every notification as read
//	  - clear                    drop all notifications
//	  - logout                   log out
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printFn(fmt.Sprintf("library %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		cctx := logging.ContextWith(ctx, "cmd", cmd)

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpMember)
			} else {
				printlnFn(helpGuest)
			}

		case "register":
			report(a.Register(cctx))

		case "login":
			report(a.Login(cctx))

		case "logout":
			report(a.Logout(cctx))

		case "whoami":
			report(a.WhoAmI(cctx))

		case "open":
			if len(args) != 1 {
				printlnFn("Usage: open <path>")
				continue
			}
			report(a.Open(cctx, args[0]))

		case "notify":
			if len(args) < 2 {
				printlnFn("Usage: notify <info|success|warning|error> <title...>")
				continue
			}
			report(a.Notify(cctx, args[0], strings.Join(args[1:], " ")))

		case "issue", "return":
			if len(args) != 2 {
				printlnFn(fmt.Sprintf("Usage: %s <book> <member>", cmd))
				continue
			}
			if cmd == "issue" {
				report(a.Issue(cctx, args[0], args[1]))
			} else {
				report(a.Return(cctx, args[0], args[1]))
			}

		case "n", "notifications":
			report(a.Notifications(cctx))

		case "read":
			if len(args) != 1 {
				printlnFn("Usage: read <n|id>")
				continue
			}
			report(a.Read(cctx, args[0]))

		case "readall":
			report(a.ReadAll(cctx))

		case "clear":
			report(a.Clear(cctx))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}

func report(err error) {
	if err != nil {
		printlnFn("Error:", err)
	}
}
