// Package cli provides the interactive librarydesk terminal shell.
//
// It wires configuration, the local SQLite database, the session and
// notification stores, the toast sink and the route tree, and then runs a
// read-eval-print loop on top of them. The shell plays the part of the
// dashboard: "open" navigates to a view through the access gates, catalog
// events ("issue", "return", "notify") raise notifications, and the
// notifications menu lists, marks and clears them.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, NewApp and runREPL for details.
package cli
