// Package cli provides the interactive taskdesk command-line client.
//
// It wires configuration, the local session store, the API client and a
// REPL mirroring the browser screens: register, login, the token-gated
// products view, whoami and logout. A background watcher probes the
// server's health endpoint and shows online/offline in the prompt.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
