// Package msg defines the message types used by the TUI's Bubbletea event loop.
//
// Two kinds of messages flow through the loop: view updates forwarded from the
// review session (render, text, preview, status, alert), and completions of
// asynchronous work started by the model (session operations, preview
// renders, external opens, config reloads).
//
// The command factories in this package wrap that asynchronous work so the
// event loop never blocks on the network.
package msg
