// Package logx configures announcer's structured logging.
//
// This repo uses a small wrapper (logx.Logger) on top of zerolog to keep:
//   - Console output readable (short timestamp + short caller)
//   - File output JSON-structured
//
// Delivery outcome lines are the pipeline's only reporting channel, so their
// message strings are stable and greppable (Success / Failed / Skipping ...).
package logx
