// Package testutil provides an in-memory execution node and fixtures for
// testing the transaction pipeline without a real network. SimNode implements
// viem.NodeBackend with deterministic state and go-ethereum flavored
// rejection diagnostics, and mines queued transactions on Commit.
package testutil
