// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the command line of the sync client.
//
// Every command opens the local database under an exclusive file lock, wires
// the sync services and runs one operation: a sync, a full resync, a retry of
// failed entities, the failure report, the sync graph, or the daemon that
// keeps syncing in the background.
package client
