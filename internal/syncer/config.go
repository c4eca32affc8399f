// Package syncer uploads the local tasting history to the remote backend,
// one tasting at a time, remembering which records were already sent.
package syncer

import "time"

// DefaultLedgerKey is the store key listing the IDs already uploaded.
const DefaultLedgerKey = "synced"

// Config holds configuration for a sync run.
type Config struct {
	Email     string // Backend account; empty reuses a stored session
	Password  string // Backend password
	LedgerKey string // Store key of the uploaded-ID ledger
	DryRun    bool   // Count pending records without sending them
	Verbose   bool   // Log every record
}

// Stats holds sync statistics.
type Stats struct {
	Total     int
	Submitted int
	Failed    int
	Skipped   int
	Pending   int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}
