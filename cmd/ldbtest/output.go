package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format and exits.
// Only for failures before a store handle exists; once a command holds
// a handle it returns its error through RunE so deferred Close runs.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if jsonOutput {
		outputJSON(ErrorResponse{Error: msg})
	} else {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse covers commands whose result is just success plus the
// arguments they acted on.
type StatusResponse struct {
	Status string `json:"status"`
	Key    string `json:"key,omitempty"`
	Value  string `json:"value,omitempty"`
}

// GetResponse is the response for the get command.
type GetResponse struct {
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
	Found bool   `json:"found"`
}

// HasResponse is the response for the has command.
type HasResponse struct {
	Key    string `json:"key"`
	Exists bool   `json:"exists"`
}

// ScanRecord is one key-value pair in a scan response.
type ScanRecord struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ScanResponse is the response for the scan command.
type ScanResponse struct {
	Records []ScanRecord `json:"records"`
	Count   int          `json:"count"`
}

// BatchResponse is the response for the batch command.
type BatchResponse struct {
	Status  string `json:"status"`
	Entries int    `json:"entries"`
	Source  string `json:"source"`
}

// StatsResponse is the response for the stats command.
type StatsResponse struct {
	Properties map[string]string `json:"properties"`
}

// PerfPhase is one timed benchmark phase.
type PerfPhase struct {
	Ops        int     `json:"ops"`
	DurationMS int64   `json:"duration_ms"`
	OpsPerSec  float64 `json:"ops_per_sec"`
}

// PerfResponse is the response for the perf command. Read is absent
// when the read phase failed; the completed write phase is still
// reported.
type PerfResponse struct {
	Write *PerfPhase `json:"write,omitempty"`
	Read  *PerfPhase `json:"read,omitempty"`
}
