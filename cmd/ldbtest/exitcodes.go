package main

// Exit codes. The CLI contract is deliberately coarse: anything that is
// not a success is a usage error or an operation failure.
const (
	ExitSuccess = 0
	ExitError   = 1
)
