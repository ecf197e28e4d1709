package protocol

// Execution statuses reported for a single decompilation.
const (
	StatusSuccess = "success"
	StatusTimeout = "timeout"
	StatusError   = "error"
)

// StderrMarker prefixes captured stderr when it is appended to the output.
const StderrMarker = "[CFR STDERR]"

// Result carries the outcome of one external decompiler run. A Result is
// always produced; child-process failures are encoded in Output and Status,
// never raised to the caller.
type Result struct {
	// Output is the captured standard output, possibly with an appended
	// stderr comment block.
	Output string
	// Stderr is the raw captured standard error.
	Stderr string
	// Status is one of StatusSuccess, StatusTimeout, StatusError.
	Status string
}
