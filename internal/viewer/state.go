package viewer

// LoadState tracks a model through its asynchronous load cycle.
type LoadState int

const (
	// Idle means no load is running and nothing waits for an upload.
	Idle LoadState = iota

	// Pending means a fetch and parse runs in the background.
	Pending

	// ParsedReady means parsed geometry waits for its GPU upload.
	ParsedReady

	// Uploaded means the most recent load reached the GPU.
	Uploaded
)

func (s LoadState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case ParsedReady:
		return "parsed-ready"
	case Uploaded:
		return "uploaded"
	}
	return "unknown"
}
