package cli

// Exit codes for the pyinit CLI. Every failure, including a request for
// help, exits with the same non-zero status.
const (
	// ExitSuccess indicates the project was fully created
	ExitSuccess = 0

	// ExitFailure indicates a validation, prerequisite or step failure, or --help
	ExitFailure = 1
)
