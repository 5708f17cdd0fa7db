package cli

import kerrors "github.com/ariel-frischer/keepachangelog/internal/errors"

// Exit codes for the kacl CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = kerrors.ExitSuccess

	// ExitValidationFailed indicates a check failed (e.g. fmt --check found unformatted files)
	ExitValidationFailed = kerrors.ExitCheckFailed

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = kerrors.ExitInvalidArgument

	// ExitMissingFile indicates the changelog or another required file is missing
	ExitMissingFile = kerrors.ExitMissingFile
)

// ExitCode returns the process exit code for an error returned by Execute.
func ExitCode(err error) int {
	return kerrors.ExitCodeOf(err)
}
