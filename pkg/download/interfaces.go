package download

import "errors"

// Outcome is the terminal result of a mirror download attempt. Callers
// branch on it; there is no further state to inspect.
type Outcome int

const (
	// Success means the artifact was downloaded from some mirror.
	Success Outcome = iota
	// AbortedByUser means the user aborted the in-flight download.
	AbortedByUser
	// RetryCancelledByUser means the user declined the retry prompt after
	// the mirror list was exhausted.
	RetryCancelledByUser
	// ExhaustedMaxRetries means every mirror failed on every allowed pass.
	ExhaustedMaxRetries
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case AbortedByUser:
		return "aborted by user"
	case RetryCancelledByUser:
		return "retry cancelled by user"
	case ExhaustedMaxRetries:
		return "exhausted max retries"
	default:
		return "unknown outcome"
	}
}

// ErrAborted is wrapped by Queue.Download when the failure was a
// user-initiated abort rather than a network or integrity problem.
var ErrAborted = errors.New("download aborted by user")

// ErrNoMirrors signals an empty mirror list. This is a programming error on
// the caller's side, deliberately distinct from the Outcome values so it can
// never be mistaken for retry exhaustion.
var ErrNoMirrors = errors.New("mirror list is empty")

// Queue abstracts the download surface the setup runs its transfers
// through. Semantics are single-artifact: Clear drops any prior
// registration, Add registers exactly one pending item, and Download
// blocks until that item completes or fails.
type Queue interface {
	Clear()
	Add(url, name, expectedDigest string)
	Download() error
	Show()
	Hide()
}

// RetryPrompter asks the user whether to retry after every mirror in the
// list has failed. Returning false cancels the operation.
type RetryPrompter interface {
	PromptRetry(message string) bool
}
