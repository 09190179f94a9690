package download

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Retryer drives a Queue through an ordered mirror list with bounded
// full-list retries. The mirror list is treated as one atomic attempt: a
// retry always restarts from the first mirror, mirrors are never remembered
// as bad and skipped.
type Retryer struct {
	queue    Queue
	prompter RetryPrompter
	logger   *zap.SugaredLogger
}

// NewRetryer creates a new Retryer
func NewRetryer(queue Queue, prompter RetryPrompter, logger *zap.SugaredLogger) *Retryer {
	return &Retryer{
		queue:    queue,
		prompter: prompter,
		logger:   logger,
	}
}

// Attempt downloads one logical artifact, falling back through mirrors on
// failure and prompting the user to retry the whole list up to maxRetries
// times. maxRetries of 0 means the list is tried exactly once end-to-end.
// An empty expectedDigest skips integrity checking.
//
// The returned Outcome is only meaningful when err is nil; the sole error
// case is an empty mirror list.
func (r *Retryer) Attempt(mirrors []string, localName, expectedDigest string, maxRetries int) (Outcome, error) {
	if len(mirrors) == 0 {
		return ExhaustedMaxRetries, fmt.Errorf("cannot download %s: %w", localName, ErrNoMirrors)
	}

	mirrorIndex := 0
	retryCount := 0

	for {
		r.queue.Clear()
		r.queue.Add(mirrors[mirrorIndex], localName, expectedDigest)

		err := r.queue.Download()
		if err == nil {
			r.logger.Infof("downloaded %s from mirror %d (%s)", localName, mirrorIndex, mirrors[mirrorIndex])
			return Success, nil
		}

		if errors.Is(err, ErrAborted) {
			// User aborts bypass the mirror/retry logic entirely.
			r.logger.Infof("download of %s aborted by user", localName)
			return AbortedByUser, nil
		}

		r.logger.Warnf("mirror %d (%s) failed for %s: %v", mirrorIndex, mirrors[mirrorIndex], localName, err)

		if mirrorIndex+1 < len(mirrors) {
			// Next mirror in the same pass; no retry-count increment.
			mirrorIndex++
			continue
		}

		retryCount++
		if retryCount > maxRetries {
			r.logger.Errorf("all %d mirrors failed for %s after %d full passes, giving up", len(mirrors), localName, retryCount)
			return ExhaustedMaxRetries, nil
		}

		if !r.prompter.PromptRetry(fmt.Sprintf("Downloading %s failed. Retry?", localName)) {
			r.logger.Infof("retry of %s cancelled by user", localName)
			return RetryCancelledByUser, nil
		}

		r.logger.Infof("retrying all mirrors for %s (pass %d of %d)", localName, retryCount+1, maxRetries+1)
		mirrorIndex = 0
	}
}
