package runner

import "errors"

// Fatal error classes. Everything here is fail-fast: no operation is
// retried and the run aborts on the first failure.
var (
	ErrInvalidVolume = errors.New("not a btrfs subvolume")
	ErrNameCollision = errors.New("snapshot name already exists")
)

// SkipError reports that the staleness gate decided against a new
// snapshot. It is a successful no-op, not a failure; the caller maps it to
// exit code 0 unless the policy treats omitted snapshots as errors.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string {
	return "snapshot skipped: " + e.Reason
}

// IsSkip reports whether err is a staleness skip and returns its reason.
func IsSkip(err error) (string, bool) {
	var skip *SkipError
	if errors.As(err, &skip) {
		return skip.Reason, true
	}
	return "", false
}
