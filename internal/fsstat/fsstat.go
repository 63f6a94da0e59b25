package fsstat

import (
	"errors"
	"os"
	"syscall"
	"time"

	"icon-engine/internal/logging"
)

// Stat is the filesystem view the icon engine depends on. The engine
// never touches os.Stat directly so tests and embedders can supply
// their own implementation.
type Stat interface {
	Exists(path string) bool
	Size(path string) (int64, error)
	MTime(path string) (time.Time, error)
	IsDir(path string) bool
}

// RetryConfig controls retry behavior for stale-handle errors on
// network filesystems.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns the retry policy used by the OS-backed
// implementation: a few short retries, only for ESTALE.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     500 * time.Millisecond,
	}
}

// OS is the Stat implementation backed by the real filesystem.
type OS struct {
	retry RetryConfig
}

// NewOS returns an OS-backed Stat with the default retry policy.
func NewOS() *OS {
	return &OS{retry: DefaultRetryConfig()}
}

// NewOSWithRetry returns an OS-backed Stat with a custom retry policy.
func NewOSWithRetry(cfg RetryConfig) *OS {
	return &OS{retry: cfg}
}

// isStaleError reports an NFS stale file handle (ESTALE).
func isStaleError(err error) bool {
	var errno syscall.Errno
	return errors.As(err, &errno) && errno == syscall.ESTALE
}

// stat performs os.Stat, retrying stale-handle errors with
// exponential backoff.
func (o *OS) stat(path string) (os.FileInfo, error) {
	var lastErr error
	backoff := o.retry.InitialBackoff

	for attempt := 0; attempt <= o.retry.MaxRetries; attempt++ {
		info, err := os.Stat(path)
		if err == nil {
			if attempt > 0 {
				logging.Debug("stat succeeded on retry %d for %s", attempt, path)
			}
			return info, nil
		}
		lastErr = err
		if !isStaleError(err) {
			return nil, err
		}
		if attempt < o.retry.MaxRetries {
			time.Sleep(backoff)
			backoff *= 2
			if backoff > o.retry.MaxBackoff {
				backoff = o.retry.MaxBackoff
			}
		}
	}

	logging.Warn("stat failed after %d retries for %s: %v", o.retry.MaxRetries, path, lastErr)
	return nil, lastErr
}

// Exists reports whether the path can be statted.
func (o *OS) Exists(path string) bool {
	_, err := o.stat(path)
	return err == nil
}

// Size returns the file size in bytes.
func (o *OS) Size(path string) (int64, error) {
	info, err := o.stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// MTime returns the modification time of the path.
func (o *OS) MTime(path string) (time.Time, error) {
	info, err := o.stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// IsDir reports whether the path is a directory. Symlinks are
// followed, so a link pointing at a directory counts as one.
func (o *OS) IsDir(path string) bool {
	info, err := o.stat(path)
	return err == nil && info.IsDir()
}
