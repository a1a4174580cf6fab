package utils

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mpapenbr/ibt-analyzer-go/log"
)

// WaitForStableFile blocks until the file size stays unchanged between
// two probes. The simulator writes recordings over several seconds, so
// a freshly created file must not be decoded right away.
func WaitForStableFile(
	ctx context.Context,
	path string,
	probeInterval, timeout time.Duration,
) error {
	timeoutReached := time.Now().Add(timeout)
	start := time.Now()
	log.Debug("wait for stable file",
		log.String("path", path),
		log.String("timeout", timeout.String()))
	lastSize := int64(-1)
	for time.Now().Before(timeoutReached) {
		fi, err := os.Stat(path)
		if err == nil && fi.Size() > 0 && fi.Size() == lastSize {
			log.Debug("file stable",
				log.String("path", path),
				log.String("duration", time.Since(start).String()))
			return nil
		}
		if err == nil {
			lastSize = fi.Size()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(probeInterval):
		}
	}
	return fmt.Errorf("%s did not stabilize after %v", path, timeout)
}
