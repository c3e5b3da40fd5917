package supa

import "time"

// RetryStaleSchema runs fn and, when it failed with a stale-schema error,
// retries exactly once after the fixed delay. Stale-schema rejections happen
// before anything is written, so the retry cannot duplicate work. sleep may
// be nil; tests inject their own.
func RetryStaleSchema(delay time.Duration, sleep func(time.Duration), fn func() error) error {
	err := fn()
	if err != nil && IsSchemaCacheStale(err) {
		if sleep == nil {
			sleep = time.Sleep
		}
		sleep(delay)
		err = fn()
	}
	return err
}
