package app

import (
	"context"
	"time"

	"github.com/example/recipebump/internal/bumperr"
)

// forkWaitPolicy bounds the fork-readiness poll. Fork creation is
// asynchronous on the host side; an unbounded poll could hang forever, so
// the deadline turns a stuck fork into a distinct failure instead.
type forkWaitPolicy struct {
	interval time.Duration
	timeout  time.Duration
}

var defaultForkWaitPolicy = forkWaitPolicy{
	interval: 2 * time.Second,
	timeout:  60 * time.Second,
}

// waitForFork polls the host until the fork becomes visible or the policy
// deadline passes.
func (s *BumpServiceImpl) waitForFork(ctx context.Context, repo string) error {
	deadline := time.Now().Add(s.forkWait.timeout)
	ticker := time.NewTicker(s.forkWait.interval)
	defer ticker.Stop()

	for {
		exists, err := s.host.ForkExists(ctx, repo)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		if time.Now().After(deadline) {
			return bumperr.Newf(bumperr.KindForkNotReady,
				"fork of %s did not become ready within %s", repo, s.forkWait.timeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
