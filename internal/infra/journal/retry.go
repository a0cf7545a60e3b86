package journal

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	"time"

	"shop-order-scheduler/internal/infra"
	"shop-order-scheduler/internal/pkg/errs"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

const retryBase = 100 * time.Millisecond

// withRetry runs attempt until it succeeds, fails with a non-retryable error
// or maxRetries is exhausted.
func withRetry(ctx context.Context, logger *slog.Logger, maxRetries int, attempt func() error) error {
	for n := 0; n <= maxRetries; n++ {
		err := attempt()
		if err == nil {
			return nil
		}

		if !infra.IsRetryablePgError(err) {
			return err
		}
		if n == maxRetries {
			logger.Error("transaction failed after max retries",
				"attempts", n+1,
				"error", err.Error())
			return errs.Mark(err, errMaxRetriesExceeded)
		}

		waitTime := calculateBackoff(n, retryBase)
		logger.Warn("retrying transaction due to retryable error",
			"attempt", n+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- masked to a positive value above
	return int64(uval) % n
}
