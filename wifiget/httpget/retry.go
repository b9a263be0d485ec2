package httpget

import (
	"errors"
	"io"
	"log/slog"
	"strconv"
	"time"
)

// Policy decides what the program does after a failed Fetch.
type Policy struct {
	// Attempts is the total number of tries. Values below 1 mean 1.
	Attempts int
	// Backoff is the pause between tries.
	Backoff time.Duration
	// Sleep pauses between tries. Defaults to time.Sleep.
	Sleep  func(time.Duration)
	Logger *slog.Logger
}

// Retryable reports whether another attempt could succeed. A radio that is
// not in station mode or a server answering garbage will not improve by
// trying again.
func Retryable(err error) bool {
	return err != nil && !errors.Is(err, ErrNotStationMode) && !errors.Is(err, ErrInvalidResponse)
}

// Retry calls fn until it succeeds, returns a non-retryable error or the
// attempts run out. It returns the last error.
func Retry(p Policy, fn func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	log := p.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(127),
		}))
	}

	var err error
	for i := 1; ; i++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !Retryable(err) || i >= attempts {
			return err
		}
		log.Warn("retry:attempt-failed",
			slog.String("attempt", strconv.Itoa(i)+"/"+strconv.Itoa(attempts)),
			slog.String("step", string(FailedStep(err))),
			slog.String("err", err.Error()),
		)
		sleep(p.Backoff)
	}
}
