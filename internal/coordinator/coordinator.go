package coordinator

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"sync"

	"github.com/jasperdg/bsc-seedify-pm/internal/execution"
	"github.com/jasperdg/bsc-seedify-pm/internal/fetcher"
	"github.com/jasperdg/bsc-seedify-pm/internal/process"
)

// Outcome is the result of one execution in a batch
type Outcome struct {
	Feed string

	// Status is the terminal report of the execution; pending when Err is set
	Status process.Status

	// Value is the reported fixed-point price when Status is succeeded
	Value *big.Int

	// Message is the reported error message when Status is failed
	Message string

	// Err is set when the execution aborted without reporting
	Err error
}

// Coordinator runs independent executions for several feeds concurrently
type Coordinator struct {
	fetcher fetcher.Fetcher
	opts    execution.Options
}

// New creates a new Coordinator sharing f and opts across executions
func New(f fetcher.Fetcher, opts execution.Options) *Coordinator {
	return &Coordinator{
		fetcher: f,
		opts:    opts,
	}
}

// Run executes the routine once per feed, each in its own goroutine with its
// own host. Outcomes are returned in the order of feeds.
func (c *Coordinator) Run(ctx context.Context, feeds []string) ([]Outcome, error) {
	if len(feeds) == 0 {
		return nil, fmt.Errorf("no feeds configured")
	}

	outcomes := make([]Outcome, len(feeds))

	var wg sync.WaitGroup
	for i, feed := range feeds {
		wg.Add(1)
		go func(i int, feed string) {
			defer wg.Done()
			outcomes[i] = c.runOne(ctx, feed)
		}(i, feed)
	}
	wg.Wait()

	return outcomes, nil
}

func (c *Coordinator) runOne(ctx context.Context, feed string) Outcome {
	proc := process.NewRecorder([]byte(feed))
	out := Outcome{Feed: feed}

	if err := execution.Execute(ctx, proc, c.fetcher, c.opts); err != nil {
		out.Err = err
		return out
	}

	out.Status = proc.Status()
	switch out.Status {
	case process.StatusSucceeded:
		value, err := execution.DecodeUint128LE(proc.Payload())
		if err != nil {
			out.Err = err
			return out
		}
		out.Value = value
	case process.StatusFailed:
		out.Message = string(proc.Payload())
	}
	return out
}

// Write prints outcomes one per line:
//   - Success: "FEED: VALUE"
//   - Reported error: "FEED: ERROR - message"
//   - Aborted: "FEED: FAILED - error"
func Write(w io.Writer, outcomes []Outcome) error {
	for _, o := range outcomes {
		var err error
		switch {
		case o.Err != nil:
			_, err = fmt.Fprintf(w, "%s: FAILED - %v\n", o.Feed, o.Err)
		case o.Status == process.StatusSucceeded:
			_, err = fmt.Fprintf(w, "%s: %s\n", o.Feed, o.Value)
		default:
			_, err = fmt.Fprintf(w, "%s: ERROR - %s\n", o.Feed, o.Message)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
