package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go-directory/internal/employee"
	"go-directory/internal/search"

	"github.com/spf13/cobra"
)

type searchResult = search.Result[[]employee.EmployeeResponse]

// searchCmd treats every stdin line as the current content of a search box.
// Lines are debounced and only the newest answer is printed.
func searchCmd(opts *options) *cobra.Command {
	var delay time.Duration
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search employees interactively, one query per input line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSearch(cmd.Context(), opts, delay, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().DurationVar(&delay, "delay", search.DefaultDelay, "Quiet period before a query is sent")
	return cmd
}

type searchPrinter struct {
	out io.Writer

	mu      sync.Mutex
	last    *searchResult
	updated chan struct{}
}

func (p *searchPrinter) deliver(res searchResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if res.Err != nil {
		fmt.Fprintf(p.out, "search %q failed: %v\n", res.Query, res.Err)
	} else {
		fmt.Fprintf(p.out, "Results for %q:\n", res.Query)
		printEmployees(p.out, res.Value)
	}
	p.last = &res

	select {
	case p.updated <- struct{}{}:
	default:
	}
}

func (p *searchPrinter) lastFor(query string) (*searchResult, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil || p.last.Query != query {
		return nil, false
	}
	return p.last, true
}

func runSearch(ctx context.Context, opts *options, delay time.Duration, in io.Reader, out io.Writer) error {
	client := opts.client()
	printer := &searchPrinter{out: out, updated: make(chan struct{}, 1)}

	d := search.New(delay, func(ctx context.Context, query string) ([]employee.EmployeeResponse, error) {
		return client.List(ctx, query)
	}, printer.deliver)
	defer d.Close()

	var (
		last    string
		entered bool
	)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		last = strings.TrimSpace(scanner.Text())
		entered = true
		d.Trigger(last)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if !entered {
		return nil
	}

	// wait for the answer to the final query
	wait := delay
	if wait <= 0 {
		wait = search.DefaultDelay
	}
	deadline := time.NewTimer(wait + opts.timeout)
	defer deadline.Stop()
	for {
		if res, ok := printer.lastFor(last); ok {
			return res.Err
		}
		select {
		case <-printer.updated:
		case <-deadline.C:
			return fmt.Errorf("search %q timed out", last)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
