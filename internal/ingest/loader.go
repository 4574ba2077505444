package ingest

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"smartbook/internal/common"
)

// Files names the three feed files a run reads from.
type Files struct {
	L2Snapshots string
	L3Updates   string
	Trades      string
}

// Load reads all three feed files concurrently — one goroutine per file,
// supervised by a tomb — and returns their events merged into a single
// timestamp-ascending, stably-ordered sequence ready for Dispatch. A read
// failure on one feed does not interrupt the other reads: Load waits for
// all three to finish and then returns the first error.
func Load(ctx context.Context, files Files) ([]Event, error) {
	var t tomb.Tomb
	results := make([][]Event, 3)
	var mu sync.Mutex

	specs := []struct {
		idx  int
		path string
		kind Kind
	}{
		{0, files.L2Snapshots, KindL2Snapshot},
		{1, files.L3Updates, KindL3Update},
		{2, files.Trades, KindTrade},
	}

	for _, s := range specs {
		s := s
		t.Go(func() error {
			events, err := loadFile(s.path, s.kind)
			if err != nil {
				return fmt.Errorf("loading %s: %w", s.path, err)
			}
			mu.Lock()
			results[s.idx] = events
			mu.Unlock()
			return nil
		})
	}

	done := make(chan error, 1)
	go func() { done <- t.Wait() }()

	select {
	case <-ctx.Done():
		t.Kill(ctx.Err())
		<-done
		return nil, ctx.Err()
	case err := <-done:
		if err != nil {
			return nil, err
		}
	}

	var merged []Event
	for _, r := range results {
		merged = append(merged, r...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp < merged[j].Timestamp
	})
	return merged, nil
}

// loadFile reads one feed file line by line. Each line must begin with a
// numeric timestamp; the remainder is kept verbatim for the parser that
// owns that feed's format. Malformed lines are logged and skipped rather
// than failing the whole file.
func loadFile(path string, kind Kind) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		idx := strings.IndexByte(line, ' ')
		if idx < 0 {
			log.Warn().Str("file", path).Int("line", lineNo).Str("text", line).Msg("skipping unparseable feed line")
			continue
		}
		ts, err := strconv.ParseUint(line[:idx], 10, 64)
		if err != nil {
			log.Warn().Str("file", path).Int("line", lineNo).Err(err).Msg("skipping feed line with bad timestamp")
			continue
		}

		events = append(events, Event{
			Kind:      kind,
			Timestamp: common.Timestamp(ts),
			Line:      strings.TrimSpace(line[idx+1:]),
			Source:    path,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
