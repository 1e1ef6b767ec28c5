package feed

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alanyoungcy/pairbot/internal/domain"
	"github.com/alanyoungcy/pairbot/internal/venue"
)

// ReplayFile streams a recorded event log (one JSON frame per line) into
// out, in file order. Blank lines are skipped; undecodable lines are logged
// and skipped. The channel is closed when the file is exhausted.
func ReplayFile(ctx context.Context, path string, out chan<- domain.Event, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("replay: open %s: %w", path, err)
	}
	defer f.Close()
	defer close(out)

	log := logger.With(slog.String("component", "replay"))
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var line int
	for scanner.Scan() {
		line++
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}
		ev, err := venue.DecodeEvent(data)
		if err != nil {
			log.Warn("skipping replay line",
				slog.Int("line", line),
				slog.String("error", err.Error()),
			)
			continue
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("replay: read %s: %w", path, err)
	}
	log.Info("replay finished", slog.Int("lines", line))
	return nil
}
