// Package commands implements CLI command handlers for sugarparser.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/JonMunkholm/SugarParser/internal/config"
	"github.com/JonMunkholm/SugarParser/internal/core"
	"github.com/JonMunkholm/SugarParser/internal/logging"
	"github.com/JonMunkholm/SugarParser/internal/textfile"
)

// ErrLoadFailed is returned when the export could not be loaded.
var ErrLoadFailed = errors.New("load failed")

// now is the clock used for lookback cutoffs. Tests replace it.
var now = time.Now

// Env carries the configuration shared by all commands.
// It is filled by the root command before any subcommand runs.
type Env struct {
	Config *config.Config
}

// Init loads configuration and installs the configured default logger.
func (e *Env) Init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	e.Config = cfg
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	return nil
}

// load reads the export at input. The returned logger carries the input path
// for every later log line. The loader logs its own progress; only the outcome
// is turned into an error here.
func (e *Env) load(ctx context.Context, input string) (core.LoadResult, *slog.Logger, error) {
	logger := logging.WithFields(ctx, "input", input)
	res := core.NewLoader(logger, textfile.NewOpener(logger)).LoadFile(input)
	if !res.Success {
		if res.Err != nil {
			return res, logger, fmt.Errorf("%w: %w", ErrLoadFailed, res.Err)
		}
		return res, logger, ErrLoadFailed
	}
	return res, logger, nil
}

// ReportError writes a failed command's error to w, followed by the mapped
// explanation when the error has one.
func ReportError(w io.Writer, err error) {
	ue := core.NewUserError(err)
	if ue == nil {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", ue.Technical)
	if core.IsUserFacing(ue) {
		fmt.Fprintln(w, core.FormatUserError(ue))
	}
}

// cutoffFlags are the mutually exclusive ways to choose a report start date.
type cutoffFlags struct {
	since string
	days  int
}

// resolve returns the cutoff chosen by the flags, falling back to the
// configured default lookback from the current time.
func (f cutoffFlags) resolve(defaultLookback time.Duration) (time.Time, error) {
	switch {
	case f.since != "":
		return core.ParseCutoff(f.since)
	case f.days > 0:
		return core.CutoffFromClock(now(), time.Duration(f.days)*24*time.Hour), nil
	case f.days < 0:
		return time.Time{}, fmt.Errorf("%w: --days must be positive, got %d", core.ErrInvalidCutoff, f.days)
	default:
		return core.CutoffFromClock(now(), defaultLookback), nil
	}
}
