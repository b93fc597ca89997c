package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/SugarParser/internal/core"
	"github.com/JonMunkholm/SugarParser/internal/textfile"
	"github.com/JonMunkholm/SugarParser/internal/web"
)

// NewServeCommand creates the serve subcommand.
func NewServeCommand(env *Env) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "serve <export-file>",
		Short: "Load a meter export and serve report generation over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]

			res, logger, err := env.load(cmd.Context(), input)
			if err != nil {
				return err
			}

			if output == "" {
				output = textfile.OutputPath(input, env.Config.Report.OutputSuffix)
			}

			svc := core.NewService(res.Dataset, textfile.NewSink(output), logger,
				core.WithHistoryLimit(env.Config.Report.HistoryLimit))
			server := web.NewServer(svc, env.Config.Server, web.Options{
				Input:  input,
				Output: output,
				Stats:  res.Stats,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				if err := server.Start(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				logger.Info("shutting down...")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), env.Config.Server.ShutdownTimeout)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					logger.Error("shutdown error", "error", err)
					return err
				}
				return nil
			})

			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <input dir>/<name>_res.txt)")

	return cmd
}
