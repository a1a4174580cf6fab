package analyze

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/ibt-analyzer-go/pkg/cmd/util"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/store"
)

func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze file",
		Short: "process a single telemetry recording and print the session report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), args[0])
		},
	}
	return cmd
}

func runAnalyze(ctx context.Context, fileName string) error {
	logger := util.SetupLogger()
	defer logger.Sync() //nolint:errcheck // ok on exit

	st := store.New()
	proc := util.NewProcessor(st)
	res, err := proc.Process(ctx, fileName)
	if err != nil {
		return err
	}
	return printResult(os.Stdout, res)
}
