package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/extent"
)

var (
	runPolicy  string
	runChunk   int
	runReserve int
	runMapped  bool
	runDump    bool
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().StringVar(&runPolicy, "policy", "best-fit", "Placement policy: first-fit, next-fit, best-fit, best-fit-explicit")
	cmd.Flags().IntVar(&runChunk, "chunk", heap.DefaultChunkSize, "Arena growth unit in bytes")
	cmd.Flags().IntVar(&runReserve, "reserve", 1<<24, "Segment size limit in bytes (0 = unlimited in-memory)")
	cmd.Flags().BoolVar(&runMapped, "mapped", false, "Back the heap with an anonymous memory mapping")
	cmd.Flags().BoolVar(&runDump, "dump", false, "Dump the block table after the trace")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [trace-file]",
		Short: "Execute an allocation trace",
		Long: `The run command executes an allocation trace against a fresh heap and
verifies the block structure afterwards. The trace is read from the given
file, or from stdin when no file is named.

Example:
  heapctl run --policy next-fit trace.txt
  echo "alloc a 100" | heapctl run --dump`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(args)
		},
	}
}

func runTrace(args []string) error {
	policy, err := heap.ParsePolicy(runPolicy)
	if err != nil {
		return err
	}

	var prov extent.Provider
	if runMapped {
		prov, err = extent.NewMapped(runReserve)
		if err != nil {
			return err
		}
	} else {
		prov = extent.NewSegment(runReserve)
	}

	opts := &heap.Options{ChunkSize: runChunk}
	if verbose {
		opts.LogOutput = os.Stderr
	}
	h, err := heap.New(prov, policy, opts)
	if err != nil {
		return err
	}
	if verbose {
		h.SetLogLevel(slog.LevelDebug)
	}

	in := io.Reader(os.Stdin)
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	runner := newTraceRunner(h, os.Stdout)
	if err := runner.Run(in); err != nil {
		return err
	}
	if err := h.Check(); err != nil {
		return fmt.Errorf("post-trace check: %w", err)
	}
	if runDump {
		h.Dump(os.Stdout)
	}
	if c, ok := prov.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
