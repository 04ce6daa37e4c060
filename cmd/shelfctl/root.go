package main

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/GriffinCanCode/AppShelf/pkg/client"
	"github.com/spf13/cobra"
)

// app carries state shared by every subcommand.
type app struct {
	addr    string
	timeout time.Duration
	asJSON  bool
	out     io.Writer
	client  *client.Client
}

// NewRootCmd builds the shelfctl command tree writing to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	defaultAddr := os.Getenv("SHELF_ADDR")
	if defaultAddr == "" {
		defaultAddr = client.DefaultAddr
	}

	root := &cobra.Command{
		Use:           "shelfctl",
		Short:         "Inspect and curate the AppShelf application catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts := client.DefaultOptions()
			opts.Timeout = a.timeout
			a.client = client.NewWithOptions(a.addr, opts)
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&a.addr, "addr", defaultAddr, "daemon address (env SHELF_ADDR)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 30*time.Second, "request timeout")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "print JSON instead of tables")

	root.AddCommand(
		newListCmd(a),
		newUsageCmd(a),
		newCategorizeCmd(a),
		newCategoryCmd(a),
		newAutoCmd(a),
		newStatsCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
