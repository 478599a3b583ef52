// Package commands implements CLI commands.
package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Konsultn-Engineering/sqlinterp/config"
	"github.com/Konsultn-Engineering/sqlinterp/fragment"
	"github.com/Konsultn-Engineering/sqlinterp/internal/debug"
	"github.com/Konsultn-Engineering/sqlinterp/params"
)

// GlobalOptions are the flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	Debug      bool
}

func (o *GlobalOptions) load() (config.Config, error) {
	cfg := config.Default()
	if o.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(o.ConfigPath); err != nil {
			return config.Config{}, err
		}
	}
	debug.Init(o.Debug || cfg.Debug)
	return cfg, nil
}

// NewRenderCommand creates the render command.
func NewRenderCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "render JOB.yaml...",
		Short: "Render statement jobs",
		Long:  "Render each job file and print the SQL followed by its parameters",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			return runRender(cmd.OutOrStdout(), cfg, args)
		},
	}
}

func runRender(w io.Writer, cfg config.Config, paths []string) error {
	for i, path := range paths {
		job, err := LoadJob(path)
		if err != nil {
			return err
		}
		qopts, err := cfg.QueryOptions()
		if err != nil {
			return err
		}
		stmt, err := job.Builder(qopts...).Build()
		if err != nil {
			return errors.Wrap(err, path)
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		if len(paths) > 1 {
			fmt.Fprintf(w, "-- %s\n", path)
		}
		if err := printStatement(w, stmt); err != nil {
			return err
		}
	}
	return nil
}

func printStatement(w io.Writer, stmt fragment.Statement) error {
	fmt.Fprintln(w, stmt.SQL)
	if stmt.Params.Len() == 0 {
		return nil
	}
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tSIZE\tDIRECTION\tVALUE")
	for _, p := range stmt.Params.Parameters() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.DbType, size(p), p.Direction, params.Text(p.Value))
	}
	return tw.Flush()
}

func size(p *params.Parameter) string {
	switch {
	case p.Precision > 0:
		return fmt.Sprintf("(%d,%d)", p.Precision, p.Scale)
	case p.Size < 0:
		return "max"
	case p.Size > 0:
		return fmt.Sprint(p.Size)
	}
	return ""
}
