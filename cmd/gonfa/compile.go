package main

import (
	"github.com/spf13/cobra"

	"GoNFA/internal/compiler"
	"GoNFA/internal/export"
)

func newCompileCommand(a *app) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "compile PATTERN",
		Short: "Print the automaton for PATTERN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = a.cfg.Output.Format
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return &exitError{code: 2, err: err}
			}

			c := compiler.New(compiler.Options{Logger: a.logger})
			res, err := c.Compile(args[0])
			if err != nil {
				return &exitError{code: 2, err: err}
			}
			if output != "" {
				if err := export.WriteFile(output, res.Pattern, res.NFA, f); err != nil {
					return err
				}
				a.logger.Info("automaton written", "path", output, "compile_id", res.ID.String())
				return nil
			}
			return export.Write(cmd.OutOrStdout(), res.Pattern, res.NFA, f)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json, yaml, dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to FILE instead of stdout (replaced atomically)")
	return cmd
}
