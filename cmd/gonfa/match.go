package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"GoNFA/internal/compiler"
	"GoNFA/internal/match"
)

func newMatchCommand(a *app) *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "match PATTERN [FILE...]",
		Short: "Print lines that match PATTERN",
		Long: "Print lines that contain a match of PATTERN, or with --full lines that match it\n" +
			"entirely. Reads standard input when no FILE is given. Exits 0 when a line\n" +
			"matched, 1 when none did and 2 on error.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := compiler.New(compiler.Options{
				Match: match.Options{
					MaxStatesVisited: a.cfg.Match.MaxStatesVisited,
					Timeout:          a.cfg.Match.Timeout.Duration,
					Logger:           a.logger,
				},
				Logger: a.logger,
			})
			res, err := c.Compile(args[0])
			if err != nil {
				return &exitError{code: 2, err: err}
			}

			g := &grep{
				matcher: res.Matcher,
				full:    full,
				out:     cmd.OutOrStdout(),
				prefix:  len(args) > 2,
			}
			paths := args[1:]
			if len(paths) == 0 {
				if err := g.scan("(standard input)", cmd.InOrStdin()); err != nil {
					return &exitError{code: 2, err: err}
				}
			}
			for _, path := range paths {
				if err := g.scanFile(path); err != nil {
					return &exitError{code: 2, err: err}
				}
			}
			if !g.found {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "require the whole line to match")
	return cmd
}

// grep prints matching lines, optionally prefixed with their file name.
type grep struct {
	matcher *match.Matcher
	full    bool
	out     io.Writer
	prefix  bool
	found   bool
}

func (g *grep) scanFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return g.scan(path, f)
}

func (g *grep) scan(name string, r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		var ok bool
		var err error
		if g.full {
			ok, err = g.matcher.MatchString(line)
		} else {
			ok, err = g.matcher.Contains(line)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if !ok {
			continue
		}
		g.found = true
		if g.prefix {
			fmt.Fprintf(g.out, "%s:%s\n", name, line)
		} else {
			fmt.Fprintln(g.out, line)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
