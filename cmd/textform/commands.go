package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/textform/internal/engine/buffer"
	"github.com/dshills/textform/internal/indent"
)

func newIndentCmd(v *viper.Viper) *cobra.Command {
	var at int

	cmd := &cobra.Command{
		Use:   "indent FILE",
		Short: "Print the indentation computed for the line at an offset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readBuffer(cmd, args[0])
			if err != nil {
				return err
			}
			e, err := loadEngine(v, b.Text())
			if err != nil {
				return err
			}
			defer e.Close()

			loc, err := location(at, b)
			if err != nil {
				return err
			}

			result, err := e.Indenter.ComputeIndentation(loc, b)
			if errors.Is(err, indent.ErrUnableToComputeReferenceRange) {
				fmt.Fprintf(cmd.OutOrStdout(), "none %q\n", "")
				return nil
			}
			if err != nil {
				return err
			}

			ws, err := indent.Render(result, b, e.Unit, e.TabWidth)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %q\n", result, ws)
			return nil
		},
	}

	cmd.Flags().IntVar(&at, "at", -1, "byte offset (default: end of input)")
	return cmd
}

func newReindentCmd(v *viper.Viper) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "reindent FILE",
		Short: "Rewrite the leading whitespace of every line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			b, err := readBuffer(cmd, path)
			if err != nil {
				return err
			}
			e, err := loadEngine(v, b.Text())
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.Indenter.Reindent(b, e.Unit, e.TabWidth); err != nil {
				return fmt.Errorf("reindenting %s: %w", path, err)
			}

			if write && path != "-" {
				info, err := os.Stat(path)
				if err != nil {
					return err
				}
				return os.WriteFile(path, []byte(b.Text()), info.Mode().Perm())
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), b.Text())
			return err
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to FILE")
	return cmd
}

func newTypeCmd(v *viper.Viper) *cobra.Command {
	var (
		at   int
		text string
	)

	cmd := &cobra.Command{
		Use:   "type [FILE]",
		Short: "Type text into FILE through the filter pipeline and print the result",
		Long: `Type feeds --text through the filter pipeline as if typed at --at.
Line breaks in --text are converted to FILE's line ending first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := buffer.NewBuffer()
			if len(args) == 1 {
				var err error
				if b, err = readBuffer(cmd, args[0]); err != nil {
					return err
				}
			}
			e, err := loadEngine(v, b.Text())
			if err != nil {
				return err
			}
			defer e.Close()

			loc, err := location(at, b)
			if err != nil {
				return err
			}
			if _, err := e.Type(b, loc, b.NormalizeLineEndings(text)); err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), b.Text())
			return err
		},
	}

	cmd.Flags().IntVar(&at, "at", -1, "byte offset to type at (default: end of input)")
	cmd.Flags().StringVarP(&text, "text", "t", "", "text to type")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}
