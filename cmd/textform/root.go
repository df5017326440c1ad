package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/textform/internal/config"
	"github.com/dshills/textform/internal/engine/buffer"
	"github.com/dshills/textform/internal/indent"
)

// Viper keys. Flags and TEXTFORM_* environment variables both bind to these.
const (
	keyConfig   = "config"
	keyDebug    = "debug"
	keyDetect   = "detect"
	keyUseTabs  = "indent.use_tabs"
	keySize     = "indent.size"
	keyTabWidth = "indent.tab_width"
)

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "textform",
		Short: "Rule-based automatic indentation",
		Long: `textform computes and applies indentation for plain text using
prefix/suffix rules, a reference line and trigger strings.`,
		Version:      fmt.Sprintf("%s (%s, %s)", version, commit, date),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(cmd.ErrOrStderr(), v.GetBool(keyDebug))
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("config", "c", "", "rule file (TOML)")
	pf.Bool("debug", false, "log indentation decisions to stderr")
	pf.Bool("detect", false, "infer the indentation unit from the input text")
	pf.Bool("tabs", true, "indent with tabs")
	pf.Int("size", 4, "spaces per indentation level when not using tabs")
	pf.Int("tab-width", indent.DefaultTabWidth, "columns per tab stop")

	_ = v.BindPFlag(keyConfig, pf.Lookup("config"))
	_ = v.BindPFlag(keyDebug, pf.Lookup("debug"))
	_ = v.BindPFlag(keyDetect, pf.Lookup("detect"))
	_ = v.BindPFlag(keyUseTabs, pf.Lookup("tabs"))
	_ = v.BindPFlag(keySize, pf.Lookup("size"))
	_ = v.BindPFlag(keyTabWidth, pf.Lookup("tab-width"))

	v.SetEnvPrefix("TEXTFORM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	cmd.AddCommand(
		newIndentCmd(v),
		newReindentCmd(v),
		newTypeCmd(v),
	)
	return cmd
}

func setupLogging(w io.Writer, debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// loadEngine builds the engine from the rule file, then applies flag and
// environment overrides. With --detect the unit comes from text.
func loadEngine(v *viper.Viper, text string) (*config.Engine, error) {
	cfg := config.Defaults()
	if path := v.GetString(keyConfig); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	if v.IsSet(keyUseTabs) {
		cfg.Indent.UseTabs = v.GetBool(keyUseTabs)
	}
	if v.IsSet(keySize) {
		cfg.Indent.Size = v.GetInt(keySize)
	}
	if v.IsSet(keyTabWidth) {
		cfg.Indent.TabWidth = v.GetInt(keyTabWidth)
	}
	if v.GetBool(keyDetect) {
		unit := indent.DetectUnit(text)
		cfg.Indent.UseTabs = unit == "\t"
		if !cfg.Indent.UseTabs {
			cfg.Indent.Size = len(unit)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg.Build(config.DefaultFS())
}

// readBuffer loads path, or standard input when path is "-", into a buffer
// whose line ending is detected from the content.
func readBuffer(cmd *cobra.Command, path string) (*buffer.Buffer, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	b, err := buffer.NewBufferFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	slog.Debug("loaded input", "path", path, "bytes", b.Len(), "line_ending", b.LineEnding())
	return b, nil
}

// location resolves an --at value; negative means end of buffer.
func location(at int, b *buffer.Buffer) (buffer.Location, error) {
	if at < 0 {
		return b.Len(), nil
	}
	if at > b.Len() {
		return 0, fmt.Errorf("--at %d: %w", at, buffer.ErrOffsetOutOfRange)
	}
	return at, nil
}
