// Package cmdutil provides shared utilities for defrag commands.
package cmdutil

import (
	"fmt"
	"io"
	"os"

	"github.com/marmos91/defrag/internal/cli/output"
	"github.com/marmos91/defrag/internal/logger"
	"github.com/marmos91/defrag/pkg/config"
	"github.com/marmos91/defrag/pkg/disk"
)

// StdinName is the input name reported when the disk map is read from stdin.
const StdinName = "stdin"

// Flags stores global flag values accessible by subcommands.
var Flags = &GlobalFlags{}

// GlobalFlags holds the global flag values.
type GlobalFlags struct {
	ConfigFile string
	LogLevel   string
	Output     string
	NoColor    bool
}

// LoadConfig loads the configuration and applies global flag overrides.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(Flags.ConfigFile)
	if err != nil {
		return nil, err
	}

	if Flags.LogLevel != "" {
		level, ok := logger.ParseLevel(Flags.LogLevel)
		if !ok {
			return nil, fmt.Errorf("invalid --log-level %q (valid: debug, info, warn, error)", Flags.LogLevel)
		}
		cfg.Logging.Level = level.String()
	}

	if Flags.Output != "" {
		format, err := output.ParseFormat(Flags.Output)
		if err != nil {
			return nil, err
		}
		cfg.Output.Format = format.String()
	}

	return cfg, nil
}

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// NewPrinter returns a Printer for the configured output format. Color is
// used only when w is a terminal and --no-color is not set.
func NewPrinter(w io.Writer, cfg *config.Config) (*output.Printer, error) {
	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	color := false
	if f, ok := w.(*os.File); ok && !Flags.NoColor {
		color = logger.IsTerminal(f)
	}
	return output.NewPrinter(w, format, color), nil
}

// InputName returns the name of the input selected by the positional
// arguments: a file path, or StdinName for no argument or "-".
func InputName(args []string) string {
	if len(args) == 0 || args[0] == "-" {
		return StdinName
	}
	return args[0]
}

// ReadDisk reads and decodes the disk map selected by args. stdin is used
// when no file is given.
func ReadDisk(stdin io.Reader, args []string) (*disk.Disk, error) {
	name := InputName(args)

	var (
		data []byte
		err  error
	)
	if name == StdinName {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read disk map from %s: %w", name, err)
	}

	d, err := disk.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}
