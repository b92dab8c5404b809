package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"github.com/vaultx/vaultx/internal/shared"
	"github.com/vaultx/vaultx/internal/storage"
)

// ConfirmFunc asks the user a yes/no question before a destructive write.
// Injected so the pipeline stays testable without a terminal.
type ConfirmFunc func(prompt string) (bool, error)

// BackendFactory constructs a storage backend. Injected so command tests
// can swap in in-memory doubles.
type BackendFactory func(opts storage.Options) (storage.Backend, error)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	logger     *log.Logger
	output     io.Writer
	confirm    ConfirmFunc
	newBackend BackendFactory
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Logger     *log.Logger
	Output     io.Writer
	Confirm    ConfirmFunc
	NewBackend BackendFactory
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.NewBackend == nil {
		opts.NewBackend = storage.New
	}

	r := &Runner{
		config:     opts.Config,
		logger:     opts.Logger,
		output:     opts.Output,
		confirm:    opts.Confirm,
		newBackend: opts.NewBackend,
	}
	if r.confirm == nil {
		r.confirm = r.terminalConfirm
	}

	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, migrateCommand, verifyCommand, inspectCommand, seedCommand, browseCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// terminalConfirm is the default confirmation callback: prompt on the
// output writer, read the answer from stdin.
func (r *Runner) terminalConfirm(prompt string) (bool, error) {
	r.writePlain("%s [y/N] ", prompt)

	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y"), nil
}

// endpointOptions resolves one endpoint's storage options from CLI flags,
// falling back to the named config table for anything unset.
func (r *Runner) endpointOptions(cmd *cli.Command, prefix string, fallback shared.EndpointConfig, decode storage.DecodePolicy) (storage.Options, error) {
	flag := func(name string) string {
		if prefix == "" {
			return cmd.String(name)
		}
		return cmd.String(prefix + "-" + name)
	}

	kindTag := flag("type")
	if kindTag == "" {
		kindTag = fallback.Type
	}
	kind, err := storage.ParseKind(kindTag)
	if err != nil {
		return storage.Options{}, err
	}

	opts := storage.Options{
		Kind:     kind,
		Path:     flag("path"),
		URI:      flag("uri"),
		Database: flag("db"),
		Decode:   decode,
		Logger:   r.logger,
	}
	if opts.Path == "" {
		opts.Path = fallback.Path
	}
	if opts.URI == "" {
		opts.URI = fallback.URI
	}
	if opts.Database == "" {
		opts.Database = fallback.Database
	}

	return opts, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
