// Package cmd implements the CLI command structure for ticklist.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/ticklist/internal/config"
	"github.com/nibzard/ticklist/internal/logging"
	"github.com/nibzard/ticklist/internal/storage"
	"github.com/nibzard/ticklist/internal/todo"
	"github.com/nibzard/ticklist/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// env carries the resolved configuration and output streams to a command.
type env struct {
	cws    *config.ConfigWithSources
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
	isTTY  func() bool
}

// Run executes the ticklist CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("ticklist", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	e := &env{
		cws:    cws,
		cfg:    cws.Config,
		stdout: stdout,
		stderr: stderr,
		now:    time.Now,
		isTTY:  func() bool { return ui.IsTTY(os.Stdout) },
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(e)
	}

	// Determine the subcommand; with none, open the TUI
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, e, remainingArgs)
	case "add":
		return addCommand(e, remainingArgs)
	case "done":
		return moveCommand(e, "done", todo.SectionCompleted, remainingArgs)
	case "undo":
		return moveCommand(e, "undo", todo.SectionPending, remainingArgs)
	case "ls":
		return lsCommand(e, remainingArgs)
	case "config":
		return configCommand(e, remainingArgs)
	case "version":
		return versionCommand(e)
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// cliLogger logs to stderr for one-shot commands.
func (e *env) cliLogger() *log.Logger {
	return logging.NewFromConfig(e.stderr, e.cfg.LogLevel, e.cfg.LogFormat, e.cfg.LogTimestamps)
}

// openList opens the configured store and loads the task lists from it.
// The caller closes the returned store.
func (e *env) openList(logger *log.Logger) (*todo.List, storage.Store, error) {
	for _, w := range e.cws.Warnings {
		logger.Warn("config", "warning", w)
	}
	store, err := storage.Open(e.cfg.StorageBackend, e.cfg.StoragePath, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("opening storage: %w", err)
	}
	list := todo.NewList(store, todo.WithLogger(logger))
	if err := list.Load(); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("loading tasks: %w", err)
	}
	return list, store, nil
}

// tuiCommand launches the TUI. Logs go to the log file so they do not
// draw over the screen.
func tuiCommand(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("ticklist tui", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if !e.isTTY() {
		return fmt.Errorf("tui requires a TTY (try 'ticklist ls' or 'ticklist add')")
	}

	logFile, err := logging.OpenFile(e.cfg.LogFile)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	logger := logging.NewFromConfig(logFile, e.cfg.LogLevel, e.cfg.LogFormat, true)

	list, store, err := e.openList(logger)
	if err != nil {
		return err
	}
	defer store.Close()

	logger.Info("starting tui", "backend", e.cfg.StorageBackend, "path", e.cfg.StoragePath)
	return ui.RunTUI(ctx, list,
		ui.WithLogger(logger),
		ui.WithTimeFormat(e.cfg.TimeFormat),
	)
}

// addCommand adds one pending task and prints its id.
func addCommand(e *env, args []string) error {
	fs := flag.NewFlagSet("ticklist add", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	dueDate := fs.String("due", "", "Due date (YYYY-MM-DD)")
	dueTime := fs.String("at", "", "Due time (HH:MM, requires -due)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	text := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if text == "" {
		return fmt.Errorf("task text is required")
	}
	if *dueTime != "" && *dueDate == "" {
		return fmt.Errorf("-at requires -due")
	}

	var due *time.Time
	if *dueDate != "" {
		date, err := todo.ParseDate(*dueDate, time.Local)
		if err != nil {
			return err
		}
		composed, err := todo.ComposeDue(date, *dueTime, time.Local)
		if err != nil {
			return err
		}
		due = &composed
	}

	logger := e.cliLogger()
	list, store, err := e.openList(logger)
	if err != nil {
		return err
	}
	defer store.Close()

	task, err := list.Add(text, due)
	if err != nil {
		return fmt.Errorf("saving task: %w", err)
	}
	fmt.Fprintln(e.stdout, task.ID)
	return nil
}

// moveCommand completes (done) or reopens (undo) the referenced task.
func moveCommand(e *env, name string, target todo.Section, args []string) error {
	fs := flag.NewFlagSet("ticklist "+name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: ticklist %s <id>", name)
	}

	logger := e.cliLogger()
	list, store, err := e.openList(logger)
	if err != nil {
		return err
	}
	defer store.Close()

	task, section, err := list.Find(fs.Arg(0))
	if err != nil {
		return err
	}
	if section == target {
		fmt.Fprintf(e.stdout, "%s is already %s: %s\n", task.ShortID(), target, task.Text)
		return nil
	}

	if target == todo.SectionCompleted {
		_, err = list.Complete(task.ID)
	} else {
		_, err = list.Reopen(task.ID)
	}
	if err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}

	verb := "Completed"
	if target == todo.SectionPending {
		verb = "Reopened"
	}
	fmt.Fprintf(e.stdout, "%s %s: %s\n", verb, task.ShortID(), task.Text)
	return nil
}

// lsCommand prints pending tasks, and completed ones with -all.
func lsCommand(e *env, args []string) error {
	fs := flag.NewFlagSet("ticklist ls", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	asJSON := fs.Bool("json", false, "Print tasks as JSON")
	all := fs.Bool("all", false, "Include completed tasks")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	logger := e.cliLogger()
	list, store, err := e.openList(logger)
	if err != nil {
		return err
	}
	defer store.Close()

	pending := list.Pending()
	completed := list.Completed()

	if *asJSON {
		out := map[string][]todo.Task{"pending": pending}
		if *all {
			out["completed"] = completed
		}
		enc := json.NewEncoder(e.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	now := e.now()
	printSection(e.stdout, "Pending", pending, now, e.cfg.TimeFormat)
	if *all {
		fmt.Fprintln(e.stdout)
		printSection(e.stdout, "Completed", completed, time.Time{}, e.cfg.TimeFormat)
	}
	return nil
}

// printSection prints a heading and one line per task. A zero now
// disables the overdue marker.
func printSection(w io.Writer, label string, tasks []todo.Task, now time.Time, layout string) {
	fmt.Fprintf(w, "%s (%d):\n", label, len(tasks))
	if len(tasks) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, t := range tasks {
		fmt.Fprintf(w, "  %s  %s", t.ShortID(), t.Text)
		if t.HasDue() {
			fmt.Fprintf(w, "  due %s", t.DueDate.Local().Format(layout))
			if !now.IsZero() && t.IsOverdue(now) {
				fmt.Fprint(w, "  OVERDUE")
			}
		}
		fmt.Fprintln(w)
	}
}

// configCommand prints the effective configuration and the source of each value.
func configCommand(e *env, args []string) error {
	fs := flag.NewFlagSet("ticklist config", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(e.stdout, config.ExampleConfig())
		return nil
	}

	w := e.stdout
	fmt.Fprintln(w, "Config files:")
	if len(e.cws.Files) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, f := range e.cws.Files {
		fmt.Fprintf(w, "  %s\n", f)
	}
	fmt.Fprintln(w)
	for _, field := range config.Fields() {
		fmt.Fprintf(w, "%-16s = %-40q (%s)\n", field, e.cfg.Value(field), e.cws.Sources[field])
	}
	if len(e.cws.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Warnings:")
		for _, warning := range e.cws.Warnings {
			fmt.Fprintf(w, "  %s\n", warning)
		}
	}
	return nil
}

func versionCommand(e *env) error {
	fmt.Fprintf(e.stdout, "ticklist version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "ticklist - a small to-do list for the terminal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  ticklist [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui               Open the interactive list (default command)")
	fmt.Fprintln(w, "  add <text...>     Add a task and print its id")
	fmt.Fprintln(w, "  done <id>         Mark a task as completed")
	fmt.Fprintln(w, "  undo <id>         Move a completed task back to pending")
	fmt.Fprintln(w, "  ls                List pending tasks")
	fmt.Fprintln(w, "  config            Show the effective configuration")
	fmt.Fprintln(w, "  version           Show version information")
	fmt.Fprintln(w, "  help              Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add Options:")
	fmt.Fprintln(w, "  -due string")
	fmt.Fprintln(w, "        Due date (YYYY-MM-DD)")
	fmt.Fprintln(w, "  -at string")
	fmt.Fprintln(w, "        Due time (HH:MM, requires -due; default midnight)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options:")
	fmt.Fprintln(w, "  -all  Include completed tasks")
	fmt.Fprintln(w, "  -json Print tasks as JSON")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Ids may be shortened to a unique prefix of at least %d characters.\n", todo.MinRefLen)
}
