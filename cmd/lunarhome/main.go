package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/jask/lunarhome/internal/battery"
	"github.com/jask/lunarhome/internal/config"
	"github.com/jask/lunarhome/internal/database"
	"github.com/jask/lunarhome/internal/database/repository"
	"github.com/jask/lunarhome/internal/prefs"
	"github.com/jask/lunarhome/internal/service"
	"github.com/jask/lunarhome/internal/testdata"
	"github.com/jask/lunarhome/internal/tui"
)

const usage = `usage: lunarhome [--config path] [command]

commands:
  (none)            run the home screen
  add <text>        add a todo
  done <id>         mark a todo done (id prefix)
  rm <id>           remove a todo (id prefix)
  clear-done        remove finished todos
  list              print todos
  import <file|->   add one todo per line
  reset             remove every todo
  demo [n]          add n sample todos (default 8)
  init              write a default config file
`

func main() {
	flags := pflag.NewFlagSet("lunarhome", pflag.ContinueOnError)
	flags.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	configPath := flags.StringP("config", "c", "", "config file (default ~/.config/lunarhome/config.toml)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}
	if *configPath != "" {
		_ = os.Setenv("LUNARHOME_CONFIG", *configPath)
	}

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	args := flags.Args()
	if len(args) > 0 && args[0] == "init" {
		if err := writeDefaultConfig(cfg); err != nil {
			log.Fatalf("init: %v", err)
		}
		return
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.SeedDefaults(ctx, db); err != nil {
		log.Fatalf("seed defaults: %v", err)
	}

	todoRepo := repository.NewTodoRepo(db)

	if len(args) > 0 {
		todos := &service.TodoService{Todos: todoRepo}
		maintenance := &service.MaintenanceService{DB: db}
		if err := runCommand(ctx, os.Stdout, todos, maintenance, args); err != nil {
			fmt.Fprintf(os.Stderr, "lunarhome: %v\n", err)
			os.Exit(1)
		}
		return
	}

	logger, closeLog, err := openLogger(cfg.Log)
	if err != nil {
		log.Fatalf("log: %v", err)
	}
	defer closeLog()

	app := tui.New(ctx, cfg, tui.Deps{
		Prefs:   prefs.NewViperStore(config.NewViper()),
		Todos:   todoRepo,
		Battery: battery.NewSysfs(cfg.Battery.Root, logger),
		Logger:  logger,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())
	_, runErr := p.Run()
	app.Close()
	if runErr != nil {
		fmt.Printf("error: %v\n", runErr)
	}
}

func runCommand(ctx context.Context, w io.Writer, todos *service.TodoService, maint *service.MaintenanceService, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "add":
		if len(rest) == 0 {
			return errors.New("add: missing text")
		}
		t, err := todos.Add(ctx, strings.Join(rest, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "added %s\n", t.ID[:8])
	case "done", "rm":
		if len(rest) != 1 {
			return fmt.Errorf("%s: expected one id", cmd)
		}
		var id string
		var err error
		if cmd == "done" {
			id, err = todos.Complete(ctx, rest[0])
		} else {
			id, err = todos.Remove(ctx, rest[0])
		}
		if err != nil {
			return fmt.Errorf("%s %s: %w", cmd, rest[0], err)
		}
		fmt.Fprintf(w, "%s %s\n", cmd, id[:8])
	case "clear-done":
		n, err := todos.Todos.ClearDone(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "cleared %d\n", n)
	case "list":
		all, err := todos.Todos.List(ctx)
		if err != nil {
			return err
		}
		for _, t := range all {
			mark := " "
			if t.Done {
				mark = "x"
			}
			fmt.Fprintf(w, "[%s] %s  %s\n", mark, t.ID[:8], t.Text)
		}
	case "import":
		if len(rest) != 1 {
			return errors.New("import: expected a file or -")
		}
		r := io.Reader(os.Stdin)
		if rest[0] != "-" {
			f, err := os.Open(rest[0])
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			defer f.Close()
			r = f
		}
		res, err := todos.ImportLines(ctx, r)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "imported %d, skipped %d\n", res.Imported, res.Skipped)
	case "reset":
		if err := maint.Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintln(w, "all todos removed")
	case "demo":
		n := 8
		if len(rest) > 0 {
			v, err := strconv.Atoi(rest[0])
			if err != nil || v < 1 {
				return fmt.Errorf("demo: bad count %q", rest[0])
			}
			n = v
		}
		if err := testdata.Seed(ctx, todos.Todos, n, uint64(time.Now().UnixNano())); err != nil {
			return fmt.Errorf("demo: %w", err)
		}
		fmt.Fprintf(w, "added %d sample todos\n", n)
	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
	}
	return nil
}

func writeDefaultConfig(cfg config.Config) error {
	path := config.Path()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if len(cfg.Apps) == 0 {
		cfg.Apps = []config.AppEntry{{Name: "shell", Command: "${SHELL:-sh}"}, {Name: "top", Command: "top"}}
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func openLogger(lc config.LogConfig) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
		level = slog.LevelInfo
	}
	if err := os.MkdirAll(filepath.Dir(lc.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	f, err := tea.LogToFile(lc.Path, "lunarhome")
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }, nil
}
