package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-client/internal/app"
	"github.com/noah-isme/classroom-client/pkg/config"
	"github.com/noah-isme/classroom-client/pkg/logger"
)

// @title Classroom Client Bridge
// @version 0.1.0
// @description Local presentation bridge over the classroom client workflows
// @BasePath /api/v1
// @schemes http

var (
	Version   = "0.1.0"
	BuildTime = "dev"
)

const appName = "classroom"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCLI().execute(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cli carries the state shared by every subcommand.
type cli struct {
	backend  string
	storeDir string
	baseURL  string
	logLevel string
	asJSON   bool

	loadConfig func() (*config.Config, error)

	cfg    *config.Config
	logger *zap.Logger
	app    *app.App
}

func newCLI() *cli {
	return &cli{loadConfig: config.Load}
}

// execute runs one command line and always releases the app afterwards,
// including when the command itself failed.
func (c *cli) execute(ctx context.Context, args []string, out io.Writer) error {
	cmd := c.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	err := cmd.ExecuteContext(ctx)
	if closeErr := c.teardown(); err == nil {
		err = closeErr
	}
	return err
}

func (c *cli) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Student classroom client",
		Long: `Classroom is a student-side client for the classroom service.

Log in, join classrooms by code, browse detail, assignments and materials,
and export rosters. "classroom serve" exposes the same workflows as a local
JSON bridge for a UI shell.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&c.backend, "store", "", "Store backend (file, memory, redis, postgres)")
	flags.StringVar(&c.storeDir, "store-dir", "", "Directory for the file store")
	flags.StringVar(&c.baseURL, "api", "", "Classroom API base URL")
	flags.StringVar(&c.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.BoolVar(&c.asJSON, "json", false, "Print results as JSON")

	cmd.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.statusCmd(),
		c.joinCmd(),
		c.leaveCmd(),
		c.listCmd(),
		c.showCmd(),
		c.assignmentsCmd(),
		c.materialsCmd(),
		c.exportCmd(),
		c.profileCmd(),
		c.themeCmd(),
		c.serveCmd(),
		c.watchCmd(),
		versionCmd(),
	)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// version needs neither config nor a store
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if c.backend != "" {
		cfg.Store.Backend = c.backend
	}
	if c.storeDir != "" {
		cfg.Store.Dir = c.storeDir
	}
	if c.baseURL != "" {
		cfg.Remote.BaseURL = c.baseURL
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}

	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	a, err := app.New(cmd.Context(), cfg, logr)
	if err != nil {
		_ = logr.Sync()
		return err
	}

	c.cfg = cfg
	c.logger = logr
	c.app = a
	return nil
}

func (c *cli) teardown() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	_ = c.logger.Sync()
	c.app = nil
	return err
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
