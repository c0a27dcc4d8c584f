package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/preview/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/preview/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/preview/internal/infrastructure/server"
)

const version = "0.1.0"

// CLI defines the command-line interface
var CLI struct {
	Globals

	Serve   ServeCmd   `cmd:"" help:"Serve a live preview of a document"`
	Render  RenderCmd  `cmd:"" help:"Render a document to mediated HTML"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// Globals are flags shared by every command. Set flags override the environment.
type Globals struct {
	Dev         bool   `help:"Development logging (console encoding, debug level)"`
	LogLevel    string `name:"log-level" help:"Log level (debug, info, warn, error)"`
	ProjectRoot string `name:"project-root" help:"Project root directory" type:"existingdir"`
	ProjectName string `name:"project-name" help:"Project name carried by source links"`
	SourceExt   string `name:"source-ext" help:"Convertible document extension"`
	Hash        string `help:"Fingerprint algorithm (md5, sha256, blake3)"`
	Theme       string `help:"Theme id, or auto to follow --dark"`
	Dark        bool   `help:"Prefer the dark palette"`
	Sanitize    bool   `help:"Sanitize rendered HTML"`
}

// ServeCmd starts the preview server
type ServeCmd struct {
	Document string `arg:"" optional:"" help:"Document served at /preview" type:"existingfile"`
	Host     string `help:"Listen host"`
	Port     string `short:"p" help:"Listen port"`
}

// RenderCmd renders one document and exits
type RenderCmd struct {
	Document string `arg:"" help:"Document to render" type:"existingfile"`
	Output   string `short:"o" help:"Write HTML to this file instead of stdout" type:"path"`
}

// VersionCmd prints the version
type VersionCmd struct{}

func (g *Globals) load() (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	if g.Dev {
		cfg.Logging.Development = true
	}
	if g.LogLevel != "" {
		cfg.Logging.Level = g.LogLevel
	}
	if g.ProjectRoot != "" {
		cfg.Preview.ProjectRoot = g.ProjectRoot
	}
	if g.ProjectName != "" {
		cfg.Preview.ProjectName = g.ProjectName
	}
	if g.SourceExt != "" {
		cfg.Preview.SourceExt = g.SourceExt
	}
	if g.Hash != "" {
		cfg.Preview.Hash = g.Hash
	}
	if g.Theme != "" {
		cfg.Preview.Theme = g.Theme
	}
	if g.Dark {
		cfg.Preview.Dark = true
	}
	if g.Sanitize {
		cfg.Preview.Sanitize = true
	}

	logger := logging.FromLevel(cfg.Logging.Level, cfg.Logging.Development)
	return cfg, logger, nil
}

// Run serves until SIGINT or SIGTERM
func (c *ServeCmd) Run(g *Globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	if c.Document != "" {
		cfg.Preview.Document = c.Document
	}
	if c.Host != "" {
		cfg.Server.Host = c.Host
	}
	if c.Port != "" {
		cfg.Server.Port = c.Port
	}

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	select {
	case <-sigChan:
		logger.Info("Shutting down gracefully")
		return srv.Close()
	case err := <-errChan:
		if cerr := srv.Close(); cerr != nil {
			logger.Warn("Error during shutdown", zap.Error(cerr))
		}
		return err
	}
}

// Run renders the document with a throwaway session. Capability URLs in the
// output stop resolving once the command exits.
func (c *RenderCmd) Run(g *Globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	defer logger.Sync()

	path, err := filepath.Abs(c.Document)
	if err != nil {
		return err
	}

	sess, err := server.NewSession(cfg.Preview, nil, logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	html, err := sess.GetHTML(context.Background(), path, sess.Project())
	if err != nil {
		return err
	}

	if c.Output == "" {
		_, err = fmt.Fprint(os.Stdout, html)
		return err
	}
	return os.WriteFile(c.Output, []byte(html), 0o644)
}

// Run prints the version
func (c *VersionCmd) Run() error {
	fmt.Printf("preview version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("preview"),
		kong.Description("Sandboxed document preview with signed resource URLs"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Bind(&CLI.Globals),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
