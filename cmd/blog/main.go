package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	blog "github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/cmd/internal/bootstrap"
)

var moduleBuilder = func(cfg blog.Config) (*blog.Module, error) {
	return blog.New(cfg)
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("blog: %v", err)
	}
}

func run(args []string) error {
	cfg, err := parseConfig(args)
	if err != nil {
		return err
	}

	module, server, err := newServer(cfg)
	if err != nil {
		return err
	}
	defer module.Close()

	logger := module.Logger("blog.server")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := module.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server.watch.stopped", "error", err)
		}
	}()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server.listening", "addr", cfg.HTTP.Addr, "base_path", cfg.HTTP.BasePath)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("server.shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func parseConfig(args []string) (blog.Config, error) {
	fs := flag.NewFlagSet("blog", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a YAML configuration file")
	contentDir := fs.String("content-dir", "", "Directory holding the markdown posts")
	addr := fs.String("addr", "", "HTTP listen address")
	basePath := fs.String("base-path", "", "Path prefix of the blog routes")
	logProvider := fs.String("log-provider", "", "Logging provider (console or gologger)")
	logLevel := fs.String("log-level", "", "Minimum log level")
	logFormat := fs.String("log-format", "", "go-logger output format (json, console, pretty)")
	cache := fs.Bool("cache", false, "Cache posts until their files change")
	watch := fs.Bool("watch", false, "Purge the cache as soon as the content directory changes")

	if err := fs.Parse(args); err != nil {
		return blog.Config{}, err
	}

	opts := bootstrap.Options{
		ConfigPath:  *configPath,
		ContentDir:  *contentDir,
		Addr:        *addr,
		BasePath:    *basePath,
		LogProvider: *logProvider,
		LogLevel:    *logLevel,
		LogFormat:   *logFormat,
		Logger:      bootstrap.BoolPtr(true),
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "cache":
			opts.Cache = bootstrap.BoolPtr(*cache)
		case "watch":
			opts.Watch = bootstrap.BoolPtr(*watch)
		}
	})

	return bootstrap.LoadConfig(opts)
}

func newServer(cfg blog.Config) (*blog.Module, *http.Server, error) {
	module, err := moduleBuilder(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initialise blog module: %w", err)
	}

	mux := http.NewServeMux()
	if err := module.RegisterHTTP(mux); err != nil {
		_ = module.Close()
		return nil, nil, fmt.Errorf("register routes: %w", err)
	}

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
	return module, server, nil
}
