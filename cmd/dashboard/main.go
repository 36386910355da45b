package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ougirez/keuda/internal/api"
	"github.com/ougirez/keuda/internal/api/controller"
	"github.com/ougirez/keuda/internal/pkg/config"
	"github.com/ougirez/keuda/internal/pkg/constants"
	"github.com/ougirez/keuda/internal/pkg/dataset"
	"github.com/ougirez/keuda/internal/pkg/github"
	"github.com/ougirez/keuda/internal/pkg/logger"
	"github.com/ougirez/keuda/internal/pkg/store"
	"github.com/ougirez/keuda/internal/pkg/store/xpgx"
	"github.com/ougirez/keuda/internal/pkg/utils"
	"github.com/ougirez/keuda/internal/service/editor"
	"github.com/ougirez/keuda/internal/service/indicator"
)

const shutdownTimeout = 10 * time.Second

func main() {
	args := os.Args[1:]
	if len(args) > 0 && args[0] == "issue-token" {
		if err := issueToken(args[1:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := run(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// issueToken prints an admin token signed with the configured secret.
func issueToken(args []string) error {
	if _, err := config.Load(args); err != nil {
		return err
	}

	token, err := utils.GenerateAuthToken(&utils.AuthTokenWrapper{Subject: utils.AdminSubject})
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		return fmt.Errorf("logger.Init: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repo *github.Client
	if cfg.Github.Enabled() {
		repo = github.NewClient(github.Config{
			BaseURL: cfg.Github.BaseURL,
			Token:   cfg.Github.Token,
			Repo:    cfg.Github.Repo,
			Path:    cfg.Github.Path,
			Branch:  cfg.Github.Branch,
		}, nil)
	}

	src, closeSource, err := newSource(ctx, cfg, repo)
	if err != nil {
		return err
	}
	defer closeSource()

	cache := dataset.NewCache(src, cfg.Dataset.Schema)
	if ds, err := cache.Get(ctx); err != nil {
		// the dashboard answers with the load error until the source is fixed and reloaded
		if constants.IsFatalLoad(err) {
			logger.Errorf(ctx, "initial dataset load from %s failed, fix the source and reload: %v", src.Name(), err)
		} else {
			logger.Warnf(ctx, "initial dataset load from %s failed: %v", src.Name(), err)
		}
	} else {
		logger.Infof(ctx, "dataset loaded from %s: %d entities, %d indicators, version %s",
			ds.Source, len(ds.Entities), len(ds.Definitions), ds.Version)
	}

	var edit controller.EditorService
	if repo != nil {
		edit = editor.NewService(repo, cfg.Github.CommitMessage)
	}

	svc, err := api.NewAPIService(cfg.Server, indicator.NewService(cache), edit)
	if err != nil {
		return err
	}

	go svc.Serve(cfg.Server.Addr)
	logger.Infof(ctx, "listening on %s", cfg.Server.Addr)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := svc.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newSource(ctx context.Context, cfg *config.Config, repo *github.Client) (dataset.Source, func(), error) {
	noop := func() {}

	switch cfg.Dataset.Source {
	case config.SourceFile:
		return dataset.NewFileSource(cfg.Dataset.Path), noop, nil
	case config.SourceGithub:
		return dataset.NewRemoteSource(repo), noop, nil
	case config.SourceHTML:
		return dataset.NewHTMLSource(cfg.Dataset.URL, nil), noop, nil
	case config.SourcePostgres:
		pool, err := xpgx.NewPool(ctx, cfg.Dataset.DSN)
		if err != nil {
			return nil, noop, err
		}
		return store.NewTableSource(pool, cfg.Dataset.Schema), pool.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown dataset source %q", cfg.Dataset.Source)
}
