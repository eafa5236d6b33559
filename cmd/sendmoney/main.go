package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-sendmoney"
	"github.com/goliatone/go-sendmoney/pkg/auth"
	"github.com/goliatone/go-sendmoney/pkg/config"
	"github.com/goliatone/go-sendmoney/pkg/i18n"
	"github.com/goliatone/go-sendmoney/pkg/logging"
	"github.com/goliatone/go-sendmoney/pkg/metrics"
	"github.com/goliatone/go-sendmoney/pkg/renderers/tui"
	"github.com/goliatone/go-sendmoney/pkg/schema"
	"github.com/goliatone/go-sendmoney/pkg/store"
	"github.com/goliatone/go-sendmoney/pkg/transaction"
)

func main() {
	configFile := flag.String("config", "", "config file (defaults to ./sendmoney.yaml when present)")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before the environment is read")
	catalogPath := flag.String("catalog", "", "catalog file, overrides catalog.path")
	locale := flag.String("locale", "", "starting locale (en or ar), overrides locale")
	flag.Parse()

	cfg, err := config.Load(config.WithFile(*configFile), config.WithEnvFile(*envFile))
	if err != nil {
		log.Fatalf("sendmoney: %v", err)
	}
	if *catalogPath != "" {
		cfg.Catalog.Path = *catalogPath
	}
	if *locale != "" {
		cfg.Locale = *locale
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("sendmoney: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	logger, closer, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	}, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	blobs, blobCloser, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer blobCloser.Close()

	history, err := transaction.NewLog(blobs,
		transaction.WithKey(cfg.Store.Key),
		transaction.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	checker, err := newChecker(cfg.Auth, logger)
	if err != nil {
		return err
	}

	counters := metrics.New()
	defer func() {
		if err := counters.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.WithError(err).Warn("write metrics textfile")
		}
	}()

	app, err := tui.NewApp(
		tui.WithDriver(tui.NewSurveyDriver(os.Stdout)),
		tui.WithTranslator(i18n.MustBundle()),
		tui.WithLocale(schema.ParseLocale(cfg.Locale)),
		tui.WithAuthenticator(checker),
		tui.WithCatalog(catalogFunc(cfg.Catalog.Path, counters, logger)),
		tui.WithTransactionLog(history),
		tui.WithAppender(counters.Appender(history)),
		tui.WithObserver(counters),
		tui.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	err = app.Run(ctx)
	if errors.Is(err, tui.ErrAborted) || errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stdout)
		return nil
	}
	return err
}

func openStore(ctx context.Context, cfg config.StoreConfig) (store.BlobStore, io.Closer, error) {
	switch cfg.Driver {
	case config.StoreDriverRedis:
		return sendmoney.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.DB, cfg.Redis.Prefix)
	case config.StoreDriverFile:
		blobs, err := sendmoney.NewFileStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return blobs, nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newChecker(cfg config.AuthConfig, logger logrus.FieldLogger) (*auth.Checker, error) {
	options := []auth.Option{auth.WithLogger(logger)}
	switch {
	case cfg.PasswordHash != "":
		options = append(options, auth.WithPasswordHash(cfg.Username, []byte(cfg.PasswordHash)))
	case cfg.Username != "" || cfg.Password != "":
		options = append(options, auth.WithCredentials(cfg.Username, cfg.Password))
	}
	return auth.New(options...)
}

// catalogFunc reloads the catalog every time the send-money screen opens so
// edits to the file show up without a restart.
func catalogFunc(path string, counters *metrics.Metrics, logger logrus.FieldLogger) tui.CatalogFunc {
	return func(ctx context.Context) (*schema.Catalog, error) {
		cat, report, err := sendmoney.LoadCatalog(ctx, path)
		counters.ObserveCatalogLoad(err)
		if err != nil {
			return nil, err
		}
		for _, issue := range report.Issues {
			logger.WithField("path", issue.Path).Warn(issue.Message)
		}
		return &cat, nil
	}
}
