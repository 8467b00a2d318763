package main

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	contentapi "github.com/reoring/contentapi"
	"github.com/reoring/contentapi/client"
	"github.com/reoring/contentapi/config"
	"github.com/reoring/contentapi/internal/logger"
	"github.com/reoring/contentapi/transport"
	"github.com/reoring/contentapi/transport/memory"
)

type globals struct {
	configPath string
	fixtures   string
	output     string
	metrics    bool
}

// session is the state shared by the subcommands of one invocation.
type session struct {
	sdk *client.SDK
	log *zap.Logger
	reg *prometheus.Registry
}

func newRootCmd(out io.Writer) *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "contentapi",
		Short: "Browse the content API",
		Long: `contentapi lists, counts and fetches content API resources and prints
them in the API's own JSON representation, or as YAML.

Examples:
  # Newest ten events
  contentapi events list --per-page 10

  # One interview, complete
  contentapi interviews get 1a2b3c4d

  # Offline, against a fixtures file
  contentapi --fixtures fixtures.yaml blog-articles count`,
		SilenceUsage: true,
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&g.fixtures, "fixtures", "", "serve requests from a YAML fixtures file instead of the API")
	pf.StringVarP(&g.output, "output", "o", formatJSON, "output format: json|yaml")
	pf.BoolVar(&g.metrics, "metrics", false, "print transport metrics to stderr on exit")

	root.AddCommand(newConfigCmd())
	for _, kind := range contentapi.Kinds() {
		root.AddCommand(newKindCmd(kind, g))
	}
	return root
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Describe the configuration settings and their environment variables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), config.Usage())
			return err
		},
	}
}

// open builds the SDK for one invocation.
func (g *globals) open() (*session, error) {
	if _, err := newPrinter(g.output, io.Discard); err != nil {
		return nil, err
	}
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		return nil, err
	}

	s := &session{log: log, reg: prometheus.NewRegistry()}
	var tr transport.Transport
	if g.fixtures != "" {
		tr, err = memory.LoadFile(g.fixtures, memory.WithLogger(log))
	} else {
		opts := []transport.Option{
			transport.WithVendor(cfg.API.Vendor),
			transport.WithTimeout(cfg.API.Timeout),
			transport.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
			transport.WithRetry(cfg.Retry.InitialInterval, cfg.Retry.MaxElapsed),
			transport.WithCacheSize(cfg.Cache.Size),
			transport.WithLogger(log),
			transport.WithRegisterer(s.reg),
		}
		if cfg.API.StrictKeys {
			opts = append(opts, transport.WithStrictKeys())
		}
		tr, err = transport.NewHTTP(cfg.API.BaseURL, opts...)
	}
	if err != nil {
		return nil, err
	}
	s.sdk = client.New(tr, client.WithLogger(log), client.WithPageSize(cfg.API.PageSize))
	return s, nil
}

func (g *globals) run(cmd *cobra.Command, fn func(ctx context.Context, s *session, p printer) error) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer func() { _ = s.log.Sync() }()
	p, err := newPrinter(g.output, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	err = fn(cmd.Context(), s, p)
	if g.metrics {
		if merr := dumpMetrics(s.reg, os.Stderr); merr != nil && err == nil {
			err = merr
		}
	}
	return err
}

func dumpMetrics(g prometheus.Gatherer, w io.Writer) error {
	families, err := g.Gather()
	if err != nil {
		return errors.Wrap(err, "gather metrics")
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return errors.Wrap(err, "encode metrics")
		}
	}
	return nil
}
