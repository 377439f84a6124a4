package main

import (
	"fmt"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpclient"
	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/notify"
	"github.com/webdevelop-pro/invest-common-sub001/internal/platform/config"
	"github.com/webdevelop-pro/invest-common-sub001/internal/platform/logging"
	"github.com/webdevelop-pro/invest-common-sub001/internal/platform/services"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/notifier"
)

type app struct {
	stdout io.Writer
	stderr io.Writer

	envFile     string
	origin      string
	subject     string
	logLevel    string
	dumpMetrics bool

	logger   *zap.Logger
	flush    func()
	registry *prometheus.Registry
	clients  *services.Set
	notifier notifier.Notifier
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "investctl",
		Short:         "Call the investor platform APIs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			defer a.close()
			if a.dumpMetrics {
				return a.writeMetrics()
			}
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	f := root.PersistentFlags()
	f.StringVar(&a.envFile, "env-file", "", "dotenv file to load (default .env)")
	f.StringVar(&a.origin, "origin", "", "API origin, overrides API_ORIGIN")
	f.StringVar(&a.subject, "subject", "", "authenticate as this subject via X-Debug-Subject (dev backend only)")
	f.StringVar(&a.logLevel, "log-level", "", "log level, overrides LOG_LEVEL")
	f.BoolVar(&a.dumpMetrics, "dump-metrics", false, "print client metrics after the command")

	root.AddCommand(
		newGetCmd(a),
		newSchemaCmd(a),
		newNotificationsCmd(a),
		newWalletCmd(a),
		newInvestmentsCmd(a),
		newAccreditationCmd(a),
	)
	return root
}

func (a *app) setup() error {
	if err := config.LoadDotEnv(a.envFile); err != nil {
		return err
	}
	cfg, err := config.LoadClientConfig()
	if err != nil {
		return err
	}
	if a.origin != "" {
		cfg.Origin = a.origin
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.logger, a.flush, err = logging.New(logging.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Console: true,
		Stderr:  a.stderr,
	})
	if err != nil {
		return err
	}
	a.notifier = notify.NewLogNotifier(a.logger)
	a.registry = prometheus.NewRegistry()

	opts := services.Options{Logger: a.logger, Registerer: a.registry}
	if a.subject != "" {
		opts.HTTPClient = subjectDoer{subject: a.subject, next: &http.Client{Timeout: cfg.Timeout}}
	}
	a.clients, err = services.New(cfg, opts)
	return err
}

func (a *app) close() {
	if a.flush != nil {
		a.flush()
	}
}

func (a *app) writeMetrics() error {
	families, err := a.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(a.stderr, mf); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) client(service string) (*httpclient.Client, error) {
	return a.clients.Client(service)
}

type subjectDoer struct {
	subject string
	next    httpclient.Doer
}

func (d subjectDoer) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("X-Debug-Subject", d.subject)
	return d.next.Do(req)
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
