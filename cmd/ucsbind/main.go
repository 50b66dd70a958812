/*
Copyright 2024 Alexandre Mahdhaoui

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	k8stypes "k8s.io/apimachinery/pkg/types"

	"github.com/alexandremahdhaoui/ucsbind/internal/adapter"
	"github.com/alexandremahdhaoui/ucsbind/internal/controller"
	"github.com/alexandremahdhaoui/ucsbind/internal/k8s"
	"github.com/alexandremahdhaoui/ucsbind/internal/metrics"
	"github.com/alexandremahdhaoui/ucsbind/internal/types"
	"github.com/alexandremahdhaoui/ucsbind/internal/util/logging"
	"github.com/alexandremahdhaoui/ucsbind/internal/util/tlsutil"
)

const (
	Name = "ucsbind"

	logoutTimeout = 30 * time.Second
)

var (
	Version        = "dev" //nolint:gochecknoglobals // set by ldflags
	CommitSHA      = "n/a" //nolint:gochecknoglobals // set by ldflags
	BuildTimestamp = "n/a" //nolint:gochecknoglobals // set by ldflags
)

var errCreatingSessionProvider = errors.New("creating session provider")

// ------------------------------------------------- Main ----------------------------------------------------------- //

func main() {
	os.Exit(runMain())
}

// runMain runs ucsbind and returns its exit code.
func runMain() int {
	_, _ = fmt.Fprintf(
		os.Stderr,
		"Starting %s version %s (%s) %s\n",
		Name,
		Version,
		CommitSHA,
		BuildTimestamp,
	)

	// --------------------------------------------- Config --------------------------------------------------------- //

	config, err := loadConfig()
	if err != nil {
		slog.Error("loading ucsbind configuration", "error", err.Error())
		return 1
	}

	level, err := logging.ParseLevel(config.Logging.Level)
	if err != nil {
		slog.Error("parsing ucsbind configuration", "error", err.Error())
		return 1
	}

	logging.Setup(logging.Options{
		Development: config.Logging.Development,
		Level:       level,
		Output:      os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------------------------------- Run ------------------------------------------------------------ //

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	err = run(ctx, config, m)

	if werr := metrics.WriteToTextfile(config.Metrics.TextfilePath, reg); werr != nil {
		slog.ErrorContext(ctx, "writing metrics", "path", config.Metrics.TextfilePath, "error", werr.Error())
	}

	if err != nil {
		slog.ErrorContext(ctx, "❌ associating service profile", "error", err.Error())
		return 1
	}

	slog.InfoContext(ctx, "✅ command completed", "binary", Name)

	return 0
}

// run associates the configured service profile and server, then reports the resulting binding.
// The UCS manager session is always closed before returning.
func run(ctx context.Context, config *Config, m *metrics.Metrics) error {
	ctx, cancel := context.WithTimeout(ctx, config.Timeout.Duration)
	defer cancel()

	m.LastRunTimestamp.SetToCurrentTime()

	// --------------------------------------------- Session -------------------------------------------------------- //

	provider, err := newSessionProvider(config)
	if err != nil {
		return err
	}

	conn, err := provider.Connection(ctx)
	if err != nil {
		return err
	}

	httpClient, err := tlsutil.NewHTTPClient(config.UCS, 0)
	if err != nil {
		return err
	}

	ucs := adapter.NewUCS(conn, httpClient, m)
	if err := ucs.Login(ctx); err != nil {
		return err
	}

	slog.InfoContext(ctx, "connected to UCS manager", "address", conn.Address, "username", conn.Username)

	defer func() {
		// logging out must survive a canceled run.
		logoutCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), logoutTimeout)
		defer cancel()

		if err := ucs.Logout(logoutCtx); err != nil {
			slog.WarnContext(ctx, "disconnecting from UCS manager", "error", err.Error())
			return
		}

		slog.InfoContext(ctx, "disconnected from UCS manager")
	}()

	// --------------------------------------------- Associate ------------------------------------------------------ //

	associator := controller.NewAssociator(ucs, m)

	if err := associator.Associate(
		ctx,
		config.ServiceProfileDN,
		config.ServerDN,
		config.AssociateOptions(),
	); err != nil {
		return err
	}

	binding, err := associator.Binding(ctx, config.ServiceProfileDN)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "service profile binding",
		"dn", binding.DN(),
		"server", binding.ServerDN,
		"restrictMigration", binding.RestrictMigration)

	return nil
}

func newSessionProvider(config *Config) (adapter.SessionProvider, error) { //nolint:ireturn
	sp := config.SessionProvider

	switch sp.Kind {
	case CloudShellSessionProvider:
		return adapter.NewCloudShellSessionProvider(sp.CloudShell, nil), nil
	case KubernetesSecretSessionProvider:
		cl, err := k8s.NewClient(sp.KubernetesSecret.KubeconfigPath)
		if err != nil {
			return nil, errors.Join(err, errCreatingSessionProvider)
		}

		return adapter.NewSecretSessionProvider(cl, k8stypes.NamespacedName{
			Namespace: sp.KubernetesSecret.Namespace,
			Name:      sp.KubernetesSecret.Name,
		}), nil
	case StaticSessionProvider:
		return adapter.NewStaticSessionProvider(types.Connection{
			Address:  sp.Static.Address,
			Username: sp.Static.Username,
			Password: sp.Static.Password,
		}), nil
	default:
		return nil, errors.Join(fmt.Errorf("%w: %q", errUnknownSessionProvider, sp.Kind), errCreatingSessionProvider)
	}
}
