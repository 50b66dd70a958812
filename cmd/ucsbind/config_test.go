//go:build unit

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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandremahdhaoui/ucsbind/internal/adapter"
	"github.com/alexandremahdhaoui/ucsbind/internal/types"
)

func writeConfig(t *testing.T, configYAML string) {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(configYAML), 0o644))

	t.Setenv(ConfigPathEnvKey, configPath)
}

func TestLoadConfig(t *testing.T) {
	t.Run("valid config with all fields", func(t *testing.T) {
		writeConfig(t, `
serviceProfileDN: org-root/ls-cloud
serverDN: sys/chassis-2/blade-1
waitForCompletion: false
completionTimeout: 10m
timeout: 1m
ucs:
  insecureSkipVerify: true
  caPath: /etc/ucsbind/ca.pem
sessionProvider:
  kind: cloudshell
  cloudshell:
    serverAddress: cloudshell.lab
    port: 8029
    username: owner
    password: secret
    domain: Global
    reservationID: 5c6e1b2a-0000-4000-8000-000000000000
    resourceName: ucsm
logging:
  development: true
  level: debug
metrics:
  textfilePath: /var/lib/node_exporter/ucsbind.prom
`)

		config, err := loadConfig()
		require.NoError(t, err)

		assert.Equal(t, "org-root/ls-cloud", config.ServiceProfileDN)
		assert.Equal(t, "sys/chassis-2/blade-1", config.ServerDN)
		assert.Equal(t, types.AssociateOptions{WaitForCompletion: false, Timeout: 10 * time.Minute},
			config.AssociateOptions())
		assert.Equal(t, time.Minute, config.Timeout.Duration)
		assert.True(t, config.UCS.InsecureSkipVerify)
		assert.Equal(t, "/etc/ucsbind/ca.pem", config.UCS.CAPath)
		assert.Equal(t, adapter.CloudShellConfig{
			ServerAddress: "cloudshell.lab",
			Port:          8029,
			Username:      "owner",
			Password:      "secret",
			Domain:        "Global",
			ReservationID: "5c6e1b2a-0000-4000-8000-000000000000",
			ResourceName:  "ucsm",
		}, config.SessionProvider.CloudShell)
		assert.True(t, config.Logging.Development)
		assert.Equal(t, "debug", config.Logging.Level)
		assert.Equal(t, "/var/lib/node_exporter/ucsbind.prom", config.Metrics.TextfilePath)
	})

	t.Run("minimal config", func(t *testing.T) {
		writeConfig(t, `
serviceProfileDN: org-root/ls-cloud
serverDN: sys/chassis-2/blade-1
sessionProvider:
  kind: cloudshell
  cloudshell:
    serverAddress: cloudshell.lab
`)

		config, err := loadConfig()
		require.NoError(t, err)

		assert.Equal(t, types.DefaultAssociateOptions(), config.AssociateOptions())
		assert.Equal(t, DefaultTimeout, config.Timeout.Duration)
		assert.Equal(t, adapter.DefaultCloudShellPort, config.SessionProvider.CloudShell.Port)
	})

	t.Run("kubernetes secret", func(t *testing.T) {
		writeConfig(t, `
serviceProfileDN: org-root/ls-cloud
serverDN: sys/rack-unit-1
sessionProvider:
  kind: kubernetesSecret
  kubernetesSecret:
    kubeconfigPath: in-cluster
    namespace: lab
    name: ucsm
`)

		config, err := loadConfig()
		require.NoError(t, err)
		assert.Equal(t, "in-cluster", config.SessionProvider.KubernetesSecret.KubeconfigPath)
		assert.Equal(t, "lab", config.SessionProvider.KubernetesSecret.Namespace)
		assert.Equal(t, "ucsm", config.SessionProvider.KubernetesSecret.Name)
	})

	t.Run("invalid configs", func(t *testing.T) {
		for _, tt := range []struct {
			name       string
			configYAML string
			expected   error
		}{
			{
				name:       "missing service profile",
				configYAML: "serverDN: sys/chassis-2/blade-1\nsessionProvider: {kind: static}\n",
				expected:   errServiceProfileDNMustBeSpecified,
			},
			{
				name:       "missing server",
				configYAML: "serviceProfileDN: org-root/ls-cloud\nsessionProvider: {kind: static}\n",
				expected:   errServerDNMustBeSpecified,
			},
			{
				name: "unknown session provider",
				configYAML: "serviceProfileDN: org-root/ls-cloud\nserverDN: sys/chassis-2/blade-1\n" +
					"sessionProvider: {kind: vault}\n",
				expected: errUnknownSessionProvider,
			},
			{
				name: "secret without name",
				configYAML: "serviceProfileDN: org-root/ls-cloud\nserverDN: sys/chassis-2/blade-1\n" +
					"sessionProvider: {kind: kubernetesSecret}\n",
				expected: errSecretNameMustBeSpecified,
			},
		} {
			t.Run(tt.name, func(t *testing.T) {
				writeConfig(t, tt.configYAML)

				_, err := loadConfig()
				assert.ErrorIs(t, err, tt.expected)
			})
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		writeConfig(t, "serviceProfileDN: [")

		_, err := loadConfig()
		assert.Error(t, err)
	})

	t.Run("missing env var", func(t *testing.T) {
		t.Setenv(ConfigPathEnvKey, "")

		_, err := loadConfig()
		assert.ErrorContains(t, err, ConfigPathEnvKey)
	})
}
