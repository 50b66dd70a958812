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
	"errors"
	"fmt"
	"os"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/yaml"

	"github.com/alexandremahdhaoui/ucsbind/internal/adapter"
	"github.com/alexandremahdhaoui/ucsbind/internal/types"
	"github.com/alexandremahdhaoui/ucsbind/internal/util/tlsutil"
)

const (
	// ConfigPathEnvKey is the environment variable key for the config file path.
	ConfigPathEnvKey = "UCSBIND_CONFIG_PATH"

	// DefaultTimeout bounds a whole run.
	DefaultTimeout = 5 * time.Minute
)

// Session provider kinds.
const (
	CloudShellSessionProvider       = "cloudshell"
	KubernetesSecretSessionProvider = "kubernetesSecret"
	StaticSessionProvider           = "static"
)

var (
	errServiceProfileDNMustBeSpecified = errors.New("serviceProfileDN must be specified")
	errServerDNMustBeSpecified         = errors.New("serverDN must be specified")
	errUnknownSessionProvider          = errors.New("unknown session provider kind")
	errSecretNameMustBeSpecified       = errors.New("kubernetesSecret.name must be specified")
)

// Config is used to configure ucsbind.
type Config struct {
	// ServiceProfileDN is the DN of the service profile to associate, e.g. "org-root/ls-cloud".
	ServiceProfileDN string `json:"serviceProfileDN"`
	// ServerDN is the DN of the blade or rack server, e.g. "sys/chassis-2/blade-1".
	ServerDN string `json:"serverDN"`

	// WaitForCompletion defaults to true.
	WaitForCompletion *bool `json:"waitForCompletion,omitempty"`
	// CompletionTimeout defaults to 20m.
	CompletionTimeout *metav1.Duration `json:"completionTimeout,omitempty"`
	// Timeout bounds the whole run. Defaults to 5m.
	Timeout *metav1.Duration `json:"timeout,omitempty"`

	// UCS configures the connection to the UCS manager.
	UCS tlsutil.ClientConfig `json:"ucs"`

	// SessionProvider configures where the UCS manager address and credentials come from.
	SessionProvider struct {
		// Kind is one of "cloudshell", "kubernetesSecret" or "static".
		Kind string `json:"kind"`

		CloudShell adapter.CloudShellConfig `json:"cloudshell"`

		KubernetesSecret struct {
			// KubeconfigPath can be set to "in-cluster" to use the in-cluster config.
			KubeconfigPath string `json:"kubeconfigPath"`
			Namespace      string `json:"namespace"`
			Name           string `json:"name"`
		} `json:"kubernetesSecret"`

		Static struct {
			Address  string `json:"address"`
			Username string `json:"username"`
			Password string `json:"password"`
		} `json:"static"`
	} `json:"sessionProvider"`

	Logging struct {
		Development bool   `json:"development"`
		Level       string `json:"level"`
	} `json:"logging"`

	Metrics struct {
		// TextfilePath is where metrics are written at the end of the run. Nothing is written when empty.
		TextfilePath string `json:"textfilePath"`
	} `json:"metrics"`
}

// AssociateOptions returns the association options described by the config.
func (c *Config) AssociateOptions() types.AssociateOptions {
	return types.AssociateOptions{
		WaitForCompletion: ptr.Deref(c.WaitForCompletion, true),
		Timeout:           c.CompletionTimeout.Duration,
	}
}

// loadConfig loads the configuration from the file specified in the
// UCSBIND_CONFIG_PATH environment variable.
func loadConfig() (*Config, error) {
	configPath := os.Getenv(ConfigPathEnvKey)
	if configPath == "" {
		return nil, fmt.Errorf("environment variable %q must be set", ConfigPathEnvKey)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Parse YAML (uses json tags)
	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	config.setDefaults()

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return config, nil
}

func (c *Config) setDefaults() {
	if c.WaitForCompletion == nil {
		c.WaitForCompletion = ptr.To(true)
	}

	if c.CompletionTimeout == nil {
		c.CompletionTimeout = &metav1.Duration{Duration: types.DefaultAssociationTimeout}
	}

	if c.Timeout == nil {
		c.Timeout = &metav1.Duration{Duration: DefaultTimeout}
	}

	if c.SessionProvider.Kind == CloudShellSessionProvider && c.SessionProvider.CloudShell.Port == 0 {
		c.SessionProvider.CloudShell.Port = adapter.DefaultCloudShellPort
	}
}

func (c *Config) validate() error {
	if c.ServiceProfileDN == "" {
		return errServiceProfileDNMustBeSpecified
	}

	if c.ServerDN == "" {
		return errServerDNMustBeSpecified
	}

	switch c.SessionProvider.Kind {
	case CloudShellSessionProvider, StaticSessionProvider:
	case KubernetesSecretSessionProvider:
		if c.SessionProvider.KubernetesSecret.Name == "" {
			return errSecretNameMustBeSpecified
		}
	default:
		return fmt.Errorf("%w: %q", errUnknownSessionProvider, c.SessionProvider.Kind)
	}

	return nil
}
