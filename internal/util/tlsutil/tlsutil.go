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

// Package tlsutil provides utilities for building TLS configurations.
package tlsutil

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"
)

var (
	// ErrCANotFound is returned when the CA file does not exist.
	ErrCANotFound = errors.New("CA file not found")
	// ErrLoadCAFailed is returned when loading the CA file fails.
	ErrLoadCAFailed = errors.New("failed to load CA file")
	// ErrParseCAFailed is returned when parsing the CA certificate fails.
	ErrParseCAFailed = errors.New("failed to parse CA certificate")
)

// ClientConfig holds the TLS parameters used to reach the UCS manager.
type ClientConfig struct {
	// CAPath is the path to a PEM bundle used to verify the server. The system pool is used when empty.
	CAPath string `json:"caPath"`
	// ServerName overrides the name used to verify the server certificate.
	ServerName string `json:"serverName"`
	// InsecureSkipVerify disables server certificate verification. UCS managers often ship self-signed
	// certificates.
	InsecureSkipVerify bool `json:"insecureSkipVerify"`
}

// BuildClientTLSConfig builds a tls.Config from the provided configuration.
//
// Returns an error if:
//   - CAPath is set and does not exist
//   - Loading or parsing the CA certificate fails
func BuildClientTLSConfig(config ClientConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{ //nolint:exhaustruct
		MinVersion:         tls.VersionTLS12,
		ServerName:         config.ServerName,
		InsecureSkipVerify: config.InsecureSkipVerify, //nolint:gosec
	}

	if config.CAPath == "" {
		return tlsConfig, nil
	}

	if _, err := os.Stat(config.CAPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrCANotFound, config.CAPath)
	}

	caBytes, err := os.ReadFile(config.CAPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadCAFailed, err)
	}

	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM(caBytes) {
		return nil, fmt.Errorf("%w: %s", ErrParseCAFailed, config.CAPath)
	}

	tlsConfig.RootCAs = caPool

	return tlsConfig, nil
}

// NewHTTPClient returns an http.Client using the TLS configuration built from config.
// A zero timeout means no timeout.
func NewHTTPClient(config ClientConfig, timeout time.Duration) (*http.Client, error) {
	tlsConfig, err := BuildClientTLSConfig(config)
	if err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig

	return &http.Client{ //nolint:exhaustruct
		Transport: transport,
		Timeout:   timeout,
	}, nil
}
