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

// Package metrics holds the prometheus collectors of ucsbind.
//
// ucsbind runs once and exits, so metrics are not scraped: they are written to a file
// picked up by the node-exporter textfile collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ucsbind"

// Association results.
const (
	ResultAssociated                        = "associated"
	ResultProfileNotFound                   = "profile_not_found"
	ResultServerNotFound                    = "server_not_found"
	ResultAlreadyAssociated                 = "already_associated"
	ResultAlreadyAdministrativelyAssociated = "already_administratively_associated"
	ResultError                             = "error"
)

// Metrics groups the collectors shared by the adapters and controllers.
type Metrics struct {
	// AssociationsTotal counts association attempts by result.
	AssociationsTotal *prometheus.CounterVec
	// UCSRequestDuration observes UCS manager XML API calls by method and result.
	UCSRequestDuration *prometheus.HistogramVec
	// LastRunTimestamp is set to the time of the last run.
	LastRunTimestamp prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AssociationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "associations_total",
			Help:      "Number of service profile association attempts by result.",
		}, []string{"result"}),
		UCSRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ucs_request_duration_seconds",
			Help:      "Duration of UCS manager XML API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "result"}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last ucsbind run.",
		}),
	}

	reg.MustRegister(m.AssociationsTotal, m.UCSRequestDuration, m.LastRunTimestamp)

	return m
}

// NewNoop returns collectors registered with a throwaway registry.
func NewNoop() *Metrics {
	return New(prometheus.NewRegistry())
}

// WriteToTextfile writes every metric gathered by g to path, in the text exposition format.
// It does nothing if path is empty.
func WriteToTextfile(path string, g prometheus.Gatherer) error {
	if path == "" {
		return nil
	}

	return prometheus.WriteToTextfile(path, g)
}
