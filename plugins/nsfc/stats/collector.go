// Copyright (c) 2019 Cisco and/or its affiliates.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package stats

import (
	"github.com/ligato/cn-infra/logging"
	prometheusplugin "github.com/ligato/cn-infra/rpc/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/contiv/nsfc/plugins/nsfc/sfcerr"
)

const (
	// PrometheusStatsPath is the path where the counters are exposed.
	PrometheusStatsPath = "/stats"

	collectionLabel = "collection"
	operationLabel  = "operation"
	kindLabel       = "kind"

	callsMetric  = "nsfcBackendCalls"
	errorsMetric = "nsfcBackendErrors"
)

// Collector counts calls to the remote collections and their failures.
type Collector struct {
	Log        logging.Logger
	Prometheus prometheusplugin.API

	calls  *prometheus.CounterVec
	errors *prometheus.CounterVec
}

// nameAndHelp defines the type for Prometheus metric metadata
type nameAndHelp struct {
	name   string
	help   string
	labels []string
}

// Init creates the counters and registers them into the Prometheus plugin
// (if set) under PrometheusStatsPath.
func (c *Collector) Init() error {
	metadata := []nameAndHelp{
		{callsMetric, "Number of calls to the remote SFC collections", []string{collectionLabel, operationLabel}},
		{errorsMetric, "Number of failed calls to the remote SFC collections",
			[]string{collectionLabel, operationLabel, kindLabel}},
	}
	vecs := make([]*prometheus.CounterVec, 0, len(metadata))
	for _, nh := range metadata {
		vecs = append(vecs, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: nh.name,
			Help: nh.help,
		}, nh.labels))
	}
	c.calls, c.errors = vecs[0], vecs[1]

	if c.Prometheus == nil {
		return nil
	}
	err := c.Prometheus.NewRegistry(PrometheusStatsPath,
		promhttp.HandlerOpts{ErrorHandling: promhttp.ContinueOnError, ErrorLog: c.Log})
	if err != nil {
		c.Log.Errorf("failed to create Prometheus registry for path '%s', error %s", PrometheusStatsPath, err)
		return err
	}
	for i, vec := range vecs {
		if err := c.Prometheus.Register(PrometheusStatsPath, vec); err != nil {
			c.Log.Errorf("failed to register metric '%s', error %s", metadata[i].name, err)
			return err
		}
	}
	return nil
}

// RecordCall counts one call of <operation> over <collection>.
func (c *Collector) RecordCall(collection, operation string, err error) {
	if c == nil || c.calls == nil {
		return
	}
	c.calls.WithLabelValues(collection, operation).Inc()
	if err != nil {
		kind, _ := sfcerr.KindOf(err)
		c.errors.WithLabelValues(collection, operation, kind.String()).Inc()
	}
}

// Calls returns the counter of calls of <operation> over <collection>.
func (c *Collector) Calls(collection, operation string) prometheus.Counter {
	return c.calls.WithLabelValues(collection, operation)
}

// Errors returns the counter of failed calls of the given kind.
func (c *Collector) Errors(collection, operation string, kind sfcerr.Kind) prometheus.Counter {
	return c.errors.WithLabelValues(collection, operation, kind.String())
}
