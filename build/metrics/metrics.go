// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics exports the allocation counters of a context to Prometheus.
package metrics

import (
	"github.com/gx-org/polyast/build/ctx"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "polyast"

// Object kinds used as label values.
const (
	KindExpr = "expr"
	KindNode = "node"
	KindList = "list"
)

// Collector collects the allocation counters of a context.
type Collector struct {
	ctx *ctx.Ctx

	allocated  *prometheus.Desc
	duplicated *prometheus.Desc
	freed      *prometheus.Desc
	live       *prometheus.Desc
	ids        *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a collector reading the counters of c.
// constLabels are added to all the metrics.
func NewCollector(c *ctx.Ctx, constLabels prometheus.Labels) *Collector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, labels, constLabels)
	}
	return &Collector{
		ctx:        c,
		allocated:  desc("objects_allocated_total", "Number of objects allocated, including copies.", "kind"),
		duplicated: desc("objects_duplicated_total", "Number of objects copied before being modified.", "kind"),
		freed:      desc("objects_freed_total", "Number of objects released.", "kind"),
		live:       desc("objects_live", "Number of objects allocated and not yet released.", "kind"),
		ids:        desc("identifiers", "Number of identifiers interned in the context."),
	}
}

// Describe sends the descriptors of the metrics to ch.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.allocated
	ch <- c.duplicated
	ch <- c.freed
	ch <- c.live
	ch <- c.ids
}

type counters struct {
	kind                        string
	allocated, duplicated, free int64
}

// Collect sends the current value of the counters to ch.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.ctx.Stats()
	all := []counters{
		{
			kind:       KindExpr,
			allocated:  stats.ExprsAllocated.Load(),
			duplicated: stats.ExprsDuplicated.Load(),
			free:       stats.ExprsFreed.Load(),
		},
		{
			kind:       KindNode,
			allocated:  stats.NodesAllocated.Load(),
			duplicated: stats.NodesDuplicated.Load(),
			free:       stats.NodesFreed.Load(),
		},
		{
			kind:       KindList,
			allocated:  stats.ListsAllocated.Load(),
			duplicated: stats.ListsDuplicated.Load(),
			free:       stats.ListsFreed.Load(),
		},
	}
	for _, cnt := range all {
		ch <- prometheus.MustNewConstMetric(c.allocated, prometheus.CounterValue, float64(cnt.allocated), cnt.kind)
		ch <- prometheus.MustNewConstMetric(c.duplicated, prometheus.CounterValue, float64(cnt.duplicated), cnt.kind)
		ch <- prometheus.MustNewConstMetric(c.freed, prometheus.CounterValue, float64(cnt.free), cnt.kind)
		ch <- prometheus.MustNewConstMetric(c.live, prometheus.GaugeValue, float64(cnt.allocated-cnt.free), cnt.kind)
	}
	ch <- prometheus.MustNewConstMetric(c.ids, prometheus.GaugeValue, float64(c.ctx.NumIDs()))
}

// Register creates a collector for c and registers it in reg.
func Register(reg prometheus.Registerer, c *ctx.Ctx) (*Collector, error) {
	col := NewCollector(c, nil)
	if err := reg.Register(col); err != nil {
		return nil, err
	}
	return col, nil
}
