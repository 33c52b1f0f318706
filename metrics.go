/*
Copyright © 2019 the hysplitplot authors.
This file is part of hysplitplot.

hysplitplot is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

hysplitplot is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with hysplitplot.  If not, see <http://www.gnu.org/licenses/>.
*/

package hysplitplot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts events during map fitting. A nil *Metrics records
// nothing.
type Metrics struct {
	Projections     *prometheus.CounterVec
	PolarFallbacks  prometheus.Counter
	CornerRollbacks *prometheus.CounterVec
	PoleExclusions  prometheus.Counter
	LimitWarnings   prometheus.Counter
}

// NewMetrics creates the fitting metrics and registers them with reg.
// If reg is nil the metrics are created but not registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Projections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hysplitplot",
			Subsystem: "fit",
			Name:      "projections_total",
			Help:      "Total map projections fitted, by resolved projection",
		}, []string{"projection"}),

		PolarFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hysplitplot",
			Subsystem: "fit",
			Name:      "polar_fallbacks_total",
			Help:      "Total Lambert projections replaced by polar stereographic because the window contained a pole",
		}),

		CornerRollbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hysplitplot",
			Subsystem: "fit",
			Name:      "corner_rollbacks_total",
			Help:      "Total corner adjustments reverted because they failed the round-trip check",
		}, []string{"step"}),

		PoleExclusions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hysplitplot",
			Subsystem: "fit",
			Name:      "pole_exclusions_total",
			Help:      "Total map windows clamped away from a pole",
		}),

		LimitWarnings: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hysplitplot",
			Subsystem: "fit",
			Name:      "limit_warnings_total",
			Help:      "Total map windows whose corners exceed ±90° latitude",
		}),
	}
}

func (m *Metrics) fitted(kind ProjectionType) {
	if m == nil {
		return
	}
	m.Projections.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) polarFallback() {
	if m == nil {
		return
	}
	m.PolarFallbacks.Inc()
}

func (m *Metrics) rollback(step string) {
	if m == nil {
		return
	}
	m.CornerRollbacks.WithLabelValues(step).Inc()
}

func (m *Metrics) poleExcluded() {
	if m == nil {
		return
	}
	m.PoleExclusions.Inc()
}

func (m *Metrics) limitWarning() {
	if m == nil {
		return
	}
	m.LimitWarnings.Inc()
}
