/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package metrics exposes the engine's Prometheus metrics, registered
// once at process start and served by the dashboard's /metrics handler.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ordersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chimera_orders_total",
			Help: "Orders submitted, by symbol and side.",
		},
		[]string{"symbol", "side"},
	)

	fillsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chimera_fills_total",
			Help: "Fills received, by symbol and engine.",
		},
		[]string{"symbol", "engine"},
	)

	bustsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chimera_trade_busts_total",
			Help: "Trade bust events processed.",
		},
	)

	equityUSD = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chimera_equity_usd",
			Help: "Current account equity in USD.",
		},
	)

	riskScale = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chimera_risk_scale_factor",
			Help: "Governor's current adaptive risk scale factor in [0,1].",
		},
	)

	executionPolicyMode = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chimera_execution_policy_mode",
			Help: "Execution policy mode indicator, one labeled series per mode flipped between 0/1.",
		},
		[]string{"mode"},
	)

	latencyEMAMillis = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chimera_latency_ema_millis",
			Help: "Total (send-to-fill) order latency EMA in milliseconds.",
		},
	)

	qualityEMA = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chimera_execution_quality_ema",
			Help: "Execution quality score EMA in [0,1].",
		},
	)

	engineDisabledTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chimera_engine_disabled_total",
			Help: "Count of supervised components disabled by a recovered panic.",
		},
		[]string{"component"},
	)
)

func init() {
	prometheus.MustRegister(ordersTotal, fillsTotal, bustsTotal)
	prometheus.MustRegister(equityUSD, riskScale)
	prometheus.MustRegister(executionPolicyMode)
	prometheus.MustRegister(latencyEMAMillis, qualityEMA)
	prometheus.MustRegister(engineDisabledTotal)
}

// IncOrder records an order submission.
func IncOrder(symbol, side string) { ordersTotal.WithLabelValues(symbol, side).Inc() }

// IncFill records a fill attributed to an engine.
func IncFill(symbol, engine string) { fillsTotal.WithLabelValues(symbol, engine).Inc() }

// IncBust records a processed trade bust.
func IncBust() { bustsTotal.Inc() }

// SetEquity updates the equity gauge.
func SetEquity(usd float64) { equityUSD.Set(usd) }

// SetRiskScale updates the governor's adaptive risk scale gauge.
func SetRiskScale(scale float64) { riskScale.Set(scale) }

// SetExecutionPolicyMode flips the labeled mode series so exactly one of
// the four execution-policy modes reads 1 at a time.
func SetExecutionPolicyMode(active string) {
	for _, mode := range []string{"DISABLED", "POST_ONLY", "TAKE_ONLY", "NORMAL"} {
		if mode == active {
			executionPolicyMode.WithLabelValues(mode).Set(1)
		} else {
			executionPolicyMode.WithLabelValues(mode).Set(0)
		}
	}
}

// SetLatencyEMA updates the total (send-to-fill) order latency EMA gauge.
func SetLatencyEMA(ms float64) { latencyEMAMillis.Set(ms) }

// SetQualityEMA updates the execution quality EMA gauge.
func SetQualityEMA(q float64) { qualityEMA.Set(q) }

// IncEngineDisabled records a supervised component being taken offline.
func IncEngineDisabled(component string) { engineDisabledTotal.WithLabelValues(component).Inc() }
