// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import "github.com/prometheus/client_golang/prometheus"

var (
	listingsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auction_listings_total",
		Help: "Counter of accepted listings",
	})
	bidsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auction_bids_total",
		Help: "Counter of accepted bids",
	})
	refundsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auction_refunds_total",
		Help: "Counter of bids returned to outbid bidders",
	})
	settlementsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_settlements_total",
		Help: "Counter of settled listings by outcome",
	}, []string{"outcome"})
	rejectionsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_rejections_total",
		Help: "Counter of rejected calls by operation and kind",
	}, []string{"op", "kind"})
	liveListingsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "auction_live_listings",
		Help: "Listings not settled yet",
	})
	callDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "auction_call_duration_seconds",
		Help:    "Duration of engine calls",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"op"})
)

func init() {
	prometheus.MustRegister(
		listingsCounter,
		bidsCounter,
		refundsCounter,
		settlementsCounter,
		rejectionsCounter,
		liveListingsGauge,
		callDuration,
	)
}
