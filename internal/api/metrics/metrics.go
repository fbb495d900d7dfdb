// Package metrics defines and registers all custom Prometheus metrics for the
// account administration API. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// TransfersTotal counts credit transfer requests by outcome.
// Label:
//   - result: "success", "account_missing", "insufficient_balance",
//     "rejected", "failure", or "compensation_failure"
var TransfersTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transfers_total",
		Help:      "Total number of credit transfer requests, by outcome.",
	},
	[]string{"result"},
)

// CompensationFailuresTotal counts transfers whose compensating re-credit
// failed. Any increment here means an account pair needs manual
// reconciliation.
var CompensationFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "compensation_failures_total",
		Help:      "Total number of transfers left inconsistent after failed compensation.",
	},
)

// TransferDuration measures how long a transfer takes end-to-end.
var TransferDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "transfer_duration_seconds",
		Help:      "Duration of credit transfers from request to completion.",
		Buckets:   prometheus.DefBuckets,
	},
)

// DepositsTotal counts direct deposits, labelled by whether the deposit
// carried a donation stamp.
var DepositsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deposits_total",
		Help:      "Total number of credit deposits.",
	},
	[]string{"donation"},
)

// BansTotal counts applied moderation records by kind.
// Label:
//   - kind: "temporary", "permanent", or "none" (unban)
var BansTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bans_total",
		Help:      "Total number of moderation records applied, by kind.",
	},
	[]string{"kind"},
)

// BanConflictsTotal counts moderation requests rejected by the current ban
// state.
var BanConflictsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ban_conflicts_total",
		Help:      "Total number of moderation requests rejected as state conflicts.",
	},
	[]string{"kind"},
)
