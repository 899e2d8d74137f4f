// Copyright 2025 Certen Protocol
//
// Package metrics exposes the registry's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegisterRequests counts POST / requests that reach the registry
	// write, by outcome; requests rejected before that are not counted.
	RegisterRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "asset_registry",
		Name:      "register_requests_total",
		Help:      "Total number of asset registration requests, by outcome.",
	}, []string{"outcome"})

	// DeleteRequests counts DELETE requests that reach the registry
	// delete, by outcome; requests rejected before that are not counted.
	DeleteRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "asset_registry",
		Name:      "delete_requests_total",
		Help:      "Total number of asset deletion requests, by outcome.",
	}, []string{"outcome"})

	// ContractValidations counts successful POST /contract/validate calls.
	ContractValidations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "asset_registry",
		Name:      "contract_validations_total",
		Help:      "Total number of successful contract validations.",
	})

	// WriteTransactionDuration measures the wall-clock time of a
	// registry write transaction, including validation, filesystem I/O,
	// and hook execution.
	WriteTransactionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "asset_registry",
		Name:      "write_transaction_duration_seconds",
		Help:      "Duration of a Registry Engine write transaction, end to end.",
		Buckets:   prometheus.DefBuckets,
	})
)
