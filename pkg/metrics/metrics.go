// Package metrics registers the Prometheus collectors used across the app.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ImportsTotal counts completed import runs by final status.
	ImportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetadmin_imports_total",
		Help: "Completed spreadsheet import runs by final status.",
	}, []string{"status"})

	// ImportRowsTotal counts processed rows by outcome.
	ImportRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetadmin_import_rows_total",
		Help: "Spreadsheet rows processed by outcome.",
	}, []string{"result"})

	// SMSSentTotal counts SMS gateway sends by outcome.
	SMSSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetadmin_sms_sent_total",
		Help: "SMS messages handed to the gateway by outcome.",
	}, []string{"result"})
)
