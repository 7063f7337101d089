package services

import (
	"apiary_app_go/metrics"
)

// Metrics is the global collector for core operations. Nil disables recording.
var Metrics *metrics.ApiaryMetrics
