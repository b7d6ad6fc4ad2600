package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 目录服务的 Prometheus 指标，通过 /metrics 暴露。

var (
	// UploadsTotal 上传结果计数，result: success, validation, storage
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onlycats_uploads_total",
			Help: "Total number of picture uploads by result",
		},
		[]string{"result"},
	)

	// UploadCompensations 记录写入失败后删除已保存资源的次数
	UploadCompensations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onlycats_upload_compensations_total",
			Help: "Assets removed after a failed picture insert, by outcome",
		},
		[]string{"outcome"}, // "deleted", "failed"
	)

	// LikesTotal 点赞结果计数，result: accepted, duplicate, not_found, error
	LikesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onlycats_likes_total",
			Help: "Total number of like attempts by result",
		},
		[]string{"result"},
	)

	GoldenTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onlycats_golden_transitions_total",
			Help: "Pictures that became golden, by trigger",
		},
		[]string{"trigger"}, // "threshold", "admin"
	)

	AdminDeletes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "onlycats_admin_deletes_total",
			Help: "Total number of pictures deleted by an administrator",
		},
	)

	OrphanAssetsRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "onlycats_orphan_assets_removed_total",
			Help: "Unreferenced assets removed by the sweeper",
		},
	)

	// API Endpoint Metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "onlycats_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route", "status_code"},
	)
)
