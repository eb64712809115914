package metrics

import "github.com/prometheus/client_golang/prometheus"

// 业务指标随 GinMiddleware 一起注册。
var (
	loginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "登录请求次数，按角色与结果区分。",
		},
		[]string{"role", "outcome"},
	)

	contractTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "contracts",
			Name:      "transitions_total",
			Help:      "合同状态变更次数。",
		},
		[]string{"from", "to"},
	)

	imageUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "uploads",
			Name:      "images_total",
			Help:      "图片上传次数，按目录与结果区分。",
		},
		[]string{"folder", "outcome"},
	)
)

// Login outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeRejected  = "rejected"
	OutcomeThrottled = "throttled"
	OutcomeError     = "error"
)

func ObserveLogin(role, outcome string) {
	loginAttempts.WithLabelValues(role, outcome).Inc()
}

func ObserveContractTransition(from, to string) {
	contractTransitions.WithLabelValues(from, to).Inc()
}

func ObserveImageUpload(folder, outcome string) {
	imageUploads.WithLabelValues(folder, outcome).Inc()
}
