// Package metrics 提供 Prometheus 指标集合与 /metrics 处理器
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 指标集合
type Metrics struct {
	registry *prometheus.Registry

	// HTTP 请求计数（method/path/status）
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// 客户创建计数
	CustomersCreatedTotal prometheus.Counter
	// 贷款申请创建计数
	LoansCreatedTotal prometheus.Counter
	// 贷款状态转换计数（按目标状态）
	LoanTransitionsTotal *prometheus.CounterVec
}

// New 创建并注册指标实例
func New(serviceName string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "origination",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "origination",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		CustomersCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "origination",
			Subsystem: serviceName,
			Name:      "customers_created_total",
			Help:      "Total customers created",
		}),
		LoansCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "origination",
			Subsystem: serviceName,
			Name:      "loan_applications_created_total",
			Help:      "Total loan applications created",
		}),
		LoanTransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "origination",
			Subsystem: serviceName,
			Name:      "loan_status_transitions_total",
			Help:      "Total loan status transitions by target status",
		}, []string{"status"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.CustomersCreatedTotal,
		m.LoansCreatedTotal,
		m.LoanTransitionsTotal,
	)

	return m
}

// Handler 返回 /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
