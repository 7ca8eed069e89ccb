package monitoring

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// PrometheusHandler returns an http.Handler that serves Prometheus text format metrics.
// Mount it at "/metrics".
func (m *Monitor) PrometheusHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		live := 0
		if m.liveClients != nil {
			live = m.liveClients()
		}

		lines := []struct {
			name string
			help string
			typ  string
			val  interface{}
		}{
			{"oulia_http_requests_total", "Total HTTP requests served", "counter", atomic.LoadUint64(&m.metrics.RequestsTotal)},
			{"oulia_http_requests_failed_total", "HTTP requests answered with a 5xx status", "counter", atomic.LoadUint64(&m.metrics.RequestsFailed)},

			{"oulia_model_calls_total", "Total language model calls", "counter", atomic.LoadUint64(&m.metrics.ModelCallsTotal)},
			{"oulia_model_calls_failed_total", "Language model calls that returned an error", "counter", atomic.LoadUint64(&m.metrics.ModelCallsFailed)},
			{"oulia_image_analyses_total", "Guest images sent for analysis", "counter", atomic.LoadUint64(&m.metrics.ImageAnalysesTotal)},
			{"oulia_translations_total", "Translation requests", "counter", atomic.LoadUint64(&m.metrics.TranslationsTotal)},
			{"oulia_issues_reported_total", "Issues reported by guests", "counter", atomic.LoadUint64(&m.metrics.IssuesReported)},

			{"oulia_live_clients", "Connected host notification sockets", "gauge", live},
			{"oulia_uptime_seconds", "Process uptime in seconds", "gauge", time.Since(m.metrics.StartTime).Seconds()},
			{"oulia_memory_alloc_bytes", "Current memory allocation in bytes", "gauge", memStats.Alloc},
			{"oulia_goroutines", "Number of goroutines", "gauge", runtime.NumGoroutine()},
		}

		for _, l := range lines {
			fmt.Fprintf(w, "# HELP %s %s\n", l.name, l.help)
			fmt.Fprintf(w, "# TYPE %s %s\n", l.name, l.typ)
			switch v := l.val.(type) {
			case uint64:
				fmt.Fprintf(w, "%s %d\n", l.name, v)
			case int:
				fmt.Fprintf(w, "%s %d\n", l.name, v)
			case float64:
				fmt.Fprintf(w, "%s %f\n", l.name, v)
			}
			fmt.Fprintln(w)
		}

		if n := atomic.LoadUint64(&m.metrics.ModelLatencyCount); n > 0 {
			avgMs := float64(atomic.LoadUint64(&m.metrics.ModelLatencySum)) / float64(n) / 1e6
			fmt.Fprintf(w, "# HELP oulia_model_latency_avg_ms Average language model latency in milliseconds\n")
			fmt.Fprintf(w, "# TYPE oulia_model_latency_avg_ms gauge\n")
			fmt.Fprintf(w, "oulia_model_latency_avg_ms %f\n\n", avgMs)
		}
	})
}
