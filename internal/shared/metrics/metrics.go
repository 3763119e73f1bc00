package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	extractionStartedTotal   atomic.Uint64
	extractionSucceededTotal atomic.Uint64
	extractionFailedTotal    atomic.Uint64
	extractionNoDataTotal    atomic.Uint64
	extractionMalformedTotal atomic.Uint64
	sessionsCreatedTotal     atomic.Uint64
	sessionsExpiredTotal     atomic.Uint64
	rateLimitedTotal         atomic.Uint64

	extractionDuration = newHistogram([]float64{500, 1000, 2000, 5000, 10000, 20000, 30000, 60000, 120000})
)

// IncExtractionStarted increments the started counter.
func IncExtractionStarted() {
	extractionStartedTotal.Add(1)
}

// IncExtractionSucceeded increments the succeeded counter.
func IncExtractionSucceeded() {
	extractionSucceededTotal.Add(1)
}

// IncExtractionFailed counts service failures.
func IncExtractionFailed() {
	extractionFailedTotal.Add(1)
}

// IncExtractionNoData counts calls that produced no usable payload.
func IncExtractionNoData() {
	extractionNoDataTotal.Add(1)
}

// IncExtractionMalformed counts payloads rejected by the schema check.
func IncExtractionMalformed() {
	extractionMalformedTotal.Add(1)
}

// IncSessionsCreated increments the created sessions counter.
func IncSessionsCreated() {
	sessionsCreatedTotal.Add(1)
}

// AddSessionsExpired adds n swept sessions.
func AddSessionsExpired(n int) {
	if n > 0 {
		sessionsExpiredTotal.Add(uint64(n))
	}
}

// IncRateLimited counts requests rejected by the rate limiter.
func IncRateLimited() {
	rateLimitedTotal.Add(1)
}

// ObserveExtractionDurationMs records an extraction call duration in milliseconds.
func ObserveExtractionDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	extractionDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "extraction_started_total", "Total extraction calls started", extractionStartedTotal.Load())
	writeCounter(&buf, "extraction_succeeded_total", "Total extraction calls that produced resume data", extractionSucceededTotal.Load())
	writeCounter(&buf, "extraction_failed_total", "Total extraction calls that failed at the service", extractionFailedTotal.Load())
	writeCounter(&buf, "extraction_no_data_total", "Total extraction calls with an empty or non-JSON result", extractionNoDataTotal.Load())
	writeCounter(&buf, "extraction_malformed_total", "Total extraction results rejected by the schema", extractionMalformedTotal.Load())
	writeCounter(&buf, "sessions_created_total", "Total editing sessions created", sessionsCreatedTotal.Load())
	writeCounter(&buf, "sessions_expired_total", "Total editing sessions expired", sessionsExpiredTotal.Load())
	writeCounter(&buf, "rate_limited_total", "Total requests rejected by rate limiting", rateLimitedTotal.Load())
	writeHistogram(&buf, "extraction_duration_ms", "Extraction call duration in milliseconds", extractionDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SinceMillis returns the elapsed time since start in milliseconds.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
