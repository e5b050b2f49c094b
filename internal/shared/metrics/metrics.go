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
	deckGenerationStartedTotal   atomic.Uint64
	deckGenerationCompletedTotal atomic.Uint64
	deckGenerationFailedTotal    atomic.Uint64
	slideFallbackTotal           atomic.Uint64

	deckJobsReceivedTotal             atomic.Uint64
	deckJobsCompletedTotal            atomic.Uint64
	deckJobsFailedTotal               atomic.Uint64
	deckJobsDeletedUnrecoverableTotal atomic.Uint64

	deckGenerationDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncDeckGenerationStarted increments the started counter.
func IncDeckGenerationStarted() {
	deckGenerationStartedTotal.Add(1)
}

// IncDeckGenerationCompleted increments the completed counter.
func IncDeckGenerationCompleted() {
	deckGenerationCompletedTotal.Add(1)
}

// IncDeckGenerationFailed increments the failed counter.
func IncDeckGenerationFailed() {
	deckGenerationFailedTotal.Add(1)
}

// IncSlideFallback increments the counter of slides served from fallback content.
func IncSlideFallback() {
	slideFallbackTotal.Add(1)
}

// IncDeckJobsReceived increments the queue messages received counter.
func IncDeckJobsReceived() {
	deckJobsReceivedTotal.Add(1)
}

// IncDeckJobsCompleted increments the queue messages completed counter.
func IncDeckJobsCompleted() {
	deckJobsCompletedTotal.Add(1)
}

// IncDeckJobsFailed increments the queue messages failed counter.
func IncDeckJobsFailed() {
	deckJobsFailedTotal.Add(1)
}

// IncDeckJobsDeletedUnrecoverable increments the counter of messages deleted without processing.
func IncDeckJobsDeletedUnrecoverable() {
	deckJobsDeletedUnrecoverableTotal.Add(1)
}

// ObserveDeckGenerationDurationMs records a deck generation duration in milliseconds.
func ObserveDeckGenerationDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	deckGenerationDuration.Observe(value)
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
	writeCounter(&buf, "deck_generation_started_total", "Total deck generations started", deckGenerationStartedTotal.Load())
	writeCounter(&buf, "deck_generation_completed_total", "Total deck generations completed", deckGenerationCompletedTotal.Load())
	writeCounter(&buf, "deck_generation_failed_total", "Total deck generations failed", deckGenerationFailedTotal.Load())
	writeCounter(&buf, "slide_fallback_total", "Total slides served from fallback content", slideFallbackTotal.Load())
	writeCounter(&buf, "deck_jobs_received_total", "Total deck jobs received from the queue", deckJobsReceivedTotal.Load())
	writeCounter(&buf, "deck_jobs_completed_total", "Total deck jobs completed", deckJobsCompletedTotal.Load())
	writeCounter(&buf, "deck_jobs_failed_total", "Total deck jobs failed", deckJobsFailedTotal.Load())
	writeCounter(&buf, "deck_jobs_deleted_unrecoverable_total", "Total deck jobs deleted without processing", deckJobsDeletedUnrecoverableTotal.Load())
	writeHistogram(&buf, "deck_generation_duration_ms", "Deck generation duration in milliseconds", deckGenerationDuration.Snapshot())
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

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
