// Package metrics collects business metrics for the portfolio backend.
package metrics

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// PipelineMetrics tracks the ask/chat pipelines and the OTP gate.
// All counters are atomic; durations are guarded by a mutex because
// float64 has no atomic add.
type PipelineMetrics struct {
	// ask pipeline
	asksTotal      uint64
	asksCacheHits  uint64
	asksCacheMiss  uint64
	asksErrors     uint64
	asksDegraded   uint64 // placeholder answers served
	modelFallbacks uint64 // primary model failed, fallback used

	// chat pipeline
	chatsTotal    uint64
	chatsDegraded uint64 // apologetic fallback replies served

	// retrieval
	retrievalTotal  uint64
	retrievalErrors uint64

	// model calls
	modelCallsTotal  uint64
	modelCallsErrors uint64

	// OTP gate
	otpSendsTotal    uint64
	otpSendErrors    uint64
	otpVerifiesTotal uint64
	otpVerifyFailed  uint64
	mailFailovers    uint64

	// resume requests
	resumeRequests uint64

	// ingestion
	recordsIngested uint64
	recordsSkipped  uint64
	ingestErrors    uint64

	durationMu        sync.Mutex
	retrievalDuration float64
	modelCallDuration float64
}

var (
	global *PipelineMetrics
	once   sync.Once
)

// Get returns the process-wide metrics instance.
func Get() *PipelineMetrics {
	once.Do(func() {
		global = &PipelineMetrics{}
	})
	return global
}

// RecordAsk records one ask request.
func (m *PipelineMetrics) RecordAsk(cacheHit bool, degraded bool, err error) {
	atomic.AddUint64(&m.asksTotal, 1)
	if cacheHit {
		atomic.AddUint64(&m.asksCacheHits, 1)
	} else {
		atomic.AddUint64(&m.asksCacheMiss, 1)
	}
	if degraded {
		atomic.AddUint64(&m.asksDegraded, 1)
	}
	if err != nil {
		atomic.AddUint64(&m.asksErrors, 1)
	}
}

// RecordChat records one chat request.
func (m *PipelineMetrics) RecordChat(degraded bool) {
	atomic.AddUint64(&m.chatsTotal, 1)
	if degraded {
		atomic.AddUint64(&m.chatsDegraded, 1)
	}
}

// RecordRetrieval records one vector search.
func (m *PipelineMetrics) RecordRetrieval(duration time.Duration, err error) {
	atomic.AddUint64(&m.retrievalTotal, 1)
	if err != nil {
		atomic.AddUint64(&m.retrievalErrors, 1)
	}
	m.durationMu.Lock()
	m.retrievalDuration += duration.Seconds()
	m.durationMu.Unlock()
}

// RecordModelCall records one completion attempt.
func (m *PipelineMetrics) RecordModelCall(duration time.Duration, err error) {
	atomic.AddUint64(&m.modelCallsTotal, 1)
	if err != nil {
		atomic.AddUint64(&m.modelCallsErrors, 1)
	}
	m.durationMu.Lock()
	m.modelCallDuration += duration.Seconds()
	m.durationMu.Unlock()
}

// RecordModelFallback records a primary-to-fallback switch.
func (m *PipelineMetrics) RecordModelFallback() {
	atomic.AddUint64(&m.modelFallbacks, 1)
}

// RecordOTPSend records one code issuance attempt.
func (m *PipelineMetrics) RecordOTPSend(err error) {
	atomic.AddUint64(&m.otpSendsTotal, 1)
	if err != nil {
		atomic.AddUint64(&m.otpSendErrors, 1)
	}
}

// RecordOTPVerify records one verification attempt.
func (m *PipelineMetrics) RecordOTPVerify(err error) {
	atomic.AddUint64(&m.otpVerifiesTotal, 1)
	if err != nil {
		atomic.AddUint64(&m.otpVerifyFailed, 1)
	}
}

// RecordMailFailover records a switch from the primary mail provider to
// a fallback.
func (m *PipelineMetrics) RecordMailFailover() {
	atomic.AddUint64(&m.mailFailovers, 1)
}

// RecordResumeRequest records one recorded resume request.
func (m *PipelineMetrics) RecordResumeRequest() {
	atomic.AddUint64(&m.resumeRequests, 1)
}

// RecordIngestion records one ingestion run.
func (m *PipelineMetrics) RecordIngestion(upserted, skipped int, err error) {
	atomic.AddUint64(&m.recordsIngested, uint64(upserted))
	atomic.AddUint64(&m.recordsSkipped, uint64(skipped))
	if err != nil {
		atomic.AddUint64(&m.ingestErrors, 1)
	}
}

// counter is one exported metric line set.
type counter struct {
	name  string
	help  string
	value uint64
}

// Export renders the metrics in Prometheus text exposition format.
func (m *PipelineMetrics) Export(namespace string) string {
	counters := []counter{
		{"asks_total", "Total ask requests.", atomic.LoadUint64(&m.asksTotal)},
		{"asks_cache_hits_total", "Ask answers served from cache.", atomic.LoadUint64(&m.asksCacheHits)},
		{"asks_cache_misses_total", "Ask answers computed fresh.", atomic.LoadUint64(&m.asksCacheMiss)},
		{"asks_errors_total", "Ask requests that failed.", atomic.LoadUint64(&m.asksErrors)},
		{"asks_degraded_total", "Ask requests answered with the placeholder.", atomic.LoadUint64(&m.asksDegraded)},
		{"chats_total", "Total chat requests.", atomic.LoadUint64(&m.chatsTotal)},
		{"chats_degraded_total", "Chat requests answered with a fallback reply.", atomic.LoadUint64(&m.chatsDegraded)},
		{"retrieval_total", "Total vector searches.", atomic.LoadUint64(&m.retrievalTotal)},
		{"retrieval_errors_total", "Vector searches that failed.", atomic.LoadUint64(&m.retrievalErrors)},
		{"model_calls_total", "Total model completion attempts.", atomic.LoadUint64(&m.modelCallsTotal)},
		{"model_calls_errors_total", "Model completion attempts that failed.", atomic.LoadUint64(&m.modelCallsErrors)},
		{"model_fallbacks_total", "Primary-to-fallback model switches.", atomic.LoadUint64(&m.modelFallbacks)},
		{"otp_sends_total", "OTP issuance attempts.", atomic.LoadUint64(&m.otpSendsTotal)},
		{"otp_send_errors_total", "OTP issuance failures.", atomic.LoadUint64(&m.otpSendErrors)},
		{"otp_verifies_total", "OTP verification attempts.", atomic.LoadUint64(&m.otpVerifiesTotal)},
		{"otp_verify_failed_total", "OTP verification failures.", atomic.LoadUint64(&m.otpVerifyFailed)},
		{"mail_failovers_total", "Mail provider failovers.", atomic.LoadUint64(&m.mailFailovers)},
		{"resume_requests_total", "Recorded resume requests.", atomic.LoadUint64(&m.resumeRequests)},
		{"records_ingested_total", "Context records ingested.", atomic.LoadUint64(&m.recordsIngested)},
		{"records_skipped_total", "Context records skipped at ingestion.", atomic.LoadUint64(&m.recordsSkipped)},
		{"ingest_errors_total", "Ingestion runs with errors.", atomic.LoadUint64(&m.ingestErrors)},
	}

	var sb strings.Builder
	for _, c := range counters {
		full := namespace + "_" + c.name
		sb.WriteString(fmt.Sprintf("# HELP %s %s\n", full, c.help))
		sb.WriteString(fmt.Sprintf("# TYPE %s counter\n", full))
		sb.WriteString(fmt.Sprintf("%s %d\n", full, c.value))
	}

	cacheHits := atomic.LoadUint64(&m.asksCacheHits)
	cacheTotal := cacheHits + atomic.LoadUint64(&m.asksCacheMiss)
	hitRate := 0.0
	if cacheTotal > 0 {
		hitRate = float64(cacheHits) / float64(cacheTotal)
	}
	sb.WriteString(fmt.Sprintf("# HELP %s_cache_hit_rate Ask cache hit rate (0-1).\n", namespace))
	sb.WriteString(fmt.Sprintf("# TYPE %s_cache_hit_rate gauge\n", namespace))
	sb.WriteString(fmt.Sprintf("%s_cache_hit_rate %.4f\n", namespace, hitRate))

	m.durationMu.Lock()
	retrievalDuration := m.retrievalDuration
	modelCallDuration := m.modelCallDuration
	m.durationMu.Unlock()

	sb.WriteString(fmt.Sprintf("# HELP %s_retrieval_duration_seconds_total Total vector search duration.\n", namespace))
	sb.WriteString(fmt.Sprintf("# TYPE %s_retrieval_duration_seconds_total counter\n", namespace))
	sb.WriteString(fmt.Sprintf("%s_retrieval_duration_seconds_total %.6f\n", namespace, retrievalDuration))

	sb.WriteString(fmt.Sprintf("# HELP %s_model_call_duration_seconds_total Total model call duration.\n", namespace))
	sb.WriteString(fmt.Sprintf("# TYPE %s_model_call_duration_seconds_total counter\n", namespace))
	sb.WriteString(fmt.Sprintf("%s_model_call_duration_seconds_total %.6f\n", namespace, modelCallDuration))

	return sb.String()
}

// Stats returns a point-in-time snapshot for the health endpoint.
func (m *PipelineMetrics) Stats() map[string]interface{} {
	m.durationMu.Lock()
	retrievalDuration := m.retrievalDuration
	modelCallDuration := m.modelCallDuration
	m.durationMu.Unlock()

	cacheHits := atomic.LoadUint64(&m.asksCacheHits)
	cacheTotal := cacheHits + atomic.LoadUint64(&m.asksCacheMiss)
	hitRate := 0.0
	if cacheTotal > 0 {
		hitRate = float64(cacheHits) / float64(cacheTotal)
	}

	retrievalTotal := atomic.LoadUint64(&m.retrievalTotal)
	avgRetrieval := 0.0
	if retrievalTotal > 0 {
		avgRetrieval = retrievalDuration / float64(retrievalTotal)
	}

	modelTotal := atomic.LoadUint64(&m.modelCallsTotal)
	avgModelCall := 0.0
	if modelTotal > 0 {
		avgModelCall = modelCallDuration / float64(modelTotal)
	}

	return map[string]interface{}{
		"asks_total":             atomic.LoadUint64(&m.asksTotal),
		"asks_errors":            atomic.LoadUint64(&m.asksErrors),
		"asks_degraded":          atomic.LoadUint64(&m.asksDegraded),
		"cache_hit_rate":         hitRate,
		"chats_total":            atomic.LoadUint64(&m.chatsTotal),
		"chats_degraded":         atomic.LoadUint64(&m.chatsDegraded),
		"retrieval_total":        retrievalTotal,
		"retrieval_errors":       atomic.LoadUint64(&m.retrievalErrors),
		"retrieval_avg_seconds":  avgRetrieval,
		"model_calls_total":      modelTotal,
		"model_calls_errors":     atomic.LoadUint64(&m.modelCallsErrors),
		"model_call_avg_seconds": avgModelCall,
		"model_fallbacks":        atomic.LoadUint64(&m.modelFallbacks),
		"otp_sends_total":        atomic.LoadUint64(&m.otpSendsTotal),
		"otp_verify_failed":      atomic.LoadUint64(&m.otpVerifyFailed),
		"resume_requests":        atomic.LoadUint64(&m.resumeRequests),
	}
}

// Reset zeroes every metric. Test helper.
func (m *PipelineMetrics) Reset() {
	m.durationMu.Lock()
	defer m.durationMu.Unlock()

	atomic.StoreUint64(&m.asksTotal, 0)
	atomic.StoreUint64(&m.asksCacheHits, 0)
	atomic.StoreUint64(&m.asksCacheMiss, 0)
	atomic.StoreUint64(&m.asksErrors, 0)
	atomic.StoreUint64(&m.asksDegraded, 0)
	atomic.StoreUint64(&m.modelFallbacks, 0)
	atomic.StoreUint64(&m.chatsTotal, 0)
	atomic.StoreUint64(&m.chatsDegraded, 0)
	atomic.StoreUint64(&m.retrievalTotal, 0)
	atomic.StoreUint64(&m.retrievalErrors, 0)
	atomic.StoreUint64(&m.modelCallsTotal, 0)
	atomic.StoreUint64(&m.modelCallsErrors, 0)
	atomic.StoreUint64(&m.otpSendsTotal, 0)
	atomic.StoreUint64(&m.otpSendErrors, 0)
	atomic.StoreUint64(&m.otpVerifiesTotal, 0)
	atomic.StoreUint64(&m.otpVerifyFailed, 0)
	atomic.StoreUint64(&m.mailFailovers, 0)
	atomic.StoreUint64(&m.resumeRequests, 0)
	atomic.StoreUint64(&m.recordsIngested, 0)
	atomic.StoreUint64(&m.recordsSkipped, 0)
	atomic.StoreUint64(&m.ingestErrors, 0)
	m.retrievalDuration = 0
	m.modelCallDuration = 0
}
