package metrics

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAsk(t *testing.T) {
	m := &PipelineMetrics{}

	m.RecordAsk(true, false, nil)
	m.RecordAsk(false, false, nil)
	m.RecordAsk(false, true, nil)
	m.RecordAsk(false, false, errors.New("boom"))

	stats := m.Stats()
	assert.Equal(t, uint64(4), stats["asks_total"])
	assert.Equal(t, uint64(1), stats["asks_errors"])
	assert.Equal(t, uint64(1), stats["asks_degraded"])
	assert.Equal(t, 0.25, stats["cache_hit_rate"])
}

func TestRecordRetrievalDuration(t *testing.T) {
	m := &PipelineMetrics{}

	m.RecordRetrieval(100*time.Millisecond, nil)
	m.RecordRetrieval(300*time.Millisecond, errors.New("timeout"))

	stats := m.Stats()
	assert.Equal(t, uint64(2), stats["retrieval_total"])
	assert.Equal(t, uint64(1), stats["retrieval_errors"])
	assert.InDelta(t, 0.2, stats["retrieval_avg_seconds"], 0.001)
}

func TestExportFormat(t *testing.T) {
	m := &PipelineMetrics{}
	m.RecordAsk(false, false, nil)
	m.RecordOTPSend(nil)
	m.RecordOTPVerify(errors.New("invalid"))

	out := m.Export("portfolio")

	require.Contains(t, out, "# HELP portfolio_asks_total Total ask requests.")
	require.Contains(t, out, "# TYPE portfolio_asks_total counter")
	assert.Contains(t, out, "portfolio_asks_total 1\n")
	assert.Contains(t, out, "portfolio_otp_sends_total 1\n")
	assert.Contains(t, out, "portfolio_otp_verify_failed_total 1\n")
	assert.Contains(t, out, "portfolio_cache_hit_rate 0.0000\n")

	// every metric line carries HELP and TYPE
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, 0, len(lines)%3)
}

func TestConcurrentRecording(t *testing.T) {
	m := &PipelineMetrics{}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordAsk(false, false, nil)
				m.RecordModelCall(time.Millisecond, nil)
				m.RecordChat(false)
			}
		}()
	}
	wg.Wait()

	stats := m.Stats()
	assert.Equal(t, uint64(1000), stats["asks_total"])
	assert.Equal(t, uint64(1000), stats["model_calls_total"])
	assert.Equal(t, uint64(1000), stats["chats_total"])
}

func TestReset(t *testing.T) {
	m := &PipelineMetrics{}
	m.RecordAsk(true, true, errors.New("x"))
	m.RecordChat(true)
	m.Reset()

	stats := m.Stats()
	assert.Equal(t, uint64(0), stats["asks_total"])
	assert.Equal(t, uint64(0), stats["chats_total"])
}

func TestGetIsSingleton(t *testing.T) {
	assert.Same(t, Get(), Get())
}
