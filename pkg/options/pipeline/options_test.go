package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	o := NewOptions()
	assert.Empty(t, o.Validate())
}

func TestCompletePrependsChatModelOverride(t *testing.T) {
	o := NewOptions()
	o.ChatModelOverride = "meta-llama/Llama-3-8b-chat-hf"

	require.NoError(t, o.Complete())
	require.NotEmpty(t, o.ChatModels)
	assert.Equal(t, "meta-llama/Llama-3-8b-chat-hf", o.ChatModels[0])
	assert.Equal(t, "HuggingFaceH4/zephyr-7b-beta", o.ChatModels[1])

	// completing again must not stack a second copy
	require.NoError(t, o.Complete())
	assert.Equal(t, "meta-llama/Llama-3-8b-chat-hf", o.ChatModels[0])
	assert.NotEqual(t, o.ChatModels[0], o.ChatModels[1])
}

func TestCompleteWithoutOverrideKeepsCandidates(t *testing.T) {
	o := NewOptions()
	before := append([]string{}, o.ChatModels...)

	require.NoError(t, o.Complete())
	assert.Equal(t, before, o.ChatModels)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
		want   string
	}{
		{"zero top-k", func(o *Options) { o.TopK = 0 }, "top-k"},
		{"missing primary", func(o *Options) { o.PrimaryModel = "" }, "primary-model"},
		{"unknown ask mode", func(o *Options) { o.AskRetrieval = "eventually" }, "retrieval mode"},
		{"unknown chat mode", func(o *Options) { o.ChatRetrieval = "never" }, "retrieval mode"},
		{"zero timeout", func(o *Options) { o.HandlerTimeout = 0 }, "handler-timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOptions()
			tt.mutate(o)
			errs := o.Validate()
			require.NotEmpty(t, errs)
			assert.Contains(t, errs[0].Error(), tt.want)
		})
	}
}
