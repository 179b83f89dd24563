package json

import (
	"bytes"
	stdjson "encoding/json"
	"strings"
	"testing"
)

type answerPayload struct {
	Answer  string         `json:"answer"`
	Sources []sourceRecord `json:"sources"`
}

type sourceRecord struct {
	ID       string                 `json:"id"`
	Score    float64                `json:"score"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

func TestMarshalRoundTrip(t *testing.T) {
	in := answerPayload{
		Answer: "I built the portfolio backend in Go.",
		Sources: []sourceRecord{
			{ID: "proj-1", Score: 0.92, Metadata: map[string]interface{}{"title": "Portfolio", "year": "2024"}},
			{ID: "skill-3", Score: 0.81},
		},
	}

	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var out answerPayload
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Answer != in.Answer || len(out.Sources) != 2 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	if out.Sources[0].Metadata["title"] != "Portfolio" {
		t.Errorf("metadata lost: %+v", out.Sources[0].Metadata)
	}
}

func TestMarshalMatchesStdlib(t *testing.T) {
	in := map[string]interface{}{
		"ok":    true,
		"reply": "hello",
	}

	got, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want, err := stdjson.Marshal(in)
	if err != nil {
		t.Fatalf("stdlib Marshal: %v", err)
	}

	// compare decoded forms, key order may differ
	var a, b map[string]interface{}
	if err := stdjson.Unmarshal(got, &a); err != nil {
		t.Fatalf("decode ours: %v", err)
	}
	if err := stdjson.Unmarshal(want, &b); err != nil {
		t.Fatalf("decode stdlib: %v", err)
	}
	if a["ok"] != b["ok"] || a["reply"] != b["reply"] {
		t.Errorf("outputs differ: %v vs %v", a, b)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	var v answerPayload
	if err := Unmarshal([]byte("{not json"), &v); err == nil {
		t.Fatal("expected error for malformed input")
	}
}

func TestEncoderDecoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(sourceRecord{ID: "exp-2", Score: 0.5}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(buf.String(), `"exp-2"`) {
		t.Errorf("encoded output missing id: %s", buf.String())
	}

	var out sourceRecord
	if err := NewDecoder(&buf).Decode(&out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.ID != "exp-2" || out.Score != 0.5 {
		t.Errorf("decoded mismatch: %+v", out)
	}
}

func TestModeSwitching(t *testing.T) {
	defer ConfigStandardMode()

	ConfigFastestMode()
	data, err := Marshal(map[string]string{"k": "v"})
	if err != nil {
		t.Fatalf("Marshal in fastest mode: %v", err)
	}
	var out map[string]string
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal in fastest mode: %v", err)
	}
	if out["k"] != "v" {
		t.Errorf("round trip mismatch: %v", out)
	}
}
