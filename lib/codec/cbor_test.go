// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
)

// sampleFrame is a representative session frame using cbor struct
// tags (the convention for purely-internal types).
type sampleFrame struct {
	Kind  string `cbor:"kind"`
	Runes string `cbor:"runes,omitempty"`
	At    int64  `cbor:"at"`
}

// sampleTheme uses json struct tags (the convention for types that
// serve both JSON and CBOR, relying on fxamacker's fallback).
type sampleTheme struct {
	Version int    `json:"version"`
	Name    string `json:"name"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleFrame{
		Kind:  "key",
		Runes: "i",
		At:    42_000_000,
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Marshal produced empty output")
	}

	var decoded sampleFrame
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	frame := sampleFrame{Kind: "resize", At: 7}

	first, err := Marshal(frame)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	second, err := Marshal(frame)
	if err != nil {
		t.Fatalf("second Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("deterministic encoding violated: %x != %x", first, second)
	}
}

func TestEncoderDecoderStreamRoundtrip(t *testing.T) {
	frames := []sampleFrame{
		{Kind: "key", Runes: "a", At: 1},
		{Kind: "tick", At: 250},
		{Kind: "interrupt", At: 500},
	}

	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	for _, frame := range frames {
		if err := encoder.Encode(frame); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	decoder := NewDecoder(&buffer)
	for i, want := range frames {
		var got sampleFrame
		if err := decoder.Decode(&got); err != nil {
			t.Fatalf("Decode frame %d: %v", i, err)
		}
		if got != want {
			t.Errorf("frame %d: got %+v, want %+v", i, got, want)
		}
	}
}

func TestJSONTagFallback(t *testing.T) {
	// Types with json tags and no cbor tags encode through our modes
	// using json tag names as CBOR map keys.
	original := sampleTheme{Version: 3, Name: "midnight"}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleTheme
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("json-tag roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestOmitemptyRespected(t *testing.T) {
	withRunes := sampleFrame{Kind: "key", Runes: "x", At: 1}
	withoutRunes := sampleFrame{Kind: "key", At: 1}

	dataWith, err := Marshal(withRunes)
	if err != nil {
		t.Fatal(err)
	}
	dataWithout, err := Marshal(withoutRunes)
	if err != nil {
		t.Fatal(err)
	}
	if len(dataWithout) >= len(dataWith) {
		t.Errorf("omitempty not effective: without=%d bytes, with=%d bytes",
			len(dataWithout), len(dataWith))
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var frame sampleFrame
	if err := Unmarshal([]byte{0xFF, 0xFE, 0xFD}, &frame); err == nil {
		t.Error("Unmarshal should reject invalid CBOR")
	}
}

func TestAnyTargetDecodesStringKeyedMaps(t *testing.T) {
	data, err := Marshal(map[string]any{"kind": "mouse", "x": 3})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	m, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded into %T, want map[string]any", decoded)
	}
	if m["kind"] != "mouse" {
		t.Errorf("kind = %v, want mouse", m["kind"])
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(map[string]any{"kind": "resize"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	notation, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(notation, `"kind"`) {
		t.Errorf("notation %q does not contain \"kind\"", notation)
	}
	if !strings.Contains(notation, `"resize"`) {
		t.Errorf("notation %q does not contain \"resize\"", notation)
	}
}

func TestDiagnoseFirst(t *testing.T) {
	item1, err := Marshal("hello")
	if err != nil {
		t.Fatalf("Marshal item 1: %v", err)
	}
	item2, err := Marshal(int64(42))
	if err != nil {
		t.Fatalf("Marshal item 2: %v", err)
	}

	sequence := append(append([]byte{}, item1...), item2...)

	notation, remaining, err := DiagnoseFirst(sequence)
	if err != nil {
		t.Fatalf("DiagnoseFirst: %v", err)
	}
	if !strings.Contains(notation, `"hello"`) {
		t.Errorf("first item notation %q does not contain \"hello\"", notation)
	}
	if len(remaining) == 0 {
		t.Fatal("expected remaining bytes after first item")
	}

	notation2, remaining2, err := DiagnoseFirst(remaining)
	if err != nil {
		t.Fatalf("DiagnoseFirst second: %v", err)
	}
	if !strings.Contains(notation2, "42") {
		t.Errorf("second item notation %q does not contain \"42\"", notation2)
	}
	if len(remaining2) != 0 {
		t.Errorf("expected no remaining bytes, got %d", len(remaining2))
	}
}

func BenchmarkMarshal(b *testing.B) {
	frame := sampleFrame{Kind: "key", Runes: "i", At: 42_000_000}

	b.ReportAllocs()
	for b.Loop() {
		Marshal(frame)
	}
}

func BenchmarkUnmarshal(b *testing.B) {
	frame := sampleFrame{Kind: "key", Runes: "i", At: 42_000_000}
	data, err := Marshal(frame)
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	for b.Loop() {
		var decoded sampleFrame
		Unmarshal(data, &decoded)
	}
}
