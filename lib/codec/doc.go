// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides loom's standard CBOR encoding configuration.
//
// Loom uses two serialization families with a clear boundary:
//
//   - Human-authored inputs are text: stylesheets are JSONC
//     (lib/style) and dashboard configuration is YAML
//     (cmd/loom-dashboard). Humans read and edit these.
//   - Machine artifacts are CBOR: recorded event sessions
//     (lib/replay) and any future on-disk runtime state. Nothing
//     edits these by hand.
//
// This package holds the shared CBOR modes so every package encodes
// identically without duplicating configuration. The encoder uses
// Core Deterministic Encoding (RFC 8949 §4.2): sorted map keys,
// smallest integer encoding, no indefinite-length items. Same logical
// data always produces identical bytes, which is what makes recorded
// sessions diffable and replay byte-stable.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations (session files):
//
//	encoder := codec.NewEncoder(w)
//	decoder := codec.NewDecoder(r)
//
// Types serialized only as CBOR carry `cbor` struct tags; types that
// also pass through JSON tooling carry `json` tags alone, which
// fxamacker/cbor reads as a fallback. Never tag a field with both.
package codec
