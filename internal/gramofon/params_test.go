package gramofon

import (
	"testing"
)

func TestZeroParamsEncodeAsEmptyObject(t *testing.T) {
	got, err := Params{}.String()
	if err != nil {
		t.Fatalf("String failed: %v", err)
	}
	if got != "{}" {
		t.Errorf("zero Params encode as %q, want %q", got, "{}")
	}
}

func TestParamsSetIsImmutable(t *testing.T) {
	base := Params{}.Set("ssid", "Home WiFi")
	withKey := base.Set("key", "secret")

	if base.Get("key").Exists() {
		t.Error("Set mutated the original Params value")
	}
	if got := withKey.Get("ssid").String(); got != "Home WiFi" {
		t.Errorf("derived Params lost ssid, got %q", got)
	}
	if got := withKey.Get("key").String(); got != "secret" {
		t.Errorf("key = %q, want %q", got, "secret")
	}
}

func TestParamsFromJSONPreservesUnknownFields(t *testing.T) {
	raw := `{"ssid":"Home WiFi","vendor_ext":{"x":1,"y":[true,null]}}`
	p := ParamsFromJSON(raw)
	if err := p.Err(); err != nil {
		t.Fatalf("Err = %v", err)
	}

	encoded, err := p.String()
	if err != nil {
		t.Fatalf("String failed: %v", err)
	}
	if encoded != raw {
		t.Errorf("round trip changed the document:\n got %s\nwant %s", encoded, raw)
	}
}

func TestParamsFromJSONRejectsInvalidDocument(t *testing.T) {
	p := ParamsFromJSON(`{"ssid":`)
	if p.Err() == nil {
		t.Fatal("invalid JSON accepted")
	}
	if _, err := p.String(); err == nil {
		t.Error("String on invalid Params returned no error")
	}

	// Error sticks through further building.
	if err := p.Set("key", "x").Err(); err == nil {
		t.Error("Set cleared the accumulated error")
	}
}

func TestPayloadAccessors(t *testing.T) {
	payload := PayloadFromJSON(`{"sid":"abc123","nested":{"n":7}}`)
	if payload.IsZero() {
		t.Error("non-empty payload reported IsZero")
	}
	if got := payload.Get("sid").String(); got != "abc123" {
		t.Errorf("sid = %q, want %q", got, "abc123")
	}
	if got := payload.Get("nested.n").Int(); got != 7 {
		t.Errorf("nested.n = %d, want 7", got)
	}
	if zero := (Payload{}); !zero.IsZero() {
		t.Error("zero payload did not report IsZero")
	}
}
