package services

import (
	"reflect"
	"testing"
	"time"
)

func TestSanitizeRemovesAbsentFields(t *testing.T) {
	var nilTime *time.Time
	in := map[string]interface{}{
		"title":    "Plan",
		"deadline": nil,
		"when":     nilTime,
		"count":    0,
		"empty":    "",
		"goals": []interface{}{
			map[string]interface{}{"id": "g1", "completedAt": nil, "tasks": []interface{}{}},
		},
		"nested": map[string]interface{}{"a": nil, "b": false},
	}

	got := SanitizeDocument(in)
	want := map[string]interface{}{
		"title": "Plan",
		"count": 0,
		"empty": "",
		"goals": []interface{}{
			map[string]interface{}{"id": "g1", "tasks": []interface{}{}},
		},
		"nested": map[string]interface{}{"b": false},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SanitizeDocument() = %#v, want %#v", got, want)
	}
	if _, ok := in["deadline"]; !ok {
		t.Error("input was modified")
	}
}

func TestSanitizeIsIdempotent(t *testing.T) {
	in := map[string]interface{}{
		"a": nil,
		"b": []map[string]interface{}{{"x": nil, "y": 1}},
		"c": "kept",
	}
	once := Sanitize(in)
	twice := Sanitize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("Sanitize not idempotent: %#v vs %#v", once, twice)
	}
}

func TestSanitizePassesScalarsThrough(t *testing.T) {
	for _, v := range []interface{}{1, "s", true, 2.5} {
		if got := Sanitize(v); got != v {
			t.Errorf("Sanitize(%v) = %v", v, got)
		}
	}
}
