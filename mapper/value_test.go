package mapper

import (
	"testing"
	"time"
)

func TestValueEqual(t *testing.T) {
	instant := time.Date(2024, time.March, 1, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nulls", Null(), Null(), true},
		{"null vs int", Null(), Int(0), false},
		{"equal ints", Int(7), Int(7), true},
		{"different ints", Int(7), Int(8), false},
		{"equal binary", Binary([]byte{1, 2}), Binary([]byte{1, 2}), true},
		{"different binary", Binary([]byte{1, 2}), Binary([]byte{1, 3}), false},
		{"equal instants", Instant(instant), Instant(instant), true},
		{"int vs float", Int(1), Float(1), false},
		{"equal durations", Duration(time.Second), Duration(time.Second), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Fatalf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Null(), "null"},
		{Bool(true), "true"},
		{Int(-42), "-42"},
		{Float(2.5), "2.5"},
		{String("abc"), "abc"},
		{Binary([]byte{0xAB, 0xCD}), "0xabcd"},
		{Duration(90 * time.Second), "1m30s"},
	}

	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
