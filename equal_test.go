package gridedit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEqual(t *testing.T) {
	instant := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"both null", Null(), Null(), true},
		{"null vs text", Null(), Text(""), false},
		{"number vs null", Number(0), Null(), false},
		{"same number", Number(1.5), Number(1.5), true},
		{"no epsilon", Number(0.1 + 0.2), Number(0.3), false},
		{"trimmed text", Text("  Acme  "), Text("Acme"), true},
		{"case matters", Text("acme"), Text("Acme"), false},
		{"same instant different zone", Date(instant), Value{kind: KindDate, t: instant.In(time.FixedZone("X", 7200))}, true},
		{"different instant", Date(instant), Date(instant.Add(time.Second)), false},
		{"bools", Bool(true), Bool(true), true},
		{"number vs text", Number(1), Text("1"), false},
		{"raw equal", Raw([]int{1, 2}), Raw([]int{1, 2}), true},
		{"raw differ", Raw("a"), Raw("b"), false},
		{"raw strings trimmed", Raw("Acme"), Raw("  Acme  "), true},
		{"raw numbers across go types", Raw(5), Raw(5.0), true},
		{"raw int64 vs number", Raw(int64(7)), Number(7), true},
		{"raw string vs text", Raw("Acme"), Text(" Acme"), true},
		{"raw string vs number", Raw("5"), Number(5), false},
		{"raw time vs date", Raw(instant.In(time.FixedZone("X", 3600))), Date(instant), true},
		{"raw bool vs bool", Raw(false), Bool(false), true},
		{"raw slice vs text", Raw([]int{1}), Text("[1]"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
			assert.Equal(t, tt.want, Equal(tt.b, tt.a))
		})
	}
}
