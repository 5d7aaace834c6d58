package cache

import (
	"strings"
	"testing"
)

type gateKey struct {
	name  string
	arity int
}

func (k gateKey) String() string {
	return k.name + "/" + strings.Repeat("q", k.arity)
}

func joinWithSeparator(parts ...string) string {
	return strings.Join(parts, KeySeparator)
}

func TestDefaultKeySerializer_Scalars(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	tests := []struct {
		name      string
		namespace string
		args      []any
		want      string
	}{
		{name: "no args", namespace: "gate", want: "gate"},
		{name: "name and arity", namespace: "gate", args: []any{"ccx", 3}, want: joinWithSeparator("gate", "ccx", "3")},
		{name: "mixed basics", namespace: "x", args: []any{true, 3.5, int64(-2), uint64(7)}, want: joinWithSeparator("x", "true", "3.5", "-2", "7")},
		{name: "small ints", namespace: "x", args: []any{int8(1), uint16(2), float32(0.5)}, want: joinWithSeparator("x", "1", "2", "0.5")},
		{name: "nil", namespace: "x", args: []any{nil}, want: joinWithSeparator("x", "nil")},
		{name: "nil pointer", namespace: "x", args: []any{(*int)(nil)}, want: joinWithSeparator("x", "nil")},
		{name: "pointer deref", namespace: "x", args: []any{ptr(5)}, want: joinWithSeparator("x", "5")},
		{name: "stringer", namespace: "x", args: []any{gateKey{name: "cx", arity: 2}}, want: joinWithSeparator("x", "cx/qq")},
		{name: "nil slice", namespace: "x", args: []any{([]int)(nil)}, want: joinWithSeparator("x", "slice:nil")},
		{name: "int slice", namespace: "x", args: []any{[]int{0, 1}}, want: joinWithSeparator("x", "[0,1]")},
		{name: "nested array", namespace: "x", args: []any{[2][]string{{"a"}, {"b", "c"}}}, want: joinWithSeparator("x", "[[a],[b,c]]")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serializer.SerializeKey(tt.namespace, tt.args...)
			if got != tt.want {
				t.Errorf("SerializeKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultKeySerializer_Digests(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	a := serializer.SerializeKey("job", map[string]int{"b": 2, "a": 1})
	b := serializer.SerializeKey("job", map[string]int{"a": 1, "b": 2})
	if a != b {
		t.Errorf("map keys should be order independent: %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, joinWithSeparator("job", "map[string]int:")) {
		t.Errorf("unexpected map key %s", a)
	}

	c := serializer.SerializeKey("job", map[string]int{"a": 1, "b": 3})
	if a == c {
		t.Error("different maps must produce different keys")
	}

	raw1 := serializer.SerializeKey("qobj", []byte("payload"))
	raw2 := serializer.SerializeKey("qobj", []byte("payload"))
	if raw1 != raw2 || !strings.HasPrefix(raw1, joinWithSeparator("qobj", "bytes:")) {
		t.Errorf("byte digests should be stable: %s vs %s", raw1, raw2)
	}
	if raw1 == serializer.SerializeKey("qobj", []byte("payload2")) {
		t.Error("different payloads must produce different keys")
	}

	type filter struct {
		Circuit string
		Limit   int
	}
	s1 := serializer.SerializeKey("list", filter{Circuit: "bell", Limit: 10})
	s2 := serializer.SerializeKey("list", filter{Circuit: "bell", Limit: 10})
	if s1 != s2 {
		t.Errorf("struct keys should be stable: %s vs %s", s1, s2)
	}
}

func TestDefaultKeySerializer_Funcs(t *testing.T) {
	serializer := NewDefaultKeySerializer()
	fn := func() {}

	k1 := serializer.SerializeKey("criteria", fn)
	k2 := serializer.SerializeKey("criteria", fn)
	if k1 != k2 {
		t.Errorf("same func should produce the same key: %s vs %s", k1, k2)
	}
	if !strings.HasPrefix(k1, joinWithSeparator("criteria", "func:")) {
		t.Errorf("unexpected func key %s", k1)
	}
}

func ptr[T any](v T) *T {
	return &v
}
