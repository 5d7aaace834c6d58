package testsupport

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/goliatone/go-qcgrader/circuit"
	"github.com/goliatone/go-qcgrader/stdgates"
)

// UpdateGoldenEnv rewrites golden files when set to a non-empty value.
const UpdateGoldenEnv = "QCGRADER_UPDATE_GOLDEN"

// Root returns the module root directory.
func Root() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..")
}

// CircuitPath returns the path of a shared circuit fixture, e.g. "bell".
func CircuitPath(name string) string {
	return filepath.Join(Root(), "testdata", "circuits", name+".json")
}

// LoadFixture reads a fixture file.
func LoadFixture(t testing.TB, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}
	return data
}

// LoadFixtureJSON reads a JSON fixture into dest.
func LoadFixtureJSON(t testing.TB, path string, dest any) {
	t.Helper()

	if err := json.Unmarshal(LoadFixture(t, path), dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// LoadCircuit builds a shared circuit fixture with the standard gate library.
func LoadCircuit(t testing.TB, name string) *circuit.Circuit {
	t.Helper()

	path := CircuitPath(name)
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open circuit fixture %s: %v", path, err)
	}
	defer f.Close()

	c, err := circuit.Decode(f, stdgates.Default())
	if err != nil {
		t.Fatalf("failed to build circuit fixture %s: %v", path, err)
	}
	return c
}

// Bell returns the two qubit Bell circuit h(0), cx(0, 1) with measurements.
func Bell(t testing.TB) *circuit.Circuit {
	t.Helper()

	c := circuit.New("bell", 2, 2)
	mustAppend(t, c.AppendGate(stdgates.H(), 0))
	mustAppend(t, c.AppendGate(stdgates.CX(), 0, 1))
	mustAppend(t, c.MeasureAll())
	return c
}

// GHZ returns an n qubit GHZ circuit with measurements.
func GHZ(t testing.TB, n int) *circuit.Circuit {
	t.Helper()

	c := circuit.New("ghz", n, n)
	mustAppend(t, c.AppendGate(stdgates.H(), 0))
	for q := 0; q+1 < n; q++ {
		mustAppend(t, c.AppendGate(stdgates.CX(), q, q+1))
	}
	mustAppend(t, c.MeasureAll())
	return c
}

func mustAppend(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("failed to build circuit: %v", err)
	}
}

// GoldenPath returns testdata/golden/<filename> relative to the test package.
func GoldenPath(filename string) string {
	return filepath.Join("testdata", "golden", filename)
}

// WriteGolden writes data to path, creating parent directories.
func WriteGolden(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write golden file to %s: %v", path, err)
	}
}

// CompareWithGolden compares actual with the golden file at path. A missing
// golden file is created; UpdateGoldenEnv forces a rewrite.
func CompareWithGolden(t testing.TB, path string, actual []byte) {
	t.Helper()

	if os.Getenv(UpdateGoldenEnv) != "" {
		WriteGolden(t, path, actual)
		return
	}

	expected, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Logf("golden file %s does not exist, creating it", path)
		WriteGolden(t, path, actual)
		return
	}
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v", path, err)
	}

	if !bytes.Equal(actual, expected) {
		t.Errorf("output mismatch for %s:\nexpected:\n%s\nactual:\n%s", path, expected, actual)
	}
}

// CompareJSONWithGolden indents v as JSON and compares it with the golden file.
func CompareJSONWithGolden(t testing.TB, path string, v any) {
	t.Helper()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal JSON for golden file %s: %v", path, err)
	}
	CompareWithGolden(t, path, append(data, '\n'))
}
