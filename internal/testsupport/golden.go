package testsupport

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// update mirrors the teacher parser package's own -update flag: run
// `go test -update ./...` to (re)write every golden fixture a test calls
// GoldenJSON against, instead of comparing to the fixture on disk.
var update = flag.Bool("update", false, "update golden fixtures")

// GoldenJSON compares actual (already-encoded JSON, e.g. from
// diag.Sink.WriteJSON) against the fixture at testdata/<dir>/<name>.golden.json,
// re-indenting both sides so the comparison (and the file on disk) ignore
// incidental whitespace differences. With -update it writes actual as the
// new fixture instead of comparing.
func GoldenJSON(t *testing.T, dir, name string, actual []byte) {
	t.Helper()

	path := filepath.Join("testdata", dir, name+".golden.json")
	got := reindent(t, actual)

	if *update {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("testsupport: creating golden directory: %v", err)
		}
		if err := os.WriteFile(path, got, 0o644); err != nil {
			t.Fatalf("testsupport: writing golden fixture: %v", err)
		}
		t.Logf("updated golden fixture: %s", path)
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("testsupport: reading golden fixture %s: %v\nrun with -update to create it", path, err)
	}

	if diff := cmp.Diff(string(reindent(t, want)), string(got)); diff != "" {
		t.Errorf("golden fixture mismatch for %s/%s (-want +got):\n%s", dir, name, diff)
	}
}

// reindent re-marshals JSON with sorted, stable formatting so two
// semantically-equal encodings with different whitespace still compare
// equal under cmp.Diff.
func reindent(t *testing.T, data []byte) []byte {
	t.Helper()
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("testsupport: golden content is not valid JSON: %v", err)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("testsupport: re-marshaling golden content: %v", err)
	}
	return out
}
