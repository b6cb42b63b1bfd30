package portodash

import (
	"os"
	"testing"
)

// CAD is a helper for tests to create reporting-currency money from const
func CAD(v float64) Money { return M(v, "CAD") }

// USD is a helper for tests to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

func writeFileOrFatal(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("cannot write %q: %v", path, err)
	}
}
