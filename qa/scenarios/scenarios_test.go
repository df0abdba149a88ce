package scenarios

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScenarios(t *testing.T) {
	scs, err := LoadDir("testdata")
	if err != nil {
		t.Fatalf("load scenarios: %v", err)
	}
	if len(scs) == 0 {
		t.Fatal("no scenarios found")
	}
	for _, sc := range scs {
		t.Run(sc.Name, func(t *testing.T) {
			RunScenario(t, sc)
		})
	}
}

func TestLoadScenario_Errors(t *testing.T) {
	dir := t.TempDir()

	noName := filepath.Join(dir, "noname.yaml")
	if err := os.WriteFile(noName, []byte("steps:\n  - sample: {speed_kmh: 10, timestamp: 1}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScenario(noName); err == nil {
		t.Error("expected error for missing name")
	}

	noSteps := filepath.Join(dir, "nosteps.yaml")
	if err := os.WriteFile(noSteps, []byte("name: empty\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScenario(noSteps); err == nil {
		t.Error("expected error for empty steps")
	}

	if _, err := LoadScenario(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
