package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// execute runs the root command with args and returns captured stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// writeScenario drops a scenario file into a temp dir and returns its path.
func writeScenario(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	return path
}

const passingScenario = `
name: passing
suites:
  - name: math
    cases:
      - name: adds
        checks:
          - kind: equal
            subject: 4
            expected: 4
`

const failingScenario = `
name: failing
suites:
  - name: math
    cases:
      - name: compares
        checks:
          - kind: equal
            subject: 41
            expected: 42
`
