// internal/core/domain/target_test.go
package domain

import (
	"testing"

	"icpharvest/internal/testutil"
)

func TestNewTarget(t *testing.T) {
	target := NewTarget("  example.com \t")

	testutil.AssertEqual(t, target.String(), "example.com", "trimmed target")
	testutil.AssertNoError(t, target.Validate(), "non-empty target should validate")
}

func TestTarget_Validate(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		shouldError bool
	}{
		{name: "domain", raw: "example.com", shouldError: false},
		{name: "company name with spaces", raw: "Example Tech Co Ltd", shouldError: false},
		{name: "non-ascii", raw: "示例科技", shouldError: false},
		{name: "empty", raw: "", shouldError: true},
		{name: "whitespace only", raw: "   ", shouldError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Target(tt.raw).Validate()
			if tt.shouldError {
				testutil.AssertError(t, err, "validate")
			} else {
				testutil.AssertNoError(t, err, "validate")
			}
		})
	}
}

func TestParseTargets(t *testing.T) {
	lines := []string{"b.example.com", "", "   ", " a.example.com ", "\t", "c.example.com"}

	targets := ParseTargets(lines)

	testutil.AssertEqual(t, len(targets), 3, "blank lines ignored")
	testutil.AssertEqual(t, targets[0], Target("b.example.com"), "first keeps file order")
	testutil.AssertEqual(t, targets[1], Target("a.example.com"), "second trimmed")
	testutil.AssertEqual(t, targets[2], Target("c.example.com"), "third")
}
