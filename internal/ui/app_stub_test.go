//go:build !fyne

package ui

import (
	"strings"
	"testing"
)

func TestStubRunExplainsBuildTag(t *testing.T) {
	err := Run("")
	if err == nil {
		t.Fatalf("headless build must refuse to run the UI")
	}
	if !strings.Contains(err.Error(), "-tags fyne") {
		t.Fatalf("error should point at the build tag: %v", err)
	}
}
