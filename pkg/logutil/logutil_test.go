package logutil

import (
	"strings"
	"testing"
)

func TestLoggersFollowOutput(t *testing.T) {
	logger := GetLogger("[test] ")

	var sb strings.Builder
	SetOutput(&sb)
	defer SetOutputFile("")

	logger.Println("hello")
	if got := sb.String(); !strings.Contains(got, "[test] ") || !strings.Contains(got, "hello") {
		t.Errorf("log output = %q", got)
	}

	// A logger obtained after SetOutput writes to the same place.
	later := GetLogger("[later] ")
	later.Println("again")
	if !strings.Contains(sb.String(), "[later] ") {
		t.Error("later logger did not follow the shared output")
	}
}
