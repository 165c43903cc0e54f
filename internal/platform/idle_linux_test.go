package platform

import (
	"testing"
	"time"
)

func TestParseIdleMillis(t *testing.T) {
	got, err := parseIdleMillis(" 1500\n")
	if err != nil {
		t.Fatalf("parseIdleMillis: %v", err)
	}
	if got != 1500*time.Millisecond {
		t.Fatalf("idle = %v, want 1.5s", got)
	}
	if got, _ := parseIdleMillis("-4"); got != 0 {
		t.Fatalf("negative idle = %v, want 0", got)
	}
	if _, err := parseIdleMillis("soon"); err == nil {
		t.Fatal("expected parse error")
	}
}
