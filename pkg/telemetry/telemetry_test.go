package telemetry

import (
	"context"
	"testing"
)

func TestSetup_Disabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), "splitledger", "")
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}
}

func TestSetup_Enabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), "splitledger", "http://127.0.0.1:4318/v1/traces")
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	// Nothing was exported, so shutdown has nothing to flush.
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}
}
