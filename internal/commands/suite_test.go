// internal/commands/suite_test.go
package aquabench

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestIsCanceledMatchesWrappedCancellation(t *testing.T) {
	if !isCanceled(context.Canceled) {
		t.Fatal("bare context.Canceled not matched")
	}
	if !isCanceled(fmt.Errorf("suite aborted: %w", context.Canceled)) {
		t.Fatal("wrapped cancellation not matched")
	}
	if isCanceled(errors.New("device lost")) {
		t.Fatal("unrelated error matched as cancellation")
	}
	if isCanceled(context.DeadlineExceeded) {
		t.Fatal("deadline exceeded is not a cooperative abort")
	}
	if isCanceled(nil) {
		t.Fatal("nil error matched as cancellation")
	}
}

func TestSuiteConfigsMapping(t *testing.T) {
	perf, err := suiteConfigs("perf", true)
	if err != nil {
		t.Fatalf("perf: %v", err)
	}
	quality, err := suiteConfigs("quality", true)
	if err != nil {
		t.Fatalf("quality: %v", err)
	}
	sweep, err := suiteConfigs("sweep", true)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	all, err := suiteConfigs("all", true)
	if err != nil {
		t.Fatalf("all: %v", err)
	}

	if len(all) != len(perf)+len(quality)+len(sweep) {
		t.Fatalf("all should chain every matrix: %d != %d+%d+%d",
			len(all), len(perf), len(quality), len(sweep))
	}

	if _, err := suiteConfigs("bogus", true); err == nil {
		t.Fatal("expected error for unknown matrix")
	}
}
