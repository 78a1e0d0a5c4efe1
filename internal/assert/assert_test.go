package assert

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
)

func TestThat_Passes(t *testing.T) {
	That(true, "should not fail")
}

func TestRecover_Violation(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		That(1 > 2, "expected %d > %d", 1, 2)
		return nil
	}

	err := run()
	if err == nil {
		t.Fatal("expected an error")
	}

	if !IsViolation(err) {
		t.Errorf("expected violation, got %v", err)
	}

	if !IsViolation(errors.Wrap(err, "building game")) {
		t.Errorf("expected wrapped violation to be detected")
	}

	expected := "invariant violation: expected 1 > 2"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestRecover_OtherPanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected non-violation panic to propagate")
		}
	}()

	func() (err error) {
		defer Recover(&err)
		panic(fmt.Errorf("unrelated"))
	}()
}

func TestIsViolation_PlainError(t *testing.T) {
	if IsViolation(errors.New("io failure")) {
		t.Error("plain error reported as violation")
	}
}
