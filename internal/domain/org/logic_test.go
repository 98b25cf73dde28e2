package org

import (
	"errors"
	"testing"
)

func TestValidateParentChange(t *testing.T) {
	parents := map[string]string{
		"root":  "",
		"eng":   "root",
		"infra": "eng",
	}

	if err := ValidateParentChange(parents, "infra", "root"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateParentChange(parents, "infra", ""); err != nil {
		t.Fatalf("unexpected error for detach: %v", err)
	}
}

func TestValidateParentChangeRejectsSelf(t *testing.T) {
	parents := map[string]string{"eng": ""}
	if err := ValidateParentChange(parents, "eng", "eng"); !errors.Is(err, ErrHierarchyCycle) {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestValidateParentChangeRejectsCycle(t *testing.T) {
	parents := map[string]string{
		"root":  "",
		"eng":   "root",
		"infra": "eng",
	}
	// Moving root under its grandchild would close a loop.
	if err := ValidateParentChange(parents, "root", "infra"); !errors.Is(err, ErrHierarchyCycle) {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestValidateSalaryRange(t *testing.T) {
	if err := ValidateSalaryRange(30000, 50000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateSalaryRange(0, 0); err != nil {
		t.Fatalf("unexpected error for unspecified range: %v", err)
	}
	if err := ValidateSalaryRange(60000, 50000); !errors.Is(err, ErrSalaryRange) {
		t.Fatalf("expected salary range error, got %v", err)
	}
	if err := ValidateSalaryRange(-1, 10); !errors.Is(err, ErrSalaryRange) {
		t.Fatalf("expected salary range error for negative, got %v", err)
	}
}
