package org

import "errors"

var (
	ErrHierarchyCycle    = errors.New("hierarchy cycle detected")
	ErrSalaryRange       = errors.New("salary minimum exceeds maximum")
	ErrHeadcountNegative = errors.New("required headcount cannot be negative")
)

// maxHierarchyDepth bounds parent walks so a corrupted chain cannot spin.
const maxHierarchyDepth = 100

// ValidateParentChange walks the parent chain from newParentID and reports a
// cycle if it reaches id. parentOf maps department id to parent id ("" for
// roots).
func ValidateParentChange(parentOf map[string]string, id, newParentID string) error {
	if newParentID == "" {
		return nil
	}
	if newParentID == id {
		return ErrHierarchyCycle
	}
	current := newParentID
	for hops := 0; current != ""; hops++ {
		if hops > maxHierarchyDepth {
			return ErrHierarchyCycle
		}
		if current == id {
			return ErrHierarchyCycle
		}
		current = parentOf[current]
	}
	return nil
}

// ValidateSalaryRange rejects inverted ranges. Zero/zero means unspecified.
func ValidateSalaryRange(min, max float64) error {
	if min < 0 || max < 0 {
		return ErrSalaryRange
	}
	if max > 0 && min > max {
		return ErrSalaryRange
	}
	return nil
}
