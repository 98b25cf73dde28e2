package employee

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateManagerChange(t *testing.T) {
	managers := map[string]string{
		"ceo":  "",
		"vp":   "ceo",
		"lead": "vp",
	}

	assert.NoError(t, ValidateManagerChange(managers, "lead", "ceo"))
	assert.NoError(t, ValidateManagerChange(managers, "lead", ""))
}

func TestValidateManagerChangeRejectsSelf(t *testing.T) {
	managers := map[string]string{"vp": ""}
	err := ValidateManagerChange(managers, "vp", "vp")
	assert.ErrorIs(t, err, ErrManagerCycle)
}

func TestValidateManagerChangeRejectsCycle(t *testing.T) {
	managers := map[string]string{
		"ceo":  "",
		"vp":   "ceo",
		"lead": "vp",
	}
	// Reporting the CEO to their own report would close a loop.
	err := ValidateManagerChange(managers, "ceo", "lead")
	assert.ErrorIs(t, err, ErrManagerCycle)
}

func TestManagerChain(t *testing.T) {
	managers := map[string]string{
		"ceo":  "",
		"vp":   "ceo",
		"lead": "vp",
	}

	chain, err := ManagerChain(managers, "lead")
	require.NoError(t, err)
	assert.Equal(t, []string{"vp", "ceo"}, chain)

	chain, err = ManagerChain(managers, "ceo")
	require.NoError(t, err)
	assert.Empty(t, chain)
}

func TestManagerChainDetectsCorruptLoop(t *testing.T) {
	managers := map[string]string{"a": "b", "b": "a"}
	_, err := ManagerChain(managers, "a")
	assert.True(t, errors.Is(err, ErrManagerCycle))
}

func TestBuildOrgChart(t *testing.T) {
	rows := []chartRow{
		{ID: "1", Name: "Ada King", EmployeeNo: "E001", ManagerID: ""},
		{ID: "2", Name: "Ben Ode", EmployeeNo: "E002", ManagerID: "1"},
		{ID: "3", Name: "Ana Diaz", EmployeeNo: "E003", ManagerID: "1"},
		{ID: "4", Name: "Cy Tran", EmployeeNo: "E004", ManagerID: "2"},
	}

	roots := BuildOrgChart(rows)
	require.Len(t, roots, 1)
	require.Len(t, roots[0].Reports, 2)
	// Reports sorted by name.
	assert.Equal(t, "Ana Diaz", roots[0].Reports[0].Name)
	assert.Equal(t, "Ben Ode", roots[0].Reports[1].Name)
	require.Len(t, roots[0].Reports[1].Reports, 1)
	assert.Equal(t, "Cy Tran", roots[0].Reports[1].Reports[0].Name)
}

func TestBuildOrgChartOrphanBecomesRoot(t *testing.T) {
	rows := []chartRow{
		{ID: "2", Name: "Ben Ode", EmployeeNo: "E002", ManagerID: "missing"},
	}
	roots := BuildOrgChart(rows)
	require.Len(t, roots, 1)
	assert.Equal(t, "Ben Ode", roots[0].Name)
}
