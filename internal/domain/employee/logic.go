package employee

import (
	"errors"
	"sort"
)

var ErrManagerCycle = errors.New("manager chain cycle detected")

// maxChainDepth bounds manager walks; no real organization is deeper.
const maxChainDepth = 100

// ValidateManagerChange checks that setting managerID on employee id keeps
// the reporting structure a forest. managerOf maps employee id to manager id
// ("" when none).
func ValidateManagerChange(managerOf map[string]string, id, managerID string) error {
	if managerID == "" {
		return nil
	}
	if managerID == id {
		return ErrManagerCycle
	}
	current := managerID
	for hops := 0; current != ""; hops++ {
		if hops > maxChainDepth {
			return ErrManagerCycle
		}
		if current == id {
			return ErrManagerCycle
		}
		current = managerOf[current]
	}
	return nil
}

// ManagerChain returns the ids from the employee's manager up to the root.
func ManagerChain(managerOf map[string]string, id string) ([]string, error) {
	var chain []string
	current := managerOf[id]
	for hops := 0; current != ""; hops++ {
		if hops > maxChainDepth {
			return nil, ErrManagerCycle
		}
		chain = append(chain, current)
		current = managerOf[current]
	}
	return chain, nil
}

type chartRow struct {
	ID         string
	Name       string
	EmployeeNo string
	ManagerID  string
}

// BuildOrgChart assembles reporting trees from flat adjacency rows. Roots
// (no manager, or manager outside the set) are returned sorted by name.
func BuildOrgChart(rows []chartRow) []*OrgChartNode {
	nodes := make(map[string]*OrgChartNode, len(rows))
	for _, row := range rows {
		nodes[row.ID] = &OrgChartNode{ID: row.ID, Name: row.Name, EmployeeNo: row.EmployeeNo}
	}

	var roots []*OrgChartNode
	for _, row := range rows {
		node := nodes[row.ID]
		parent, ok := nodes[row.ManagerID]
		if row.ManagerID == "" || !ok {
			roots = append(roots, node)
			continue
		}
		parent.Reports = append(parent.Reports, node)
	}

	var sortReports func(list []*OrgChartNode)
	sortReports = func(list []*OrgChartNode) {
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
		for _, node := range list {
			sortReports(node.Reports)
		}
	}
	sortReports(roots)
	return roots
}
