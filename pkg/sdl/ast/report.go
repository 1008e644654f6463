package ast

// Report is one node of the diagnostic report tree built from an evaluated
// scenario expression. Procedure leaves carry their resolved name and the
// boolean result of the last evaluation; logical combinators carry their
// children in declaration order.
//
// A report without a name is a bare grouping node; consumers that render
// flat condition lists splice its children into the enclosing level.
type Report struct {
	Name     string   `json:"Name,omitempty"`
	Value    bool     `json:"Value"`
	Children []Report `json:"Children,omitempty"`
}

// Leaf returns a named leaf report.
func Leaf(name string, value bool) Report {
	return Report{Name: name, Value: value}
}

// Group returns an unnamed grouping report over the given children.
func Group(children []Report) Report {
	return Report{Children: children}
}

// IsLeaf returns true if the report has no children.
func (r Report) IsLeaf() bool {
	return len(r.Children) == 0
}

// Flatten returns the report's named leaves in declaration order,
// descending through grouping nodes.
func (r Report) Flatten() []Report {
	if r.IsLeaf() {
		if r.Name == "" {
			return nil
		}
		return []Report{r}
	}

	var leaves []Report
	for _, child := range r.Children {
		leaves = append(leaves, child.Flatten()...)
	}
	return leaves
}
