package schema

// RelationshipManager is an in-memory index over relationship edges. It keeps
// the ordered edge list alongside per-entity outgoing and incoming indices so
// adjacency queries stay O(1) average plus the cost of the returned copy.
//
// The manager never deduplicates: two identical declarations are two edges.
type RelationshipManager struct {
	edges    []*RelationshipDefinition
	outgoing map[string][]*RelationshipDefinition
	incoming map[string][]*RelationshipDefinition
}

// NewRelationshipManager creates an empty relationship manager.
func NewRelationshipManager() *RelationshipManager {
	return &RelationshipManager{
		outgoing: make(map[string][]*RelationshipDefinition),
		incoming: make(map[string][]*RelationshipDefinition),
	}
}

// AddRelationship appends an edge and updates both indices.
func (m *RelationshipManager) AddRelationship(r *RelationshipDefinition) {
	m.edges = append(m.edges, r)
	m.outgoing[r.FromEntity] = append(m.outgoing[r.FromEntity], r)
	m.incoming[r.ToEntity] = append(m.incoming[r.ToEntity], r)
}

// Len returns the number of edges.
func (m *RelationshipManager) Len() int {
	return len(m.edges)
}

// Edges returns a copy of the ordered edge list.
func (m *RelationshipManager) Edges() []*RelationshipDefinition {
	out := make([]*RelationshipDefinition, len(m.edges))
	copy(out, m.edges)
	return out
}

// Outgoing returns the edges declared on the given entity, in insertion order.
func (m *RelationshipManager) Outgoing(name string) []*RelationshipDefinition {
	rels := m.outgoing[name]
	out := make([]*RelationshipDefinition, len(rels))
	copy(out, rels)
	return out
}

// Incoming returns the edges targeting the given entity, in insertion order.
func (m *RelationshipManager) Incoming(name string) []*RelationshipDefinition {
	rels := m.incoming[name]
	out := make([]*RelationshipDefinition, len(rels))
	copy(out, rels)
	return out
}

// RelationshipsFor returns every edge touching the entity: outgoing first,
// then incoming, each group in insertion order.
func (m *RelationshipManager) RelationshipsFor(name string) []*RelationshipDefinition {
	out := make([]*RelationshipDefinition, 0, len(m.outgoing[name])+len(m.incoming[name]))
	out = append(out, m.outgoing[name]...)
	out = append(out, m.incoming[name]...)
	return out
}

// CascadeCycles returns every cycle reachable through cascade-delete edges.
// A cycle means a delete can fan out back to its origin, which is worth
// surfacing even though the schema remains structurally valid.
func (m *RelationshipManager) CascadeCycles() [][]string {
	adjacency := make(map[string][]string)
	for _, r := range m.edges {
		if r.CascadeDelete {
			adjacency[r.FromEntity] = append(adjacency[r.FromEntity], r.ToEntity)
		}
	}

	var cycles [][]string
	visited := make(map[string]bool)
	inStack := make(map[string]bool)

	var dfs func(node string, path []string) bool
	dfs = func(node string, path []string) bool {
		visited[node] = true
		inStack[node] = true
		path = append(path, node)

		for _, next := range adjacency[node] {
			if !visited[next] {
				if dfs(next, path) {
					return true
				}
			} else if inStack[next] {
				start := -1
				for i, n := range path {
					if n == next {
						start = i
						break
					}
				}
				if start >= 0 {
					cycle := make([]string, len(path)-start)
					copy(cycle, path[start:])
					cycles = append(cycles, cycle)
				}
				return true
			}
		}

		inStack[node] = false
		return false
	}

	// Deterministic traversal order: follow edge insertion order.
	for _, r := range m.edges {
		if r.CascadeDelete && !visited[r.FromEntity] {
			dfs(r.FromEntity, []string{})
		}
	}

	return cycles
}
