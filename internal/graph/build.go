package graph

// Build recomputes the derived adjacency of every node: Children from the
// ParentID references and Incoming/Outgoing from the relation endpoints.
// It replaces the previous adjacency entirely and is safe to call
// repeatedly. Relations with a missing endpoint stay in the relation table
// and are left out of the adjacency. A node with a loaded child is never a
// leaf, whatever the store says.
func (g *Graph) Build() {
	for _, id := range g.nodeOrder {
		n := g.nodes[id]
		n.Children = n.Children[:0]
		n.Incoming = n.Incoming[:0]
		n.Outgoing = n.Outgoing[:0]
	}

	for _, id := range g.nodeOrder {
		n := g.nodes[id]
		if parent := g.parentOf(n); parent != nil {
			parent.Children = append(parent.Children, n.ID)
			parent.Leaf = false
		}
	}

	dangling := 0
	for _, id := range g.relOrder {
		r := g.relations[id]
		from, fromOK := g.nodes[r.FromID]
		to, toOK := g.nodes[r.ToID]
		if !fromOK || !toOK {
			dangling++
			g.logger.Debug("skipping dangling relation",
				"relation", r.ID, "from", r.FromID, "to", r.ToID, "type", string(r.Type))
			continue
		}
		from.Outgoing = append(from.Outgoing, r.ID)
		to.Incoming = append(to.Incoming, r.ID)
	}

	g.recorder.RecordBuild(len(g.nodes), len(g.relations), dangling)
}
