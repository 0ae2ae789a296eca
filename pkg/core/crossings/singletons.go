package crossings

// attachSingletons adds every isolated node to the crossing at its
// location. An isolated node away from known crossings opens a new one with
// the edges passing through it; prune drops it again when nothing else is
// there.
func attachSingletons(s *scene, c *collector) {
	for _, n := range s.d.Isolated() {
		p := n.Pos()
		r, ok := c.findPoint(p)
		if !ok {
			r = c.addPoint(p)
			for _, e := range s.infos {
				if e.segment().Contains(s.tol, p) {
					r.add(e.edge)
				}
			}
		}
		r.sing[n.ID] = struct{}{}
	}
}
