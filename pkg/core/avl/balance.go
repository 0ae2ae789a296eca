package avl

// =============================================================================
// Structural helpers
// =============================================================================

func height[T any](n *node[T]) int {
	if n == nil {
		return 0
	}
	return n.height
}

func (n *node[T]) fix() {
	n.height = 1 + max(height(n.left), height(n.right))
}

func (n *node[T]) balance() int {
	return height(n.left) - height(n.right)
}

func rotateRight[T any](n *node[T]) *node[T] {
	l := n.left
	n.left = l.right
	l.right = n
	n.fix()
	l.fix()
	return l
}

func rotateLeft[T any](n *node[T]) *node[T] {
	r := n.right
	n.right = r.left
	r.left = n
	n.fix()
	r.fix()
	return r
}

// rebalance restores the AVL property at n and returns the new subtree root.
func rebalance[T any](n *node[T]) *node[T] {
	n.fix()
	switch b := n.balance(); {
	case b > 1:
		if n.left.balance() < 0 {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	case b < -1:
		if n.right.balance() > 0 {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	}
	return n
}

// replaceChild swaps old for repl below parent, or at the root when parent is nil.
func (t *Tree[T]) replaceChild(parent, old, repl *node[T]) {
	switch {
	case parent == nil:
		t.root = repl
	case parent.left == old:
		parent.left = repl
	default:
		parent.right = repl
	}
}

// rebalancePath walks path bottom-up, rebalancing every node on it.
func (t *Tree[T]) rebalancePath(path []*node[T]) {
	for i := len(path) - 1; i >= 0; i-- {
		n := path[i]
		sub := rebalance(n)
		if sub == n {
			continue
		}
		var parent *node[T]
		if i > 0 {
			parent = path[i-1]
		}
		t.replaceChild(parent, n, sub)
	}
}

// deleteAt unlinks the last node of path, which must run from the root.
func (t *Tree[T]) deleteAt(path []*node[T]) {
	n := path[len(path)-1]
	if n.left != nil && n.right != nil {
		// Pull the in-order successor into n and unlink the successor instead.
		succ := n.right
		path = append(path, succ)
		for succ.left != nil {
			succ = succ.left
			path = append(path, succ)
		}
		n.item = succ.item
		n = succ
	}

	child := n.left
	if child == nil {
		child = n.right
	}
	var parent *node[T]
	if len(path) > 1 {
		parent = path[len(path)-2]
	}
	t.replaceChild(parent, n, child)
	t.size--
	t.rebalancePath(path[:len(path)-1])
}

// findPath returns the root path of the first node, in pre-order, whose item
// satisfies match; nil when none does.
func (t *Tree[T]) findPath(match func(T) bool) []*node[T] {
	if t.root == nil {
		return nil
	}
	parent := map[*node[T]]*node[T]{t.root: nil}
	stack := []*node[T]{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if match(n.item) {
			var rev []*node[T]
			for p := n; p != nil; p = parent[p] {
				rev = append(rev, p)
			}
			path := make([]*node[T], len(rev))
			for i, p := range rev {
				path[len(rev)-1-i] = p
			}
			return path
		}
		for _, c := range []*node[T]{n.right, n.left} {
			if c != nil {
				parent[c] = n
				stack = append(stack, c)
			}
		}
	}
	return nil
}
