package tree

// Predicate reports whether n matches. i is n's index among siblings.
type Predicate func(n *Node, i int, siblings []*Node) bool

// Find returns every node matching pred, in pre-order.
func Find(nodes []*Node, pred Predicate) []*Node {
	var out []*Node
	find(nodes, pred, func(n *Node) bool {
		out = append(out, n)
		return true
	})
	return out
}

// FindOne returns the first node in pre-order matching pred, or nil.
func FindOne(nodes []*Node, pred Predicate) *Node {
	var hit *Node
	find(nodes, pred, func(n *Node) bool {
		hit = n
		return false
	})
	return hit
}

func find(nodes []*Node, pred Predicate, yield func(*Node) bool) bool {
	for i, n := range nodes {
		if pred(n, i, nodes) && !yield(n) {
			return false
		}
		if !find(n.Children, pred, yield) {
			return false
		}
	}
	return true
}

// Walk visits nodes in pre-order until fn returns false.
func Walk(nodes []*Node, fn func(*Node) bool) {
	walk(nodes, fn)
}

func walk(nodes []*Node, fn func(*Node) bool) bool {
	for _, n := range nodes {
		if !fn(n) || !walk(n.Children, fn) {
			return false
		}
	}
	return true
}

// Flatten lists the forest in pre-order.
func Flatten(nodes []*Node) []*Node {
	var out []*Node
	Walk(nodes, func(n *Node) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Count returns the number of nodes in the forest.
func Count(nodes []*Node) int {
	c := 0
	Walk(nodes, func(*Node) bool {
		c++
		return true
	})
	return c
}
