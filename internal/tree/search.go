package tree

// Collect walks n depth-first in pre-order and appends whatever match yields
// for each node. Matched nodes are still descended into.
func Collect(n *Node, match func(*Node) (*Node, bool)) []*Node {
	var found []*Node
	walk(n, func(node *Node) {
		if hit, ok := match(node); ok {
			found = append(found, hit)
		}
	})
	return found
}

func walk(n *Node, visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	if n.Kind == Scalar {
		return
	}
	for _, child := range n.Values {
		walk(child, visit)
	}
}

// CollectByKey returns the value of every mapping anywhere under n that
// contains key, in pre-order.
func CollectByKey(n *Node, key string) []*Node {
	return Collect(n, func(node *Node) (*Node, bool) {
		if node.Kind != Mapping || !node.Has(key) {
			return nil, false
		}
		return node.Get(key), true
	})
}

// CollectByType returns every mapping under n whose `_type._name` equals
// typeName, in pre-order.
func CollectByType(n *Node, typeName string) []*Node {
	return Collect(n, func(node *Node) (*Node, bool) {
		if node.Kind != Mapping {
			return nil, false
		}
		name, ok := node.Path("_type", "_name").Text()
		if !ok || name != typeName {
			return nil, false
		}
		return node, true
	})
}
