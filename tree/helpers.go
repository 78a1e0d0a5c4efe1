package tree

// IsTerminal returns true if this node is an end-game node.
func IsTerminal(node GameTreeNode) bool {
	return node.Type() == TerminalNode
}

// Visit calls visitor on every node under root in depth-first pre-order.
func Visit(root GameTreeNode, visitor func(node GameTreeNode)) {
	stack := []GameTreeNode{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visitor(node)

		// Pushed in reverse so child 0 is visited first.
		for i := node.NumChildren() - 1; i >= 0; i-- {
			stack = append(stack, node.GetChild(i))
		}
	}
}

func VisitInfoSets(root GameTreeNode, visitor func(player int, infoSet InfoSet)) {
	type playerKey struct {
		player int
		key    string
	}

	seen := make(map[playerKey]struct{})
	Visit(root, func(node GameTreeNode) {
		if node.Type() == PlayerNode {
			player := node.Player()
			infoSet := node.InfoSet(player)
			key := playerKey{player, infoSet.Key()}
			if _, ok := seen[key]; ok {
				return
			}

			visitor(player, infoSet)
			seen[key] = struct{}{}
		}
	})
}

func CountTerminalNodes(root GameTreeNode) int {
	total := 0
	Visit(root, func(node GameTreeNode) {
		if IsTerminal(node) {
			total++
		}
	})

	return total
}

func CountNodes(root GameTreeNode) int {
	total := 0
	Visit(root, func(node GameTreeNode) { total++ })
	return total
}

func CountInfoSets(root GameTreeNode) int {
	total := 0
	VisitInfoSets(root, func(player int, infoSet InfoSet) { total++ })
	return total
}

// CountSubgames returns the number of distinct subgame keys in the tree.
func CountSubgames(root GameTreeNode) int {
	seen := make(map[string]struct{})
	Visit(root, func(node GameTreeNode) {
		if sn, ok := node.(SubgameNode); ok {
			if key, ok := sn.Subgame(); ok {
				seen[key] = struct{}{}
			}
		}
	})

	return len(seen)
}
