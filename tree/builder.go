package tree

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/lingchunkai/SafeSearchSSE/game"
	"github.com/lingchunkai/SafeSearchSSE/internal/assert"
	"github.com/lingchunkai/SafeSearchSSE/treeplex"
)

// Chance probabilities at a node must sum to one within this tolerance.
const chanceTolerance = 1e-9

// DefaultMaxDepth bounds the number of nodes on any root-to-leaf path.
// A tree that is deeper is assumed to contain a cycle.
const DefaultMaxDepth = 1 << 16

// seqKey identifies a sequence during traversal by the discovery index of
// its infoset and the action taken there. The empty sequence is emptySeq.
type seqKey struct {
	infoset, action int
}

var emptySeq = seqKey{-1, -1}

// playerTreeplex accumulates one player's infosets in discovery order.
type playerTreeplex struct {
	player game.Player

	infosets    map[string]int
	keys        []string
	parents     []seqKey
	numActions  []int
	actionNames [][]string
	subgames    []game.SubgameID

	// Child infosets of each sequence, in discovery order.
	children map[seqKey][]int
}

func newPlayerTreeplex(player game.Player) *playerTreeplex {
	return &playerTreeplex{
		player:   player,
		infosets: make(map[string]int),
		children: make(map[seqKey][]int),
	}
}

// visit records the infoset of a player node reached after parent and
// returns its discovery index.
func (pt *playerTreeplex) visit(node GameTreeNode, key string, parent seqKey, subgame game.SubgameID) int {
	n := node.NumChildren()
	if i, ok := pt.infosets[key]; ok {
		assert.That(pt.subgames[i] == subgame,
			"%v infoset %q found in both %v and %v", pt.player, key, pt.subgames[i], subgame)
		assert.That(pt.parents[i] == parent,
			"%v infoset %q reached after different sequences of its own player", pt.player, key)
		assert.That(pt.numActions[i] == n,
			"%v infoset %q has both %d and %d actions", pt.player, key, pt.numActions[i], n)
		return i
	}

	assert.That(n > 0, "%v infoset %q has no actions", pt.player, key)
	i := len(pt.keys)
	pt.infosets[key] = i
	pt.keys = append(pt.keys, key)
	pt.parents = append(pt.parents, parent)
	pt.numActions = append(pt.numActions, n)
	pt.subgames = append(pt.subgames, subgame)
	pt.children[parent] = append(pt.children[parent], i)

	names := make([]string, n)
	namer, _ := node.(ActionNamer)
	for a := range names {
		if namer != nil {
			names[a] = namer.ActionName(a)
		}
	}
	pt.actionNames = append(pt.actionNames, names)

	return i
}

// numbering is the final layout of one player's treeplex.
type numbering struct {
	infosetIDs map[int]int
	seqIDs     map[seqKey]int
	infosets   []treeplex.Infoset
	subgames   []game.SubgameID
}

// numberingItem is pending work while numbering: either the child
// infosets of a sequence or the sequences of an infoset.
type numberingItem struct {
	infoset bool
	seq     seqKey
	id      int
	parent  int
}

// renumber assigns ids top down, in discovery order: each sequence numbers
// all of its child infosets before expanding the first of them, and each
// infoset numbers all of its sequences before expanding the first of them.
// Both numberings are then inverted, which puts every infoset before the
// infoset owning its parent and the empty sequence last.
func (pt *playerTreeplex) renumber() *numbering {
	n := &numbering{
		infosetIDs: make(map[int]int, len(pt.keys)),
		seqIDs:     map[seqKey]int{emptySeq: 0},
		infosets:   make([]treeplex.Infoset, len(pt.keys)),
		subgames:   make([]game.SubgameID, len(pt.keys)),
	}

	stack := []numberingItem{{seq: emptySeq}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if item.infoset {
			stack = pt.expandInfoset(stack, n, item.id, item.parent)
		} else {
			stack = pt.expandSequence(stack, n, item.seq)
		}
	}
	assert.That(len(n.infosetIDs) == len(pt.keys),
		"%v has %d infosets unreachable from the root", pt.player, len(pt.keys)-len(n.infosetIDs))

	numInfosets, numSeqs := len(pt.keys), len(n.seqIDs)
	for i, id := range n.infosetIDs {
		n.infosetIDs[i] = numInfosets - id - 1
	}
	for s, id := range n.seqIDs {
		n.seqIDs[s] = numSeqs - id - 1
	}

	infosets := make([]treeplex.Infoset, numInfosets)
	subgames := make([]game.SubgameID, numInfosets)
	for id, is := range n.infosets {
		infosets[numInfosets-id-1] = treeplex.Infoset{
			ParentSequence: numSeqs - is.ParentSequence - 1,
			StartSequence:  numSeqs - is.EndSequence - 1,
			EndSequence:    numSeqs - is.StartSequence - 1,
		}
		subgames[numInfosets-id-1] = n.subgames[id]
	}
	n.infosets = infosets
	n.subgames = subgames

	return n
}

// expandSequence numbers the child infosets of seq and queues them so that
// the first child is expanded first.
func (pt *playerTreeplex) expandSequence(stack []numberingItem, n *numbering, seq seqKey) []numberingItem {
	children := pt.children[seq]
	for _, i := range children {
		_, seen := n.infosetIDs[i]
		assert.That(!seen, "%v infoset %q reached twice while numbering: loop detected", pt.player, pt.keys[i])
		n.infosetIDs[i] = len(n.infosetIDs)
	}

	parent := n.seqIDs[seq]
	for c := len(children) - 1; c >= 0; c-- {
		stack = append(stack, numberingItem{infoset: true, id: children[c], parent: parent})
	}

	return stack
}

func (pt *playerTreeplex) expandInfoset(stack []numberingItem, n *numbering, i, parent int) []numberingItem {
	start := len(n.seqIDs)
	for a := 0; a < pt.numActions[i]; a++ {
		n.seqIDs[seqKey{i, a}] = len(n.seqIDs)
	}
	end := len(n.seqIDs) - 1

	id := n.infosetIDs[i]
	n.infosets[id] = treeplex.Infoset{ParentSequence: parent, StartSequence: start, EndSequence: end}
	n.subgames[id] = pt.subgames[i]

	for a := pt.numActions[i] - 1; a >= 0; a-- {
		stack = append(stack, numberingItem{seq: seqKey{i, a}})
	}

	return stack
}

type leafInfo struct {
	seqPl1, seqPl2 seqKey
	chance         float64
	payoffPl1      float64
	payoffPl2      float64
}

// frame is the traversal state on the way to a node.
type frame struct {
	node           GameTreeNode
	seqPl1, seqPl2 seqKey
	chance         float64
	subgame        game.SubgameID
	depth          int
}

// Builder converts a game tree into an ExtensiveFormGame.
type Builder struct {
	// Paths longer than this many nodes fail the build. Zero or negative
	// disables the check.
	MaxDepth int

	players  [2]*playerTreeplex
	leaves   []leafInfo
	subgames map[string]game.SubgameID
}

// NewBuilder returns an empty Builder. A Builder may only be used once.
func NewBuilder() *Builder {
	return &Builder{
		players: [2]*playerTreeplex{
			newPlayerTreeplex(game.Player1),
			newPlayerTreeplex(game.Player2),
		},
		subgames: make(map[string]game.SubgameID),
		MaxDepth: DefaultMaxDepth,
	}
}

// Build walks the tree under root and returns the corresponding game.
// The root itself is never part of a subgame.
func (b *Builder) Build(root GameTreeNode) (*game.ExtensiveFormGame, error) {
	g, _, err := b.build(root, false)
	return g, err
}

// BuildWithAnnotations is like Build but also describes the infosets and
// sequences of the result.
func (b *Builder) BuildWithAnnotations(root GameTreeNode) (*game.ExtensiveFormGame, *Annotations, error) {
	return b.build(root, true)
}

func (b *Builder) build(root GameTreeNode, annotate bool) (g *game.ExtensiveFormGame, ann *Annotations, err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "building game")
		}
	}()
	defer assert.Recover(&err)

	b.traverse(root)

	var numberings [2]*numbering
	var tps [2]*treeplex.Treeplex
	for p, pt := range b.players {
		numberings[p] = pt.renumber()
		tps[p] = treeplex.New(pt.player, len(numberings[p].seqIDs), numberings[p].infosets)
	}

	entries := make([]game.Entry, len(b.leaves))
	for i, leaf := range b.leaves {
		entries[i] = game.Entry{
			SeqPl1:       numberings[game.Player1].seqIDs[leaf.seqPl1],
			SeqPl2:       numberings[game.Player2].seqIDs[leaf.seqPl2],
			ChanceFactor: leaf.chance,
			PayoffPl1:    leaf.payoffPl1,
			PayoffPl2:    leaf.payoffPl2,
		}
	}

	g = game.New(tps[game.Player1], tps[game.Player2], game.NewPayoffMatrix(entries),
		numberings[game.Player1].subgames, numberings[game.Player2].subgames)
	g.Validate()
	glog.V(1).Infof("Built %v from %d leaves", g, len(b.leaves))

	if annotate {
		ann = newAnnotations(b.players, numberings)
	}

	return g, ann, nil
}

// traverse walks the tree depth first with an explicit stack. Children
// are pushed in action order, so the last action is explored first.
func (b *Builder) traverse(root GameTreeNode) {
	stack := []frame{{node: root, seqPl1: emptySeq, seqPl2: emptySeq, chance: 1, subgame: game.Free}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if b.MaxDepth > 0 && f.depth >= b.MaxDepth {
			assert.Failf("game tree deeper than %d nodes, possibly cyclic", b.MaxDepth)
		}

		switch f.node.Type() {
		case TerminalNode:
			b.leaves = append(b.leaves, leafInfo{
				seqPl1:    f.seqPl1,
				seqPl2:    f.seqPl2,
				chance:    f.chance,
				payoffPl1: f.node.Utility(0),
				payoffPl2: f.node.Utility(1),
			})
		case ChanceNode:
			stack = b.expandChance(stack, f)
		case PlayerNode:
			stack = b.expandPlayer(stack, f)
		default:
			assert.Failf("unknown node type %d", f.node.Type())
		}

		f.node.Close()
	}
}

func (b *Builder) expandChance(stack []frame, f frame) []frame {
	n := f.node.NumChildren()
	assert.That(n > 0, "chance node without children")

	var total float64
	for i := 0; i < n; i++ {
		p := f.node.GetChildProbability(i)
		assert.That(p >= 0, "chance outcome %d has probability %v", i, p)
		total += p
	}
	assert.That(scalar.EqualWithinAbsOrRel(total, 1, chanceTolerance, chanceTolerance),
		"chance probabilities sum to %v", total)

	for i := 0; i < n; i++ {
		child := f.node.GetChild(i)
		next := f
		next.node = child
		next.chance = f.chance * f.node.GetChildProbability(i)
		next.subgame = b.childSubgame(child, f.subgame)
		next.depth = f.depth + 1
		stack = append(stack, next)
	}

	return stack
}

func (b *Builder) expandPlayer(stack []frame, f frame) []frame {
	player := f.node.Player()
	assert.That(player == 0 || player == 1, "unknown player %d", player)

	pt := b.players[player]
	parent := f.seqPl1
	if player == 1 {
		parent = f.seqPl2
	}

	key := f.node.InfoSet(player).Key()
	i := pt.visit(f.node, key, parent, f.subgame)

	for a := 0; a < f.node.NumChildren(); a++ {
		child := f.node.GetChild(a)
		next := f
		next.node = child
		if player == 0 {
			next.seqPl1 = seqKey{i, a}
		} else {
			next.seqPl2 = seqKey{i, a}
		}
		next.subgame = b.childSubgame(child, f.subgame)
		next.depth = f.depth + 1
		stack = append(stack, next)
	}

	return stack
}

// childSubgame returns the subgame of a child of a node in subgame parent.
// Terminal nodes stay in their parent's subgame. A node may leave the free
// part of the tree for a subgame but never leave or switch subgames.
func (b *Builder) childSubgame(child GameTreeNode, parent game.SubgameID) game.SubgameID {
	if child.Type() == TerminalNode {
		return parent
	}

	var key string
	var ok bool
	if sn, isSubgameNode := child.(SubgameNode); isSubgameNode {
		key, ok = sn.Subgame()
	}

	if !ok {
		assert.That(parent.IsFree(), "node outside any subgame has a parent in %v", parent)
		return game.Free
	}

	id, seen := b.subgames[key]
	if !parent.IsFree() {
		assert.That(seen && id == parent, "node in subgame %q has a parent in %v", key, parent)
		return parent
	}

	if !seen {
		id = game.Subgame(len(b.subgames))
		b.subgames[key] = id
	}

	return id
}
