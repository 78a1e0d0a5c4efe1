// Package synthetic generates random two-stage games: a normal-form main
// game, a chance transition into one of several subgames that depends on
// the leader's main action, and a normal-form subgame.
//
// Inside a subgame both players know the main actions and the subgame
// index. The leader moves first in each stage and the follower moves
// without seeing the leader's action of that stage.
package synthetic

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/pkg/errors"

	"github.com/lingchunkai/SafeSearchSSE/tree"
)

// Config describes the shape of a synthetic game.
type Config struct {
	NumSubgames int `yaml:"num_subgames"`
	// Number of leader and follower actions.
	MainGameSize [2]int `yaml:"main_game_size"`
	SubgameSize  [2]int `yaml:"subgame_size"`
	// How much the leader's main action shifts the transition away from
	// uniform, in [0, 1].
	Influence float64 `yaml:"influence"`
	// Payoffs are drawn uniformly from these ranges.
	MainPayoffRange    [2]float64 `yaml:"main_payoff_range"`
	SubgamePayoffRange [2]float64 `yaml:"subgame_payoff_range"`
	// If false the whole game below the root forms a single subgame.
	SpecifySubgames bool `yaml:"specify_subgames"`
}

// DefaultConfig returns a small game with two subgames.
func DefaultConfig() Config {
	return Config{
		NumSubgames:        2,
		MainGameSize:       [2]int{2, 2},
		SubgameSize:        [2]int{2, 2},
		Influence:          0.5,
		MainPayoffRange:    [2]float64{0, 1},
		SubgamePayoffRange: [2]float64{0, 1},
		SpecifySubgames:    true,
	}
}

func (c Config) validate() error {
	if c.NumSubgames < 1 {
		return errors.Errorf("need at least one subgame, got %d", c.NumSubgames)
	}

	for _, size := range [][2]int{c.MainGameSize, c.SubgameSize} {
		if size[0] < 1 || size[1] < 1 {
			return errors.Errorf("invalid game size %v", size)
		}
	}

	if c.Influence < 0 || c.Influence > 1 {
		return errors.Errorf("influence %v outside [0, 1]", c.Influence)
	}

	for _, r := range [][2]float64{c.MainPayoffRange, c.SubgamePayoffRange} {
		if r[0] > r[1] {
			return errors.Errorf("invalid payoff range %v", r)
		}
	}

	return nil
}

// Game holds the randomly drawn payoffs and transitions.
type Game struct {
	config Config

	// mainPayoffs[player][a1][a2]
	mainPayoffs [2][][]float64
	// subgamePayoffs[player][subgame][b1][b2]
	subgamePayoffs [2][][][]float64
	// transition[a1][subgame] sums to one over subgames.
	transition [][]float64
}

// New draws a game from config using the given seed.
func New(config Config, seed int64) (*Game, error) {
	if err := config.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid synthetic game config")
	}

	rng := rand.New(rand.NewSource(seed))
	g := &Game{config: config}
	for p := range g.mainPayoffs {
		g.mainPayoffs[p] = randomMatrix(rng, config.MainGameSize, config.MainPayoffRange)
	}
	for p := range g.subgamePayoffs {
		g.subgamePayoffs[p] = make([][][]float64, config.NumSubgames)
		for k := range g.subgamePayoffs[p] {
			g.subgamePayoffs[p][k] = randomMatrix(rng, config.SubgameSize, config.SubgamePayoffRange)
		}
	}

	uniform := 1.0 / float64(config.NumSubgames)
	g.transition = make([][]float64, config.MainGameSize[0])
	for a1 := range g.transition {
		row := make([]float64, config.NumSubgames)
		var total float64
		for k := range row {
			row[k] = rng.Float64()
			total += row[k]
		}
		for k := range row {
			row[k] = row[k]/total*config.Influence + uniform*(1-config.Influence)
		}
		g.transition[a1] = row
	}

	return g, nil
}

func randomMatrix(rng *rand.Rand, size [2]int, r [2]float64) [][]float64 {
	m := make([][]float64, size[0])
	for i := range m {
		m[i] = make([]float64, size[1])
		for j := range m[i] {
			m[i][j] = r[0] + rng.Float64()*(r[1]-r[0])
		}
	}

	return m
}

// Config returns the configuration the game was drawn from.
func (g *Game) Config() Config {
	return g.config
}

// MainPayoffs returns the main game payoffs of player p, by leader and
// follower action.
func (g *Game) MainPayoffs(p int) [][]float64 {
	return g.mainPayoffs[p]
}

// Transition returns the probability of each subgame after the leader's
// main action a1.
func (g *Game) Transition(a1 int) []float64 {
	return g.transition[a1]
}

// Root returns the root of the game tree.
func (g *Game) Root() *Node {
	return &Node{game: g, player: 0, subgame: noSubgame}
}

const (
	chance    = -1
	noSubgame = -1
	// Key of the single subgame when subgames are not specified.
	wholeGame = "all"
)

// Node implements tree.GameTreeNode for synthetic games.
type Node struct {
	game *Game

	player   int
	terminal bool
	subgame  int

	// Actions of the main game and of the subgame.
	p1m1, p2m1 int
	p1m2, p2m2 int

	children      []Node
	probabilities []float64
}

// String implements fmt.Stringer.
func (n *Node) String() string {
	return fmt.Sprintf("Player %d's turn. Main: (%d, %d), subgame %d: (%d, %d)",
		n.player, n.p1m1, n.p2m1, n.subgame, n.p1m2, n.p2m2)
}

// Type implements tree.GameTreeNode.
func (n *Node) Type() tree.NodeType {
	if n.terminal {
		return tree.TerminalNode
	} else if n.player == chance {
		return tree.ChanceNode
	}

	return tree.PlayerNode
}

// Close implements tree.GameTreeNode.
func (n *Node) Close() {
	n.children = nil
	n.probabilities = nil
}

// NumChildren implements tree.GameTreeNode.
func (n *Node) NumChildren() int {
	if n.children == nil {
		n.buildChildren()
	}

	return len(n.children)
}

// GetChild implements tree.GameTreeNode.
func (n *Node) GetChild(i int) tree.GameTreeNode {
	if n.children == nil {
		n.buildChildren()
	}

	return &n.children[i]
}

// GetChildProbability implements tree.GameTreeNode.
func (n *Node) GetChildProbability(i int) float64 {
	if n.children == nil {
		n.buildChildren()
	}

	return n.probabilities[i]
}

// Player implements tree.GameTreeNode.
func (n *Node) Player() int {
	return n.player
}

type infoSet string

func (s infoSet) Key() string {
	return string(s)
}

// InfoSet implements tree.GameTreeNode.
func (n *Node) InfoSet(player int) tree.InfoSet {
	if n.subgame == noSubgame {
		return infoSet("main")
	}

	return infoSet(n.subgameKey())
}

// Utility implements tree.GameTreeNode.
func (n *Node) Utility(player int) float64 {
	return n.game.mainPayoffs[player][n.p1m1][n.p2m1] +
		n.game.subgamePayoffs[player][n.subgame][n.p1m2][n.p2m2]
}

// Subgame implements tree.SubgameNode.
func (n *Node) Subgame() (string, bool) {
	if !n.game.config.SpecifySubgames {
		return wholeGame, true
	}

	if n.subgame == noSubgame {
		return "", false
	}

	return n.subgameKey(), true
}

// ActionName implements tree.ActionNamer.
func (n *Node) ActionName(i int) string {
	if n.player == chance {
		return "subgame-" + strconv.Itoa(i)
	}

	return strconv.Itoa(i)
}

func (n *Node) subgameKey() string {
	return fmt.Sprintf("%d-%d-%d", n.p1m1, n.p2m1, n.subgame)
}

func (n *Node) buildChildren() {
	if n.terminal {
		return
	}

	cfg := n.game.config
	var children []Node
	switch {
	case n.player == chance:
		for k := 0; k < cfg.NumSubgames; k++ {
			child := *n
			child.player = 0
			child.subgame = k
			children = append(children, child)
		}
		n.probabilities = n.game.transition[n.p1m1]
	case n.subgame == noSubgame && n.player == 0:
		for a := 0; a < cfg.MainGameSize[0]; a++ {
			child := *n
			child.player = 1
			child.p1m1 = a
			children = append(children, child)
		}
	case n.subgame == noSubgame:
		for a := 0; a < cfg.MainGameSize[1]; a++ {
			child := *n
			child.player = chance
			child.p2m1 = a
			children = append(children, child)
		}
	case n.player == 0:
		for a := 0; a < cfg.SubgameSize[0]; a++ {
			child := *n
			child.player = 1
			child.p1m2 = a
			children = append(children, child)
		}
	default:
		for a := 0; a < cfg.SubgameSize[1]; a++ {
			child := *n
			child.terminal = true
			child.p2m2 = a
			children = append(children, child)
		}
	}

	n.children = children
}
