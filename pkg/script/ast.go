// Package script provides the compiler front end for skit dialogue
// scripts: a mode-switching lexer, a recursive-descent parser with
// statement-level error recovery, an arena-based AST, and a two-pass
// semantic analyzer. All stages report through one shared diagnostic
// list; none of them aborts on bad input.
package script

import "fmt"

// NodeIndex addresses a node in a Tree. Nodes reference each other only
// through indices, never through pointers.
type NodeIndex uint32

// NilNode marks an absent child. It is never a valid arena slot and must
// never be dereferenced; consumers branch on it explicitly.
const NilNode NodeIndex = ^NodeIndex(0)

// NodeKind discriminates the payload of a Node.
type NodeKind int

const (
	// Literals: Tok is the literal's token.
	NodeNumber NodeKind = iota
	NodeString
	NodeIdent

	// Arithmetic: Left and Right are the operands, Tok the operator.
	NodeAdd
	NodeSub
	NodeMul
	NodeDiv

	// Comparisons share the binary shape.
	NodeEq
	NodeNeq
	NodeLess
	NodeGreater
	NodeLessEq
	NodeGreaterEq

	// Assignments: Left is the target identifier node, Right the value.
	NodeAssign
	NodeAddAssign
	NodeSubAssign
	NodeMulAssign
	NodeDivAssign

	// NodeDecl: Tok is the declared name, Left the initializer,
	// Mutable distinguishes var from const.
	NodeDecl

	// NodeIf: Left is the condition, Right the then-block,
	// Third the else-block or NilNode.
	NodeIf

	// NodeBlock: List is a statement range in the shared statement pool.
	NodeBlock

	// NodeLabel: Tok is the label name, Left the body block.
	// Scenes share this kind; they have no distinct syntax.
	NodeLabel

	// NodeDialogue: Tok is the speaker, List the fragment range,
	// Left the jump target identifier node or NilNode,
	// Choices the choice range (at most MaxChoices entries).
	NodeDialogue

	// NodeChoice: Tok is the choice marker, List the fragment range,
	// Left the jump target or NilNode. Choices never nest.
	NodeChoice
)

// String returns a human-readable name for the node kind.
func (k NodeKind) String() string {
	switch k {
	case NodeNumber:
		return "number"
	case NodeString:
		return "string"
	case NodeIdent:
		return "identifier"
	case NodeAdd:
		return "add"
	case NodeSub:
		return "subtract"
	case NodeMul:
		return "multiply"
	case NodeDiv:
		return "divide"
	case NodeEq:
		return "equal"
	case NodeNeq:
		return "not-equal"
	case NodeLess:
		return "less"
	case NodeGreater:
		return "greater"
	case NodeLessEq:
		return "less-equal"
	case NodeGreaterEq:
		return "greater-equal"
	case NodeAssign:
		return "assign"
	case NodeAddAssign:
		return "add-assign"
	case NodeSubAssign:
		return "sub-assign"
	case NodeMulAssign:
		return "mul-assign"
	case NodeDivAssign:
		return "div-assign"
	case NodeDecl:
		return "declaration"
	case NodeIf:
		return "if"
	case NodeBlock:
		return "block"
	case NodeLabel:
		return "label"
	case NodeDialogue:
		return "dialogue"
	case NodeChoice:
		return "choice"
	default:
		return fmt.Sprintf("Node(%d)", int(k))
	}
}

// MaxChoices is the fixed capacity of a dialogue's choice list. The
// parser stops collecting after this many; later choice lines become
// standalone statements.
const MaxChoices = 5

// Range is a (start, length) window into one of the shared pools.
// Blocks, fragment lists, and choice lists never own their own slices;
// they borrow a contiguous run of the pool.
type Range struct {
	Start uint32
	Len   uint32
}

// Node is one arena slot. Which fields are meaningful depends on Kind;
// see the kind constants. Unused child fields hold NilNode.
type Node struct {
	Kind NodeKind
	Tok  TokenIndex

	Left  NodeIndex
	Right NodeIndex
	Third NodeIndex

	List    Range // statements for blocks, fragments for dialogue/choice
	Choices Range // dialogue only

	Mutable bool // declarations only
}

// Tree is the AST arena: one append-only node table plus the shared
// pools for variable-length children. The tree exclusively owns every
// node for the lifetime of a compilation; the AST is acyclic by
// construction since children are appended before their parents.
type Tree struct {
	nodes   []Node
	stmts   []NodeIndex
	frags   []NodeIndex
	choices []NodeIndex
}

// Append adds a node and returns its index.
func (t *Tree) Append(n Node) NodeIndex {
	t.nodes = append(t.nodes, n)
	return NodeIndex(len(t.nodes) - 1)
}

// Node returns the node at index i. The pointer stays valid only until
// the next Append.
func (t *Tree) Node(i NodeIndex) *Node {
	return &t.nodes[i]
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Stmts resolves a block's statement range against the shared pool.
func (t *Tree) Stmts(r Range) []NodeIndex {
	return t.stmts[r.Start : r.Start+r.Len]
}

// Frags resolves a dialogue or choice fragment range.
func (t *Tree) Frags(r Range) []NodeIndex {
	return t.frags[r.Start : r.Start+r.Len]
}

// ChoiceList resolves a dialogue's choice range.
func (t *Tree) ChoiceList(r Range) []NodeIndex {
	return t.choices[r.Start : r.Start+r.Len]
}

// pushStmts flushes a finished block's statements into the shared pool
// and returns the borrowed range. Flushing only at block close keeps
// each block contiguous even when blocks nest.
func (t *Tree) pushStmts(list []NodeIndex) Range {
	r := Range{Start: uint32(len(t.stmts)), Len: uint32(len(list))}
	t.stmts = append(t.stmts, list...)
	return r
}

func (t *Tree) pushFrags(list []NodeIndex) Range {
	r := Range{Start: uint32(len(t.frags)), Len: uint32(len(list))}
	t.frags = append(t.frags, list...)
	return r
}

func (t *Tree) pushChoices(list []NodeIndex) Range {
	r := Range{Start: uint32(len(t.choices)), Len: uint32(len(list))}
	t.choices = append(t.choices, list...)
	return r
}
