package knowledge

import (
	"sync"
	"sync/atomic"
)

// AtomType tags an atom with its role in the knowledge graph.
type AtomType int

const (
	// NodeType is a basic node atom.
	NodeType AtomType = iota
	// LinkType is a basic link connecting atoms.
	LinkType
	// ConceptNode represents a concept.
	ConceptNode
	// PredicateNode represents a predicate.
	PredicateNode
	// VariableNode represents a variable.
	VariableNode
	// EvaluationLink is the evaluation of a predicate.
	EvaluationLink
	// InheritanceLink is an inheritance relationship.
	InheritanceLink
	// SimilarityLink is a similarity relationship.
	SimilarityLink
	// ExecutionLink is an execution context.
	ExecutionLink
)

// String returns the conventional atom type name.
func (t AtomType) String() string {
	switch t {
	case NodeType:
		return "Node"
	case LinkType:
		return "Link"
	case ConceptNode:
		return "ConceptNode"
	case PredicateNode:
		return "PredicateNode"
	case VariableNode:
		return "VariableNode"
	case EvaluationLink:
		return "EvaluationLink"
	case InheritanceLink:
		return "InheritanceLink"
	case SimilarityLink:
		return "SimilarityLink"
	case ExecutionLink:
		return "ExecutionLink"
	default:
		return "Unknown"
	}
}

// TruthValue expresses probabilistic belief in an atom as a
// (strength, confidence) pair. Both values are nominally in [0,1] but the
// store neither clamps nor validates them.
type TruthValue struct {
	Strength   float64
	Confidence float64
}

// DefaultTruthValue is the truth value assigned to newly created atoms.
func DefaultTruthValue() TruthValue { return TruthValue{Strength: 1.0, Confidence: 1.0} }

// atomID is the process-wide id source. Ids are monotonically increasing in
// creation order and never reused, across all stores.
var atomID atomic.Uint64

func nextAtomID() uint64 { return atomID.Add(1) }

// Atom is a uniquely identified knowledge-graph entity. Identity (id, type,
// name, outgoing set) is immutable after creation; only the truth value may
// change, guarded so concurrent readers are safe.
type Atom struct {
	id   uint64
	typ  AtomType
	name string

	// outgoing is the ordered atom sequence a link references; nil for
	// nodes. Referenced atoms may live in other stores and may form
	// cycles; the store enforces neither acyclicity nor containment.
	outgoing []*Atom
	link     bool

	mu sync.RWMutex
	tv TruthValue
}

func newNode(typ AtomType, name string) *Atom {
	return &Atom{id: nextAtomID(), typ: typ, name: name, tv: DefaultTruthValue()}
}

func newLink(typ AtomType, name string, outgoing []*Atom) *Atom {
	out := make([]*Atom, len(outgoing))
	copy(out, outgoing)
	return &Atom{id: nextAtomID(), typ: typ, name: name, outgoing: out, link: true, tv: DefaultTruthValue()}
}

// ID returns the process-wide unique atom identifier.
func (a *Atom) ID() uint64 { return a.id }

// Type returns the atom's type tag.
func (a *Atom) Type() AtomType { return a.typ }

// Name returns the display name. Names are a per-store lookup key, not
// globally unique.
func (a *Atom) Name() string { return a.name }

// IsNode reports whether the atom is a leaf node.
func (a *Atom) IsNode() bool { return !a.link }

// IsLink reports whether the atom references an outgoing set.
func (a *Atom) IsLink() bool { return a.link }

// Outgoing returns a copy of the link's ordered outgoing set. Empty for
// nodes.
func (a *Atom) Outgoing() []*Atom {
	out := make([]*Atom, len(a.outgoing))
	copy(out, a.outgoing)
	return out
}

// TruthValue returns the current (strength, confidence) pair.
func (a *Atom) TruthValue() TruthValue {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tv
}

// SetTruthValue replaces the atom's truth value.
func (a *Atom) SetTruthValue(tv TruthValue) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tv = tv
}
