// Package label manages the generator's labels: interned names, per-kind
// incrementing ids appended to a caller-supplied prefix, and a deferred address
// that's filled in once the generator reaches the instruction the label
// marks. This mirrors the teacher's `internal/types/env.go` chained-table
// idiom (a map behind a small set of named operations) generalized from a
// type environment to a label table, since labels have no nesting/scoping
// of their own — one flat table per compilation is enough.
package label

import "fmt"

// Kind classifies what a label marks; Create keeps a separate id counter
// for each kind.
type Kind int

const (
	Function Kind = iota
	BranchTarget
	LoopStart
	LoopEnd
)

func (k Kind) String() string {
	switch k {
	case Function:
		return "function"
	case BranchTarget:
		return "branch"
	case LoopStart:
		return "loop_start"
	case LoopEnd:
		return "loop_end"
	default:
		return "unknown"
	}
}

// Label is one named point in the instruction stream.
type Label struct {
	Name    string
	Kind    Kind
	defined bool
	address int
}

// Address returns the label's linear instruction address and whether it
// has been defined yet.
func (l *Label) Address() (int, bool) { return l.address, l.defined }

// Table interns labels by name and resolves their addresses once defined.
// Not safe for concurrent use; the generator owns one Table per compilation
// on its single analysis goroutine.
type Table struct {
	labels  map[string]*Label
	counter map[Kind]int
}

// NewTable returns an empty label table.
func NewTable() *Table {
	return &Table{labels: map[string]*Label{}, counter: map[Kind]int{}}
}

// Create mints a new label of the given kind: the name is prefix with
// "_<id>" appended, where id increments per kind so labels read like
// "loop_start_1", "loop_start_2", "else_1", etc. Names are unique as long
// as each prefix is used with a single kind. The label starts undefined; a
// later Define call fills in its address.
func (t *Table) Create(kind Kind, prefix string) *Label {
	t.counter[kind]++
	name := fmt.Sprintf("%s_%d", prefix, t.counter[kind])
	l := &Label{Name: name, Kind: kind}
	t.labels[name] = l
	return l
}

// Define records address as the linear address of the next instruction to
// be emitted for the label name. Defining an already-defined label is a
// programmer error in the generator and panics, since it means two distinct
// instruction addresses claim the same label.
func (t *Table) Define(name string, address int) {
	l, ok := t.labels[name]
	if !ok {
		l = &Label{Name: name}
		t.labels[name] = l
	}
	if l.defined {
		panic(fmt.Sprintf("label: %q already defined at address %d, cannot redefine at %d", name, l.address, address))
	}
	l.defined = true
	l.address = address
}

// Resolve returns the address of name and whether it has been defined.
func (t *Table) Resolve(name string) (int, bool) {
	l, ok := t.labels[name]
	if !ok {
		return 0, false
	}
	return l.Address()
}

// Lookup returns the interned Label for name, or nil if it was never
// created or defined.
func (t *Table) Lookup(name string) (*Label, bool) {
	l, ok := t.labels[name]
	return l, ok
}

// Undefined returns the names of every label that was created but never
// defined — a dangling
// branch target. internal/codegen does not call it.
func (t *Table) Undefined() []string {
	var out []string
	for name, l := range t.labels {
		if !l.defined {
			out = append(out, name)
		}
	}
	return out
}
