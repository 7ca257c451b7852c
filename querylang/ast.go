// Package querylang implements the lexer, parser, and AST for the
// library's boolean search query language. It mirrors the original
// project's standalone query-language package: the UI and the storage
// engine both import it, but neither owns it.
package querylang

// ConstraintType identifies which predicate a Constraint node applies.
type ConstraintType int

const (
	ConstraintTag ConstraintType = iota
	ConstraintTagID
	ConstraintPath
	ConstraintMediaType
	ConstraintFileType
	ConstraintSpecial
)

func (t ConstraintType) String() string {
	switch t {
	case ConstraintTag:
		return "tag"
	case ConstraintTagID:
		return "tag_id"
	case ConstraintPath:
		return "path"
	case ConstraintMediaType:
		return "mediatype"
	case ConstraintFileType:
		return "filetype"
	case ConstraintSpecial:
		return "special"
	default:
		return "unknown"
	}
}

// AST is the common interface implemented by every node in a parsed
// query. Visit dispatches to the matching method on v.
type AST interface {
	Visit(v Visitor) (any, error)
}

// Visitor is implemented by anything that lowers an AST into another
// representation (a SQL boolean expression, a pretty-printer, a test
// evaluator). Each Visit* method receives the node and returns a
// generic value plus an error, since NotImplemented constraints must
// propagate to the caller rather than panic.
type Visitor interface {
	VisitORList(node *ORList) (any, error)
	VisitANDList(node *ANDList) (any, error)
	VisitNot(node *Not) (any, error)
	VisitConstraint(node *Constraint) (any, error)
	VisitProperty(node *Property) (any, error)
}

// ORList is a disjunction of terms, each itself an AND list.
type ORList struct {
	Elements []AST
}

func (n *ORList) Visit(v Visitor) (any, error) { return v.VisitORList(n) }

// ANDList is a conjunction of terms. Adjacency in the source query
// (with no explicit AND) parses into the same node.
type ANDList struct {
	Terms []AST
}

func (n *ANDList) Visit(v Visitor) (any, error) { return v.VisitANDList(n) }

// Not negates its child.
type Not struct {
	Child AST
}

func (n *Not) Visit(v Visitor) (any, error) { return v.VisitNot(n) }

// Constraint is a single atomic predicate: an optional type prefix, a
// value, and zero or more trailing dotted properties (reserved for
// future use; any non-empty Properties causes a NotImplemented error
// during compilation).
type Constraint struct {
	Type       ConstraintType
	Value      string
	Properties []*Property
}

func (n *Constraint) Visit(v Visitor) (any, error) { return v.VisitConstraint(n) }

// Property is a dotted `.name:value` suffix on a constraint.
type Property struct {
	Name  string
	Value string
}

func (n *Property) Visit(v Visitor) (any, error) { return v.VisitProperty(n) }
