package tagstudio

import (
	"fmt"
	"strings"

	"github.com/TagStudioDev/tagstudio-engine/querylang"
)

// sqlFragment is a WHERE-clause predicate over the aliased `entries e`
// row, plus its positional arguments. Every Visit* method below
// returns one of these (boxed as `any` to satisfy querylang.Visitor).
type sqlFragment struct {
	clause string
	args   []any
}

// sqlCompiler lowers a parsed query into a single sqlFragment. It is a
// querylang.Visitor: each node type compiles independently and parent
// nodes combine their children's fragments with AND/OR/NOT.
// VisitANDList and VisitORList special-case bare tag/tag_id terms to
// produce the relational-division and id-union SQL shapes spec.md
// §4.7 requires instead of one EXISTS(...) subquery per term.
type sqlCompiler struct {
	lib *Library
}

func (c *sqlCompiler) Compile(ast querylang.AST) (sqlFragment, error) {
	if ast == nil {
		return sqlFragment{clause: "1"}, nil
	}
	result, err := ast.Visit(c)
	if err != nil {
		return sqlFragment{}, err
	}
	return result.(sqlFragment), nil
}

// singleTagID reports whether node is a bare `tag:`/`tag_id:` constraint
// (no trailing properties) that resolves to exactly one tag id, and
// that id. `tag_id:<n>` always resolves to its one parsed id; `tag:<name>`
// resolves to one id only when the name matches unambiguously.
func (c *sqlCompiler) singleTagID(node querylang.AST) (int64, bool, error) {
	cons, ok := node.(*querylang.Constraint)
	if !ok || len(cons.Properties) > 0 {
		return 0, false, nil
	}
	switch cons.Type {
	case querylang.ConstraintTagID:
		var id int64
		if _, err := fmt.Sscanf(cons.Value, "%d", &id); err != nil {
			return 0, false, nil
		}
		return id, true, nil
	case querylang.ConstraintTag:
		ids, err := c.lib.resolveTagIDs(cons.Value)
		if err != nil {
			return 0, false, err
		}
		if len(ids) != 1 {
			return 0, false, nil
		}
		return ids[0], true, nil
	default:
		return 0, false, nil
	}
}

// tagIDUnion reports whether node is a bare `tag:`/`tag_id:` constraint
// and, if so, the full set of matched tag ids (before descendant
// expansion) — one or more for `tag:`, exactly one for `tag_id:`.
func (c *sqlCompiler) tagIDUnion(node querylang.AST) ([]int64, bool, error) {
	cons, ok := node.(*querylang.Constraint)
	if !ok || len(cons.Properties) > 0 {
		return nil, false, nil
	}
	switch cons.Type {
	case querylang.ConstraintTagID:
		var id int64
		if _, err := fmt.Sscanf(cons.Value, "%d", &id); err != nil {
			return nil, false, err
		}
		return []int64{id}, true, nil
	case querylang.ConstraintTag:
		ids, err := c.lib.resolveTagIDs(cons.Value)
		if err != nil {
			return nil, false, err
		}
		return ids, true, nil
	default:
		return nil, false, nil
	}
}

// VisitORList implements spec.md §4.7's OR optimization: every
// `tag:`/`tag_id:` term (single- or multi-resolved) is unioned into one
// id set and compiled as a single membership subquery, rather than one
// EXISTS(...) per term joined with OR.
func (c *sqlCompiler) VisitORList(node *querylang.ORList) (any, error) {
	if len(node.Elements) == 1 {
		return node.Elements[0].Visit(c)
	}

	union := make(map[int64]bool)
	hasTagTerm := false
	var rest []querylang.AST

	for _, el := range node.Elements {
		seeds, isTag, err := c.tagIDUnion(el)
		if err != nil {
			return nil, err
		}
		if !isTag {
			rest = append(rest, el)
			continue
		}
		hasTagTerm = true
		for _, seed := range seeds {
			expanded, err := c.lib.expandWithDescendants(seed)
			if err != nil {
				return nil, err
			}
			for _, id := range expanded {
				union[id] = true
			}
		}
	}

	var clauses []string
	var args []any

	if hasTagTerm {
		frag, err := c.membershipFragmentFromIDSet(union)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, "("+frag.clause+")")
		args = append(args, frag.args...)
	}

	for _, el := range rest {
		res, err := el.Visit(c)
		if err != nil {
			return nil, err
		}
		f := res.(sqlFragment)
		clauses = append(clauses, "("+f.clause+")")
		args = append(args, f.args...)
	}

	return sqlFragment{clause: strings.Join(clauses, " OR "), args: args}, nil
}

// VisitANDList implements spec.md §4.7's AND optimization: two or more
// `tag:`/`tag_id:` terms that each resolve to exactly one tag id
// compile as a single relational-division subquery —
// `entry_id IN (... GROUP BY entry_id HAVING COUNT(DISTINCT tag_id) = N)`
// — rather than N separate EXISTS(...) subqueries ANDed together. A
// term whose name is ambiguous (resolves to zero or multiple ids)
// falls back to the generic per-term subquery, as does a lone
// single-id term (the optimization only pays off for N >= 2).
func (c *sqlCompiler) VisitANDList(node *querylang.ANDList) (any, error) {
	if len(node.Terms) == 1 {
		return node.Terms[0].Visit(c)
	}

	var singleIDs []int64
	seen := make(map[int64]bool)
	var rest []querylang.AST

	for _, term := range node.Terms {
		id, ok, err := c.singleTagID(term)
		if err != nil {
			return nil, err
		}
		if !ok {
			rest = append(rest, term)
			continue
		}
		if !seen[id] {
			seen[id] = true
			singleIDs = append(singleIDs, id)
		}
	}

	var clauses []string
	var args []any

	if len(singleIDs) >= 2 {
		placeholders := make([]string, len(singleIDs))
		idArgs := make([]any, len(singleIDs))
		for i, id := range singleIDs {
			placeholders[i] = "?"
			idArgs[i] = id
		}
		clause := fmt.Sprintf(
			`e.id IN (SELECT entry_id FROM tag_entries WHERE tag_id IN (%s) GROUP BY entry_id HAVING COUNT(DISTINCT tag_id) = %d)`,
			strings.Join(placeholders, ","), len(singleIDs),
		)
		clauses = append(clauses, clause)
		args = append(args, idArgs...)
	} else {
		// Below the N >= 2 threshold: compile any collected id through
		// the normal tag_id path instead (full descendant closure).
		for _, id := range singleIDs {
			rest = append(rest, &querylang.Constraint{Type: querylang.ConstraintTagID, Value: fmt.Sprintf("%d", id)})
		}
	}

	for _, term := range rest {
		res, err := term.Visit(c)
		if err != nil {
			return nil, err
		}
		f := res.(sqlFragment)
		clauses = append(clauses, "("+f.clause+")")
		args = append(args, f.args...)
	}

	return sqlFragment{clause: strings.Join(clauses, " AND "), args: args}, nil
}

func (c *sqlCompiler) VisitNot(node *querylang.Not) (any, error) {
	res, err := node.Child.Visit(c)
	if err != nil {
		return nil, err
	}
	f := res.(sqlFragment)
	return sqlFragment{clause: "NOT (" + f.clause + ")", args: f.args}, nil
}

func (c *sqlCompiler) VisitProperty(node *querylang.Property) (any, error) {
	return nil, &NotImplementedError{What: fmt.Sprintf("constraint property %q", node.Name)}
}

func (c *sqlCompiler) VisitConstraint(node *querylang.Constraint) (any, error) {
	if len(node.Properties) > 0 {
		return nil, &NotImplementedError{What: "constraint properties"}
	}

	switch node.Type {
	case querylang.ConstraintTag:
		return c.compileTagValue(node.Value)
	case querylang.ConstraintTagID:
		return c.compileTagID(node.Value)
	case querylang.ConstraintPath:
		return c.compilePath(node.Value)
	case querylang.ConstraintMediaType:
		return c.compileMediaType(node.Value)
	case querylang.ConstraintFileType:
		return c.compileFileType(node.Value)
	case querylang.ConstraintSpecial:
		return c.compileSpecial(node.Value)
	default:
		return nil, &NotImplementedError{What: fmt.Sprintf("constraint type %q", node.Type)}
	}
}

func (c *sqlCompiler) compileTagValue(value string) (any, error) {
	seedIDs, err := c.lib.resolveTagIDs(value)
	if err != nil {
		return nil, err
	}
	return c.tagMembershipFragment(seedIDs)
}

func (c *sqlCompiler) compileTagID(value string) (any, error) {
	var id int64
	if _, err := fmt.Sscanf(value, "%d", &id); err != nil {
		return nil, fmt.Errorf("parsing tag_id value %q: %w", value, err)
	}
	return c.tagMembershipFragment([]int64{id})
}

func (c *sqlCompiler) tagMembershipFragment(seedIDs []int64) (any, error) {
	if len(seedIDs) == 0 {
		return sqlFragment{clause: "0"}, nil
	}

	ids := make(map[int64]bool)
	for _, seed := range seedIDs {
		expanded, err := c.lib.expandWithDescendants(seed)
		if err != nil {
			return nil, err
		}
		for _, id := range expanded {
			ids[id] = true
		}
	}

	return c.membershipFragmentFromIDSet(ids)
}

// membershipFragmentFromIDSet builds an EXISTS(...) subquery testing
// whether the entry has any tag_entries row whose tag_id is in ids
// (already expanded with descendants, if that was wanted by the
// caller). Shared by the generic per-term path and VisitORList's
// cross-term id union.
func (c *sqlCompiler) membershipFragmentFromIDSet(ids map[int64]bool) (sqlFragment, error) {
	if len(ids) == 0 {
		return sqlFragment{clause: "0"}, nil
	}

	placeholders := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids))
	for id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}

	clause := fmt.Sprintf(
		`EXISTS (SELECT 1 FROM tag_entries te WHERE te.entry_id = e.id AND te.tag_id IN (%s))`,
		strings.Join(placeholders, ","),
	)
	return sqlFragment{clause: clause, args: args}, nil
}

// compilePath implements spec.md §4.7's three-way path matching rule:
// a value with no uppercase letters and no '*' does a case-insensitive
// substring match (SQL LIKE with SQLite's default ASCII-only case
// folding is close enough for ILIKE-style matching here); a value
// containing '*' uses GLOB wildcards; a value with an uppercase letter
// and no '*' is matched exactly, case-sensitively.
func (c *sqlCompiler) compilePath(value string) (any, error) {
	hasUpper := strings.ToLower(value) != value
	hasStar := strings.Contains(value, "*")

	switch {
	case hasStar:
		return sqlFragment{clause: `e.path GLOB ?`, args: []any{value}}, nil
	case hasUpper:
		return sqlFragment{clause: `e.path = ?`, args: []any{value}}, nil
	default:
		return sqlFragment{clause: `lower(e.path) LIKE '%' || lower(?) || '%'`, args: []any{value}}, nil
	}
}

func (c *sqlCompiler) compileMediaType(value string) (any, error) {
	cat := mediaCategoryByName(value)
	if cat == nil {
		return nil, fmt.Errorf("unknown mediatype %q", value)
	}
	return c.suffixInSetFragment(cat.Extensions)
}

func (c *sqlCompiler) compileFileType(value string) (any, error) {
	equivalents := getFiletypeEquivalencyList(strings.ToLower(value))
	return c.suffixInSetFragment(equivalents)
}

func (c *sqlCompiler) suffixInSetFragment(set map[string]struct{}) (any, error) {
	placeholders := make([]string, 0, len(set))
	args := make([]any, 0, len(set))
	for ext := range set {
		placeholders = append(placeholders, "?")
		args = append(args, ext)
	}
	if len(placeholders) == 0 {
		return sqlFragment{clause: "0"}, nil
	}
	clause := fmt.Sprintf(`lower(e.suffix) IN (%s)`, strings.Join(placeholders, ","))
	return sqlFragment{clause: clause, args: args}, nil
}

func (c *sqlCompiler) compileSpecial(value string) (any, error) {
	if value != "untagged" {
		return nil, &NotImplementedError{What: fmt.Sprintf("special:%s", value)}
	}
	return sqlFragment{clause: `NOT EXISTS (SELECT 1 FROM tag_entries te WHERE te.entry_id = e.id)`}, nil
}

// SearchResult is the paginated outcome of SearchLibrary: the total
// number of matches across all pages, and the entry ids for the
// requested page.
type SearchResult struct {
	TotalCount int
	IDs        []int64
}

// SearchLibrary compiles state's query, counts the total matches, and
// returns one page of entry ids ordered according to state's sort
// mode. pageSize <= 0 disables pagination and returns every match.
// Unless state.ShowHiddenEntries is set, entries carrying the Archived
// tag (or one of its descendants) are excluded.
func (l *Library) SearchLibrary(state BrowsingState, pageSize int) (SearchResult, error) {
	compiler := &sqlCompiler{lib: l}
	frag, err := compiler.Compile(state.AST)
	if err != nil {
		return SearchResult{}, err
	}

	if !state.ShowHiddenEntries {
		hidden, err := compiler.excludeHiddenFragment()
		if err != nil {
			return SearchResult{}, err
		}
		frag = sqlFragment{
			clause: fmt.Sprintf("(%s) AND (%s)", frag.clause, hidden.clause),
			args:   append(append([]any{}, frag.args...), hidden.args...),
		}
	}

	var total int
	if err := l.db.QueryRow(
		fmt.Sprintf(`SELECT COUNT(*) FROM entries e WHERE %s`, frag.clause), frag.args...,
	).Scan(&total); err != nil {
		return SearchResult{}, fmt.Errorf("counting search results: %w", err)
	}

	orderBy, orderArgs := orderByForSort(state.Sorting, state.Ascending, state.RandomSeed)
	query := fmt.Sprintf(`SELECT e.id FROM entries e WHERE %s ORDER BY %s`, frag.clause, orderBy)
	args := append([]any{}, frag.args...)
	args = append(args, orderArgs...)
	if pageSize > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, pageSize, state.PageIndex*pageSize)
	}

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return SearchResult{}, fmt.Errorf("running search query: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return SearchResult{}, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return SearchResult{}, err
	}

	return SearchResult{TotalCount: total, IDs: ids}, nil
}

// excludeHiddenFragment builds the NOT EXISTS(...) predicate that
// filters out entries carrying the Archived tag or one of its
// descendants — the hidden-entry filter named in spec.md §4.8.
func (c *sqlCompiler) excludeHiddenFragment() (sqlFragment, error) {
	ids, err := c.lib.expandWithDescendants(TagArchived)
	if err != nil {
		return sqlFragment{}, err
	}
	idSet := make(map[int64]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	member, err := c.membershipFragmentFromIDSet(idSet)
	if err != nil {
		return sqlFragment{}, err
	}
	return sqlFragment{clause: "NOT (" + member.clause + ")", args: member.args}, nil
}

// orderByForSort returns the ORDER BY clause body and any bound
// arguments it needs. Every mode breaks ties by entry id, per
// spec.md §4.7. SortRandom uses SIN(id * seed) rather than SQLite's
// RANDOM(): seed is fixed for the browsing session, so repeated calls
// with the same state produce a stable order — required for the
// pagination law in spec.md §8 (concatenated pages reproduce the full
// result set with no duplicates or omissions).
func orderByForSort(mode SortingMode, ascending bool, seed int64) (string, []any) {
	dir := "DESC"
	if ascending {
		dir = "ASC"
	}
	switch mode {
	case SortFileName:
		return fmt.Sprintf("lower(e.filename) %s, e.id %s", dir, dir), nil
	case SortPath:
		return fmt.Sprintf("lower(e.path) %s, e.id %s", dir, dir), nil
	case SortRandom:
		return fmt.Sprintf("SIN(e.id * ?) %s, e.id %s", dir, dir), []any{seed}
	default:
		return fmt.Sprintf("e.id %s", dir), nil
	}
}
