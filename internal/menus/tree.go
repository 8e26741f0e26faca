package menus

import (
	"slices"

	"github.com/goliatone/go-dyncms/internal/permissions"
	"github.com/google/uuid"
)

// MaxDepth bounds nesting. Roots sit at depth 1.
const MaxDepth = 5

// BuildTree orders and nests entries using MaxDepth.
func BuildTree(entries []*Entry) []*Node {
	return Build(entries, MaxDepth).Roots
}

// Build nests entries into an ordered forest. Children sort by ascending
// order with absent orders last; ties keep input order. Entries that would
// sit deeper than maxDepth are attached at maxDepth as siblings. An entry
// whose parent is not in the list is treated as a root.
func Build(entries []*Entry, maxDepth int) *Tree {
	if maxDepth <= 0 {
		maxDepth = MaxDepth
	}
	entries = cloneEntries(entries)
	present := make(map[uuid.UUID]bool, len(entries))
	for _, entry := range entries {
		present[entry.ID] = true
	}

	roots := []*Entry{}
	children := map[uuid.UUID][]*Entry{}
	for _, entry := range entries {
		if entry.ParentID == nil || !present[*entry.ParentID] {
			roots = append(roots, entry)
			continue
		}
		children[*entry.ParentID] = append(children[*entry.ParentID], entry)
	}

	visited := make(map[uuid.UUID]bool, len(entries))
	var build func(entry *Entry, depth int) []*Node
	// flatten collects the subtree below entry as leaves at depth.
	var flatten func(entry *Entry, depth int) []*Node
	build = func(entry *Entry, depth int) []*Node {
		if visited[entry.ID] {
			return nil
		}
		visited[entry.ID] = true
		node := &Node{Entry: entry, Depth: depth}
		if depth >= maxDepth {
			return append([]*Node{node}, flatten(entry, depth)...)
		}
		for _, child := range sortSiblings(children[entry.ID]) {
			node.Children = append(node.Children, build(child, depth+1)...)
		}
		return []*Node{node}
	}
	flatten = func(entry *Entry, depth int) []*Node {
		out := []*Node{}
		for _, child := range sortSiblings(children[entry.ID]) {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			out = append(out, &Node{Entry: child, Depth: depth})
			out = append(out, flatten(child, depth)...)
		}
		return out
	}

	tree := &Tree{Roots: []*Node{}}
	for _, root := range sortSiblings(roots) {
		tree.Roots = append(tree.Roots, build(root, 1)...)
	}
	for _, entry := range entries {
		if !visited[entry.ID] {
			tree.Cycles = append(tree.Cycles, entry.ID)
		}
	}
	return tree
}

func sortSiblings(list []*Entry) []*Entry {
	sorted := slices.Clone(list)
	slices.SortStableFunc(sorted, compareOrder)
	return sorted
}

func compareOrder(a, b *Entry) int {
	switch {
	case a.Order == nil && b.Order == nil:
		return 0
	case a.Order == nil:
		return 1
	case b.Order == nil:
		return -1
	default:
		return *a.Order - *b.Order
	}
}

// Siblings returns the entries sharing parentID in sibling order.
func Siblings(entries []*Entry, parentID *uuid.UUID) []*Entry {
	out := []*Entry{}
	for _, entry := range entries {
		if entry != nil && sameParent(entry.ParentID, parentID) {
			out = append(out, entry)
		}
	}
	return sortSiblings(out)
}

// MoveUp swaps id with its previous sibling. The changed entries are
// returned as copies; nil means nothing moved.
func MoveUp(entries []*Entry, id uuid.UUID) []*Entry {
	return move(entries, id, -1)
}

// MoveDown swaps id with its next sibling.
func MoveDown(entries []*Entry, id uuid.UUID) []*Entry {
	return move(entries, id, 1)
}

func move(entries []*Entry, id uuid.UUID, delta int) []*Entry {
	target := find(entries, id)
	if target == nil {
		return nil
	}
	siblings := Siblings(entries, target.ParentID)
	idx := slices.IndexFunc(siblings, func(e *Entry) bool { return e.ID == id })
	other := idx + delta
	if idx < 0 || other < 0 || other >= len(siblings) {
		return nil
	}
	a, b := cloneEntry(siblings[idx]), cloneEntry(siblings[other])
	if a.Order == nil || b.Order == nil || *a.Order == *b.Order {
		a.Order, b.Order = IntPtr(other), IntPtr(idx)
	} else {
		a.Order, b.Order = b.Order, a.Order
	}
	return []*Entry{a, b}
}

// Descendants returns every entry below id, following parent links
// transitively. id itself is not included.
func Descendants(entries []*Entry, id uuid.UUID) []*Entry {
	children := map[uuid.UUID][]*Entry{}
	for _, entry := range entries {
		if entry != nil && entry.ParentID != nil {
			children[*entry.ParentID] = append(children[*entry.ParentID], entry)
		}
	}
	seen := map[uuid.UUID]bool{id: true}
	out := []*Entry{}
	queue := []uuid.UUID{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range children[current] {
			if seen[child.ID] {
				continue
			}
			seen[child.ID] = true
			out = append(out, child)
			queue = append(queue, child.ID)
		}
	}
	return out
}

// NextOrder is one past the highest sibling order under parentID, or 0.
func NextOrder(entries []*Entry, parentID *uuid.UUID) int {
	next := 0
	for _, entry := range entries {
		if entry == nil || entry.Order == nil || !sameParent(entry.ParentID, parentID) {
			continue
		}
		if *entry.Order+1 > next {
			next = *entry.Order + 1
		}
	}
	return next
}

// Depth is the 1-based depth of id following parent links. It stops at a
// repeated id, so a cycle yields a finite value.
func Depth(entries []*Entry, id uuid.UUID) int {
	byID := index(entries)
	depth := 0
	seen := map[uuid.UUID]bool{}
	for current, ok := byID[id]; ok && !seen[current.ID]; current, ok = parentOf(byID, current) {
		seen[current.ID] = true
		depth++
	}
	return depth
}

// Height counts the levels of the subtree rooted at id, itself included.
func Height(entries []*Entry, id uuid.UUID) int {
	children := map[uuid.UUID][]uuid.UUID{}
	for _, entry := range entries {
		if entry != nil && entry.ParentID != nil {
			children[*entry.ParentID] = append(children[*entry.ParentID], entry.ID)
		}
	}
	seen := map[uuid.UUID]bool{}
	var walk func(uuid.UUID) int
	walk = func(current uuid.UUID) int {
		if seen[current] {
			return 0
		}
		seen[current] = true
		best := 0
		for _, child := range children[current] {
			if h := walk(child); h > best {
				best = h
			}
		}
		return best + 1
	}
	return walk(id)
}

// WouldCycle reports whether placing id under parentID closes a loop.
func WouldCycle(entries []*Entry, id uuid.UUID, parentID uuid.UUID) bool {
	if id == parentID {
		return true
	}
	for _, descendant := range Descendants(entries, id) {
		if descendant.ID == parentID {
			return true
		}
	}
	return false
}

// FilterByRole drops nodes the role may not see, along with their children.
func FilterByRole(nodes []*Node, role permissions.Role) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, node := range nodes {
		if node == nil || !permissions.HasRole(role, node.Entry.RequiredRole) {
			continue
		}
		copied := *node
		copied.Children = FilterByRole(node.Children, role)
		if len(copied.Children) == 0 {
			copied.Children = nil
		}
		out = append(out, &copied)
	}
	return out
}

func find(entries []*Entry, id uuid.UUID) *Entry {
	for _, entry := range entries {
		if entry != nil && entry.ID == id {
			return entry
		}
	}
	return nil
}

func index(entries []*Entry) map[uuid.UUID]*Entry {
	byID := make(map[uuid.UUID]*Entry, len(entries))
	for _, entry := range entries {
		if entry != nil {
			byID[entry.ID] = entry
		}
	}
	return byID
}

func parentOf(byID map[uuid.UUID]*Entry, entry *Entry) (*Entry, bool) {
	if entry.ParentID == nil {
		return nil, false
	}
	parent, ok := byID[*entry.ParentID]
	return parent, ok
}
