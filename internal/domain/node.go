package domain

// Node is one page of the synchronized tree
type Node struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`      // Raw storage body with comment markers stripped
	PlainText string   `json:"content_text"` // Flattened text used for diffs
	Version   int      `json:"version"`
	ChildIDs  []string `json:"children_ID"`
	Children  []*Node  `json:"children"`
	Changed   bool     `json:"updated"`
	Failure   *Failure `json:"failure,omitempty"`
}

// Failure marks a node that could not be fetched during a sync pass.
// A failed node keeps its ID only; content and children are unknown.
type Failure struct {
	Reason string `json:"reason"`
}

// ReasonCycle marks a page reached a second time during one pass
const ReasonCycle = "cycle"

// FailedNode returns a failure tombstone for id
func FailedNode(id, reason string) *Node {
	return &Node{
		ID:      id,
		Failure: &Failure{Reason: reason},
	}
}

// CarryForward returns a failure tombstone for a page that was known before
// this pass. It keeps the previous content and subtree so the next pass can
// compare against them and reuse them. Without usable previous content it is
// a plain tombstone.
func CarryForward(id string, previous *Node, reason string) *Node {
	if previous == nil || previous.Version == 0 {
		return FailedNode(id, reason)
	}
	return &Node{
		ID:        id,
		Title:     previous.Title,
		Content:   previous.Content,
		PlainText: previous.PlainText,
		Version:   previous.Version,
		ChildIDs:  previous.ChildIDs,
		Children:  previous.Children,
		Failure:   &Failure{Reason: reason},
	}
}

// Failed reports whether the node is a failure tombstone
func (n *Node) Failed() bool {
	return n != nil && n.Failure != nil
}

// Carried reports whether the node is a tombstone holding content from an
// earlier pass
func (n *Node) Carried() bool {
	return n.Failed() && n.Version != 0
}

// Walk visits every node of the tree in depth-first pre-order.
// Traversal uses an explicit stack and never visits the same ID twice.
// Returning false from fn skips the node's children.
func Walk(root *Node, fn func(n *Node) bool) {
	if root == nil {
		return
	}

	visited := make(map[string]bool)
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil || visited[n.ID] {
			continue
		}
		visited[n.ID] = true

		if !fn(n) {
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}

// Index maps every node ID in the tree to its node
func Index(root *Node) map[string]*Node {
	idx := make(map[string]*Node)
	Walk(root, func(n *Node) bool {
		idx[n.ID] = n
		return true
	})
	return idx
}

// FindNode returns the node with the given ID, or nil
func FindNode(root *Node, id string) *Node {
	var found *Node
	Walk(root, func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// FailedIDs returns the IDs of the pages that could not be fetched. Cycle
// tombstones are left out since their page was fetched where it first
// appeared, and content carried below a tombstone is not searched.
func FailedIDs(root *Node) []string {
	var ids []string
	Walk(root, func(n *Node) bool {
		if !n.Failed() {
			return true
		}
		if n.Failure.Reason != ReasonCycle {
			ids = append(ids, n.ID)
		}
		return false
	})
	return ids
}

// Descendants returns the IDs of all nodes below id (excluding id itself)
func Descendants(root *Node, id string) []string {
	start := FindNode(root, id)
	if start == nil {
		return nil
	}

	var ids []string
	Walk(start, func(n *Node) bool {
		if n != start {
			ids = append(ids, n.ID)
		}
		return true
	})
	return ids
}
