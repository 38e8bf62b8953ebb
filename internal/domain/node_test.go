package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleTree() *Node {
	leaf := &Node{ID: "4"}
	return &Node{
		ID:       "1",
		ChildIDs: []string{"2", "3"},
		Children: []*Node{
			{ID: "2", ChildIDs: []string{"4"}, Children: []*Node{leaf}},
			FailedNode("3", "timeout"),
		},
	}
}

func TestWalk_PreOrder(t *testing.T) {
	var order []string
	Walk(sampleTree(), func(n *Node) bool {
		order = append(order, n.ID)
		return true
	})
	assert.Equal(t, []string{"1", "2", "4", "3"}, order)
}

func TestWalk_SkipChildren(t *testing.T) {
	var order []string
	Walk(sampleTree(), func(n *Node) bool {
		order = append(order, n.ID)
		return n.ID != "2"
	})
	assert.Equal(t, []string{"1", "2", "3"}, order)
}

func TestWalk_Cycle(t *testing.T) {
	a := &Node{ID: "a"}
	b := &Node{ID: "b", Children: []*Node{a}}
	a.Children = []*Node{b}

	count := 0
	Walk(a, func(n *Node) bool {
		count++
		return true
	})
	assert.Equal(t, 2, count)
}

func TestTreeQueries(t *testing.T) {
	root := sampleTree()

	assert.Len(t, Index(root), 4)
	assert.Equal(t, "4", FindNode(root, "4").ID)
	assert.Nil(t, FindNode(root, "9"))
	assert.Equal(t, []string{"3"}, FailedIDs(root))
	assert.Equal(t, []string{"4"}, Descendants(root, "2"))
	assert.True(t, FindNode(root, "3").Failed())
}

func TestFailedIDs_SkipsCycleAndCarriedSubtree(t *testing.T) {
	carried := CarryForward("2", &Node{
		ID:       "2",
		Content:  "body",
		Version:  3,
		ChildIDs: []string{"5"},
		Children: []*Node{FailedNode("5", "timeout")},
	}, "503")
	root := &Node{
		ID:       "1",
		ChildIDs: []string{"2", "1"},
		Children: []*Node{carried, FailedNode("1", ReasonCycle)},
	}

	assert.Equal(t, []string{"2"}, FailedIDs(root))
}

func TestCarryForward(t *testing.T) {
	tests := []struct {
		name     string
		previous *Node
		carried  bool
	}{
		{name: "no previous", previous: nil},
		{name: "previous tombstone", previous: FailedNode("2", "timeout")},
		{
			name:     "previous content",
			previous: &Node{ID: "2", Title: "Page", Content: "body", Version: 4, Changed: true},
			carried:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CarryForward("2", tt.previous, "503")

			assert.Equal(t, "2", got.ID)
			assert.True(t, got.Failed())
			assert.Equal(t, "503", got.Failure.Reason)
			assert.Equal(t, tt.carried, got.Carried())
			assert.False(t, got.Changed)
			if tt.carried {
				assert.Equal(t, "body", got.Content)
				assert.Equal(t, 4, got.Version)
			}
		})
	}
}
