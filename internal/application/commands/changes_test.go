package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rtmsync/internal/domain"
)

func rec(id, title, text string, changed bool) domain.Record {
	return domain.Record{ID: id, Title: title, Text: text, Changed: changed}
}

func TestBuildChangeSet(t *testing.T) {
	oldRecords := []domain.Record{
		rec("1", "Login", "A\nB\n", false),
		rec("2", "Logout", "bye\n", false),
		rec("3", "Search", "find\n", false),
		rec("7", "Export", "csv\n", false),
	}
	newRecords := []domain.Record{
		rec("1", "Login", "A\nC\n", true),
		rec("3", "Search", "find\n", false),
		rec("4", "Profile", "me\n", true),
	}
	hidden := map[string]bool{"7": true}

	set := BuildChangeSet(oldRecords, newRecords, hidden, false)

	require.Len(t, set.Updated, 1)
	upd := set.Updated[0]
	assert.Equal(t, "1", upd.Record.ID)
	require.NotNil(t, upd.Previous)
	assert.Equal(t, "A\nB\n", upd.Previous.Text)

	var kinds []domain.SegmentKind
	for _, s := range upd.Segments {
		kinds = append(kinds, s.Kind)
	}
	assert.Equal(t, []domain.SegmentKind{domain.SegmentUnchanged, domain.SegmentRemoved, domain.SegmentAdded}, kinds)
	assert.Equal(t, "Title of page:\nLogin\n\nA\n", upd.Segments[0].Text())

	require.Len(t, set.Added, 1)
	assert.Equal(t, "4", set.Added[0].Record.ID)

	require.Len(t, set.Deleted, 1)
	del := set.Deleted[0]
	assert.Equal(t, "2", del.Record.ID)
	require.Len(t, del.Segments, 1)
	assert.Equal(t, domain.SegmentUnchanged, del.Segments[0].Kind)
	assert.Equal(t, "bye\n", del.Segments[0].Text())

	require.Len(t, set.Unknown, 1)
	assert.Equal(t, "7", set.Unknown[0].ID)
	assert.False(t, set.Empty())
}

func TestBuildChangeSet_InitialLaunch(t *testing.T) {
	newRecords := []domain.Record{rec("1", "Login", "A\n", true)}

	set := BuildChangeSet(nil, newRecords, nil, true)

	assert.True(t, set.InitialLaunch)
	assert.True(t, set.Empty())
}

func TestHiddenIDs(t *testing.T) {
	previous := &domain.Node{
		ID: "1",
		Children: []*domain.Node{
			{ID: "2", Children: []*domain.Node{{ID: "5"}, {ID: "6"}}},
			{ID: "3"},
		},
	}
	current := &domain.Node{
		ID:       "1",
		Children: []*domain.Node{domain.FailedNode("2", "timeout"), {ID: "3"}},
	}

	hidden := HiddenIDs(previous, current)
	assert.Equal(t, map[string]bool{"2": true, "5": true, "6": true}, hidden)
}
