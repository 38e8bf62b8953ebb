package commands

import (
	"rtmsync/internal/application/diff"
	"rtmsync/internal/application/extract"
	"rtmsync/internal/domain"
)

// PageText is the text diffed for an updated record: the title followed by the body
func PageText(r domain.Record) string {
	return "Title of page:\n" + r.Title + "\n\n" + r.Text
}

// HiddenIDs returns the IDs of the previous tree that the current pass could
// not see because they sit under (or are) a failed page of the current tree
func HiddenIDs(previous, current *domain.Node) map[string]bool {
	hidden := make(map[string]bool)
	for _, id := range domain.FailedIDs(current) {
		hidden[id] = true
		for _, d := range domain.Descendants(previous, id) {
			hidden[d] = true
		}
	}
	return hidden
}

// BuildChangeSet compares the previous and current record lists by page ID.
// Records hidden by a failed fetch are reported as unknown, not deleted. On
// the initial launch there is no baseline, so nothing is added or updated.
func BuildChangeSet(oldRecords, newRecords []domain.Record, hidden map[string]bool, initialLaunch bool) domain.ChangeSet {
	set := domain.ChangeSet{InitialLaunch: initialLaunch}
	oldByID := extract.ByID(oldRecords)
	newByID := extract.ByID(newRecords)

	if !initialLaunch {
		for _, rec := range newRecords {
			prev, existed := oldByID[rec.ID]
			switch {
			case !existed:
				set.Added = append(set.Added, domain.RecordChange{
					Record:   rec,
					Segments: diff.Lines(rec.Text, rec.Text),
				})
			case rec.Changed:
				p := prev
				set.Updated = append(set.Updated, domain.RecordChange{
					Record:   rec,
					Previous: &p,
					Segments: diff.Lines(PageText(prev), PageText(rec)),
				})
			}
		}
	}

	for _, rec := range oldRecords {
		if _, ok := newByID[rec.ID]; ok {
			continue
		}
		if hidden[rec.ID] {
			set.Unknown = append(set.Unknown, rec)
			continue
		}
		p := rec
		set.Deleted = append(set.Deleted, domain.RecordChange{
			Record:   rec,
			Previous: &p,
			Segments: diff.Lines(rec.Text, rec.Text),
		})
	}

	return set
}
