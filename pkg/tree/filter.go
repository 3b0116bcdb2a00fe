package tree

import (
	"github.com/vanderheijden86/treetable/pkg/metrics"
	"github.com/vanderheijden86/treetable/pkg/model"
)

// FilterItems returns the records whose IsActive matches the filter.
// An unset filter returns the input unchanged.
//
// Filtering runs before BuildTree, so children of a filtered-out parent
// become roots rather than disappearing.
func FilterItems(records []model.Record, filter model.FilterState) []model.Record {
	defer metrics.Timer(metrics.FilterStage)()

	if filter.IsActive == nil {
		return records
	}
	want := *filter.IsActive
	out := make([]model.Record, 0, len(records))
	for _, rec := range records {
		if rec.IsActive == want {
			out = append(out, rec)
		}
	}
	return out
}
