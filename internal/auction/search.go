package auction

import (
	"context"
	"strings"
)

// KeywordDelimiter separates keywords in a raw search query. Queries
// arrive with URL-style encoded spaces and are tokenized on the
// literal delimiter, so "Intro%20Biology" yields two keywords.
const KeywordDelimiter = "%20"

// TitleIndex resolves a keyword to the ids of textbooks whose title
// contains it as a case-insensitive substring.
type TitleIndex interface {
	IDsMatchingTitle(ctx context.Context, keyword string) ([]uint64, error)
}

// Search finds textbooks whose title matches every keyword of a query
// and whose auction is still open.
type Search struct {
	Titles    TitleIndex
	Auctions  Store
	Lifecycle *Lifecycle
}

func NewSearch(titles TitleIndex, store Store, lc *Lifecycle) *Search {
	return &Search{Titles: titles, Auctions: store, Lifecycle: lc}
}

// ByTitle tokenizes the query, matches each keyword independently and
// intersects the per-keyword id sets: a textbook is returned only if
// its title matches EVERY keyword. Results keep the insertion order of
// the first keyword's match set.
//
// While walking the first keyword's matches, each textbook's auction
// is run through the lazy lifecycle check. Ids outside the first
// keyword's set are not re-checked here; the background sweeper covers
// those. Only textbooks whose auction is open after the check make the
// final cut.
func (s *Search) ByTitle(ctx context.Context, query string) ([]uint64, error) {
	keywords := strings.Split(query, KeywordDelimiter)

	matchSets := make([][]uint64, 0, len(keywords))
	for _, kw := range keywords {
		ids, err := s.Titles.IDsMatchingTitle(ctx, kw)
		if err != nil {
			return nil, err
		}
		matchSets = append(matchSets, ids)
	}
	if len(matchSets) == 0 {
		// Unreachable in practice: splitting any string yields at
		// least one keyword.
		return []uint64{}, nil
	}

	rest := make([]map[uint64]bool, 0, len(matchSets)-1)
	for _, set := range matchSets[1:] {
		m := make(map[uint64]bool, len(set))
		for _, id := range set {
			m[id] = true
		}
		rest = append(rest, m)
	}

	results := make([]uint64, 0, len(matchSets[0]))
	for _, tID := range matchSets[0] {
		a, err := s.Auctions.GetByTextbook(ctx, tID)
		if err != nil {
			return nil, err
		}
		if _, err := s.Lifecycle.CheckAndClose(ctx, a.ID); err != nil {
			return nil, err
		}

		allPresent := true
		for _, set := range rest {
			if !set[tID] {
				allPresent = false
				break
			}
		}
		if !allPresent {
			continue
		}

		// Re-read so the filter sees the state the lifecycle check
		// may just have written.
		a, err = s.Auctions.GetByTextbook(ctx, tID)
		if err != nil {
			return nil, err
		}
		if a.IsCurrent {
			results = append(results, tID)
		}
	}
	return results, nil
}
