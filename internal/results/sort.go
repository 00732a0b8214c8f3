package results

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/Paintersrp/ancards/internal/search"
)

// Sort names an ordering of the result set.
type Sort string

const (
	SortTitleAsc  Sort = "title-asc"
	SortTitleDesc Sort = "title-desc"
	SortMtimeDesc Sort = "mtime-desc"
	SortMtimeAsc  Sort = "mtime-asc"
	SortCtimeDesc Sort = "ctime-desc"
	SortCtimeAsc  Sort = "ctime-asc"
	SortRandom    Sort = "random"
)

// DefaultSort is used when a view has no stored sort.
const DefaultSort = SortMtimeDesc

// Sorts lists every ordering in cycling order.
var Sorts = []Sort{
	SortMtimeDesc,
	SortMtimeAsc,
	SortCtimeDesc,
	SortCtimeAsc,
	SortTitleAsc,
	SortTitleDesc,
	SortRandom,
}

// ParseSort resolves a stored sort name. Unknown names return DefaultSort and
// false.
func ParseSort(value string) (Sort, bool) {
	candidate := Sort(strings.ToLower(strings.TrimSpace(value)))
	for _, s := range Sorts {
		if s == candidate {
			return s, true
		}
	}
	return DefaultSort, false
}

// Next returns the sort that follows s when cycling.
func (s Sort) Next() Sort {
	for i, candidate := range Sorts {
		if candidate == s {
			return Sorts[(i+1)%len(Sorts)]
		}
	}
	return DefaultSort
}

// Label is a short human readable name.
func (s Sort) Label() string {
	switch s {
	case SortTitleAsc:
		return "Title A→Z"
	case SortTitleDesc:
		return "Title Z→A"
	case SortMtimeDesc:
		return "Modified (newest)"
	case SortMtimeAsc:
		return "Modified (oldest)"
	case SortCtimeDesc:
		return "Created (newest)"
	case SortCtimeAsc:
		return "Created (oldest)"
	case SortRandom:
		return "Shuffled"
	default:
		return string(s)
	}
}

// order sorts docs in place. Ties fall back to path so every order is total.
func order(docs []search.Document, by Sort, seed int64) {
	if by == SortRandom {
		sort.SliceStable(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
		rng := rand.New(rand.NewSource(seed))
		rng.Shuffle(len(docs), func(i, j int) { docs[i], docs[j] = docs[j], docs[i] })
		return
	}

	sort.SliceStable(docs, func(i, j int) bool {
		a, b := docs[i], docs[j]
		switch by {
		case SortTitleAsc, SortTitleDesc:
			ta, tb := strings.ToLower(a.Name), strings.ToLower(b.Name)
			if ta != tb {
				if by == SortTitleAsc {
					return ta < tb
				}
				return ta > tb
			}
		case SortMtimeAsc:
			if !a.ModifiedAt.Equal(b.ModifiedAt) {
				return a.ModifiedAt.Before(b.ModifiedAt)
			}
		case SortCtimeDesc:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		case SortCtimeAsc:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		default:
			if !a.ModifiedAt.Equal(b.ModifiedAt) {
				return a.ModifiedAt.After(b.ModifiedAt)
			}
		}
		return a.Path < b.Path
	})
}
