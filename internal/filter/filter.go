package filter

import (
	"sort"
	"strings"

	"github.com/ziedsaddem/hotelbooking/internal/mygo"
	"github.com/ziedsaddem/hotelbooking/internal/ranking"
)

// Criteria narrows supplier results client-side. MyGO's search endpoint
// only understands city, dates, and rooms; keyword, category, and tag
// filtering happens here after the results come back.
type Criteria struct {
	Keywords   string
	Categories []int
	Tags       []int
}

func Apply(hotels []mygo.Hotel, criteria Criteria, sortBy, sortOrder string) []mygo.Hotel {
	filtered := applyCriteria(hotels, criteria)

	if sortBy == "best_value" {
		filtered = ranking.CalculateScores(filtered)
	}

	return applySort(filtered, sortBy, sortOrder)
}

func applyCriteria(hotels []mygo.Hotel, criteria Criteria) []mygo.Hotel {
	result := make([]mygo.Hotel, 0, len(hotels))
	for _, h := range hotels {
		if matches(h, criteria) {
			result = append(result, h)
		}
	}
	return result
}

func matches(h mygo.Hotel, criteria Criteria) bool {
	if criteria.Keywords != "" {
		if !strings.Contains(strings.ToLower(h.Name), strings.ToLower(criteria.Keywords)) {
			return false
		}
	}

	if len(criteria.Categories) > 0 {
		found := false
		for _, c := range criteria.Categories {
			if h.Category == c {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(criteria.Tags) > 0 {
		found := false
		for _, want := range criteria.Tags {
			for _, have := range h.Tags {
				if want == have {
					found = true
					break
				}
			}
		}
		if !found {
			return false
		}
	}

	return true
}

func applySort(hotels []mygo.Hotel, sortBy, sortOrder string) []mygo.Hotel {
	if len(hotels) == 0 {
		return hotels
	}

	ascending := strings.ToLower(sortOrder) != "desc"

	switch strings.ToLower(sortBy) {
	case "price":
		sort.SliceStable(hotels, func(i, j int) bool {
			if ascending {
				return hotels[i].MinPrice < hotels[j].MinPrice
			}
			return hotels[i].MinPrice > hotels[j].MinPrice
		})

	case "category":
		sort.SliceStable(hotels, func(i, j int) bool {
			if ascending {
				return hotels[i].Category < hotels[j].Category
			}
			return hotels[i].Category > hotels[j].Category
		})

	case "name":
		sort.SliceStable(hotels, func(i, j int) bool {
			if ascending {
				return hotels[i].Name < hotels[j].Name
			}
			return hotels[i].Name > hotels[j].Name
		})

	case "best_value":
		sort.SliceStable(hotels, func(i, j int) bool {
			if ascending {
				return hotels[i].BestValueScore < hotels[j].BestValueScore
			}
			return hotels[i].BestValueScore > hotels[j].BestValueScore
		})

	default:
		// Default to price ascending
		sort.SliceStable(hotels, func(i, j int) bool {
			return hotels[i].MinPrice < hotels[j].MinPrice
		})
	}

	return hotels
}
