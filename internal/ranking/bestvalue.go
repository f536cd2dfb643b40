package ranking

import (
	"math"

	"github.com/ziedsaddem/hotelbooking/internal/mygo"
)

const (
	PriceWeight    = 0.6
	CategoryWeight = 0.4
)

func CalculateScores(hotels []mygo.Hotel) []mygo.Hotel {
	if len(hotels) == 0 {
		return hotels
	}

	maxPrice := findMaxPrice(hotels)

	result := make([]mygo.Hotel, len(hotels))
	for i, h := range hotels {
		result[i] = h
		result[i].BestValueScore = CalculateBestValue(h, maxPrice)
	}

	return result
}

// Lower score = better value
func CalculateBestValue(hotel mygo.Hotel, maxPrice float64) float64 {
	priceScore := 0.0
	if maxPrice > 0 {
		priceScore = (hotel.MinPrice / maxPrice) * 100
	}

	// a 5-star hotel contributes 0, an unrated one the full penalty
	categoryScore := float64(5-clampCategory(hotel.Category)) * 20

	score := (priceScore * PriceWeight) + (categoryScore * CategoryWeight)
	return math.Round(score*100) / 100
}

func clampCategory(category int) int {
	if category < 0 {
		return 0
	}
	if category > 5 {
		return 5
	}
	return category
}

func findMaxPrice(hotels []mygo.Hotel) float64 {
	maxPrice := 0.0
	for _, h := range hotels {
		if h.MinPrice > maxPrice {
			maxPrice = h.MinPrice
		}
	}
	return maxPrice
}
