package rules

import "math/rand"

// FoodScore is the score awarded for each food eaten.
const FoodScore = 10

// generateFood samples random cells until one is off the snake. After
// maxAttempts misses it picks uniformly from the free cells instead, and
// returns nil when there are none.
func generateFood(rng *rand.Rand, width, height int, snake []Point, maxAttempts int) *Point {
	if width <= 0 || height <= 0 {
		return nil
	}
	for i := 0; i < maxAttempts; i++ {
		p := Point{X: rng.Intn(width), Y: rng.Intn(height)}
		if !contains(snake, p) {
			return &p
		}
	}

	open := getUnoccupiedPoints(width, height, snake)
	if len(open) == 0 {
		return nil
	}
	p := open[rng.Intn(len(open))]
	return &p
}

func getUnoccupiedPoints(width, height int, snake []Point) []Point {
	occupied := make(map[Point]struct{}, len(snake))
	for _, b := range snake {
		occupied[b] = struct{}{}
	}

	capacity := width*height - len(occupied)
	if capacity < 0 {
		capacity = 0
	}
	candidates := make([]Point, 0, capacity)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			p := Point{X: x, Y: y}
			if _, ok := occupied[p]; !ok {
				candidates = append(candidates, p)
			}
		}
	}
	return candidates
}
