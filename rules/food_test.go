package rules

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateFoodAvoidsSnake(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	snake := []Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}
	for i := 0; i < 100; i++ {
		p := generateFood(rng, 4, 2, snake, 3)
		require.NotNil(t, p)
		require.Equal(t, 1, p.Y)
		require.True(t, p.In(4, 2))
	}
}

func TestGenerateFoodFallsBackToScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	snake := []Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	p := generateFood(rng, 2, 2, snake, 0)
	require.Equal(t, &Point{X: 1, Y: 1}, p)
}

func TestGenerateFoodFullBoard(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	snake := []Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	require.Nil(t, generateFood(rng, 2, 2, snake, 10))
}
