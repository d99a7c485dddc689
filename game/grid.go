package game

import (
	"math/rand"

	"snake-rooms/models"
)

// wrap keeps a coordinate on the torus: falling off one edge reappears on
// the opposite edge.
func wrap(v, size int) int {
	if v < 0 {
		return size - 1
	}
	if v >= size {
		return 0
	}
	return v
}

// nextCell computes the cell one step from c in direction d, with wraparound
// on both axes.
func nextCell(c models.Cell, d models.Dir, mapSize int) models.Cell {
	return models.Cell{
		X: wrap(c.X+d.X, mapSize),
		Y: wrap(c.Y+d.Y, mapSize),
	}
}

// randomOpenCell picks a uniformly random cell not present in occupied,
// by rejection sampling.
func randomOpenCell(mapSize int, occupied map[models.Cell]bool) models.Cell {
	for {
		c := models.Cell{X: rand.Intn(mapSize), Y: rand.Intn(mapSize)}
		if !occupied[c] {
			return c
		}
	}
}
