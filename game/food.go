package game

import (
	"math/rand"
	"time"

	"snake-rooms/constants"
	"snake-rooms/models"
)

// decomposedCell is one cell of an eliminated snake, edible until its expiry.
type decomposedCell struct {
	Cell      models.Cell
	ExpiresAt time.Time
}

// foodEconomy tracks the three food classes of a room: the single regular
// food cell, the transient bonus cell, and the decaying remains of eliminated
// snakes. All access is guarded by the room mutex.
type foodEconomy struct {
	Food       *models.Cell
	Bonus      *models.Cell
	Decomposed []decomposedCell
}

// decompose converts a snake body into decomposed food with a fixed TTL.
func (f *foodEconomy) decompose(body []models.Cell, now time.Time) {
	expires := now.Add(constants.DECOMPOSED_TTL)
	for _, part := range body {
		f.Decomposed = append(f.Decomposed, decomposedCell{Cell: part, ExpiresAt: expires})
	}
}

// expire drops every decomposed cell whose expiry has passed.
func (f *foodEconomy) expire(now time.Time) {
	kept := f.Decomposed[:0]
	for _, d := range f.Decomposed {
		if d.ExpiresAt.After(now) {
			kept = append(kept, d)
		}
	}
	f.Decomposed = kept
}

// consumeDecomposed removes one decomposed cell at c, reporting whether a
// match existed. Only the first match is taken.
func (f *foodEconomy) consumeDecomposed(c models.Cell) bool {
	for i, d := range f.Decomposed {
		if d.Cell == c {
			f.Decomposed = append(f.Decomposed[:i], f.Decomposed[i+1:]...)
			return true
		}
	}
	return false
}

// decomposedCells lists the current decomposed cells for the state snapshot.
func (f *foodEconomy) decomposedCells() []models.Cell {
	cells := make([]models.Cell, 0, len(f.Decomposed))
	for _, d := range f.Decomposed {
		cells = append(cells, d.Cell)
	}
	return cells
}

// spawnFood places the regular food cell on a random open cell.
// Caller must hold r.mu.
func (r *Room) spawnFoodLocked() {
	c := randomOpenCell(r.options.MapSize, r.occupiedLocked())
	r.foods.Food = &c
}

// scheduleBonusLocked restarts the bonus cycle: after a randomized delay the
// bonus cell appears, stays visible for a fixed duration, then disappears and
// the cycle restarts. A room that has ended never reschedules.
// Caller must hold r.mu.
func (r *Room) scheduleBonusLocked() {
	if r.bonusTimer != nil {
		r.bonusTimer.Stop()
	}
	if r.ended {
		return
	}
	delay := constants.BONUS_DELAY_MIN + time.Duration(rand.Int63n(int64(constants.BONUS_DELAY_JITTER)))
	r.bonusTimer = time.AfterFunc(delay, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.ended {
			return
		}
		c := randomOpenCell(r.options.MapSize, r.occupiedLocked())
		r.foods.Bonus = &c
		r.bonusHideTimer = time.AfterFunc(constants.BONUS_VISIBLE, func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			if r.ended {
				return
			}
			r.foods.Bonus = nil
			r.scheduleBonusLocked()
		})
	})
}
