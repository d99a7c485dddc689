package game

import (
	"fmt"
	"time"

	"snake-rooms/constants"
	"snake-rooms/models"
)

// startLoopLocked launches the room's tick goroutine at the interval derived
// from the speed tier. Caller must hold r.mu.
func (r *Room) startLoopLocked() {
	if r.ticker != nil {
		return
	}
	r.ticker = time.NewTicker(r.tickInterval)
	r.loopStop = make(chan struct{})
	ticker, stop := r.ticker, r.loopStop
	go func() {
		for {
			select {
			case <-ticker.C:
				r.tick()
			case <-stop:
				return
			}
		}
	}()
}

// tick advances the simulation one step. Moves resolve against an occupancy
// map built from pre-tick positions and updated incrementally as each player
// commits, in join order; a later mover therefore sees an earlier mover's new
// head. One snapshot is broadcast at the end, never per player.
func (r *Room) tick() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ended {
		return
	}
	now := time.Now()
	if !r.endAt.IsZero() && !now.Before(r.endAt) {
		r.endLocked("timer")
		return
	}

	r.foods.expire(now)

	occupancy := make(map[models.Cell]string)
	for _, p := range r.players {
		if !p.Alive {
			continue
		}
		for _, part := range p.Body {
			occupancy[part] = p.ID
		}
	}

	for _, id := range r.order {
		player := r.players[id]
		if !player.Alive {
			continue
		}
		player.Dir = player.PendingDir
		next := nextCell(player.Body[0], player.Dir, r.options.MapSize)

		if occupantID, hit := occupancy[next]; hit {
			r.eliminateLocked(player, occupantID, now)
			continue
		}

		player.Body = append([]models.Cell{next}, player.Body...)
		occupancy[next] = player.ID

		consumed := false
		if r.foods.Food != nil && *r.foods.Food == next {
			player.Grow += constants.FOOD_GROW
			player.Score += constants.FOOD_SCORE
			consumed = true
			r.spawnFoodLocked()
		}
		if r.foods.Bonus != nil && *r.foods.Bonus == next {
			player.Grow += constants.BONUS_GROW
			player.Score += constants.BONUS_SCORE
			r.foods.Bonus = nil
			r.scheduleBonusLocked()
		}
		if r.foods.consumeDecomposed(next) {
			player.Grow += constants.DECOMPOSED_GROW
			player.Score += constants.DECOMPOSED_SCORE
		}

		if player.Grow > 0 {
			player.Grow--
		} else {
			player.Body = player.Body[:len(player.Body)-1]
		}

		if !consumed && r.foods.Food == nil {
			r.spawnFoodLocked()
		}
	}

	r.broadcastStateLocked()
}

// eliminateLocked resolves a mover driving its head into an occupied cell.
// The occupant's owner is the killer when alive, including the mover itself
// on self-collision. Teammates trigger friendly fire: the mover dies with no
// score movement. Either way the victim's body decomposes into timed food and
// a respawn is scheduled. Caller must hold r.mu.
func (r *Room) eliminateLocked(victim *Player, occupantID string, now time.Time) {
	killer := r.players[occupantID]

	teamMode := r.options.GameMode == constants.GAME_MODE_TEAM
	if teamMode && killer != nil && victim.Team != 0 && killer.Team == victim.Team {
		r.foods.decompose(victim.Body, now)
		victim.Alive = false
		r.broadcastSystemLocked(fmt.Sprintf("%s crashed into teammate %s!", victim.Name, killer.Name))
		r.scheduleRespawnLocked(victim.ID)
		return
	}

	victimLength := len(victim.Body)
	killBonus := constants.KILL_BASE_BONUS + victimLength*constants.KILL_SEGMENT_BONUS

	if killer != nil && killer.Alive {
		killer.Score += killBonus
		killer.Grow += victimLength / 3
		if teamMode && killer.Team != 0 {
			r.teams.addScore(killer.Team, killBonus)
		}
		r.broadcastSystemLocked(fmt.Sprintf("%s eliminated %s! +%d pts", killer.Name, victim.Name, killBonus))
	}

	r.foods.decompose(victim.Body, now)
	victim.Alive = false
	r.scheduleRespawnLocked(victim.ID)
}
