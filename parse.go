package main

import (
	"fmt"
)

// Request is one optimization run: three wave enemies, the towers on hand and
// the cards equipped on them.
type Request struct {
	Enemies []string
	Towers  []string
	Loadout Loadout
	Mode    Mode
}

// RequestFromSetup builds a request from a weekly setup. Explicit enemy ids
// override the first three entries of the setup's enemy pool.
func RequestFromSetup(s Setup, enemies []string, mode Mode) Request {
	if len(enemies) == 0 {
		enemies = s.EnemyPool
		if len(enemies) > numWaves {
			enemies = enemies[:numWaves]
		}
	}
	return Request{
		Enemies: enemies,
		Towers:  s.Towers,
		Loadout: s.Loadout,
		Mode:    mode,
	}
}

func runRequest(cat *Catalog, req Request, cfg Config) (*Result, error) {
	if len(req.Enemies) < numWaves {
		return nil, fmt.Errorf("%w: need %d wave enemies, got %d", ErrInvalidWaveInput, numWaves, len(req.Enemies))
	}
	enemies, err := ResolveEnemies(cat, req.Enemies)
	if err != nil {
		return nil, err
	}
	opt := NewOptimizer(cat, req.Loadout, cfg)
	return opt.Optimize(enemies, req.Towers, req.Mode)
}

// ScoreOne scores a single enemy/tower pair by id.
func ScoreOne(cat *Catalog, enemyID, towerID string, lo Loadout) (int, []string, error) {
	e := cat.Enemy(enemyID)
	if e == nil {
		return 0, nil, fmt.Errorf("%w: %q", ErrUnknownEnemy, enemyID)
	}
	t := cat.Tower(towerID)
	if t == nil {
		return 0, nil, fmt.Errorf("%w: %q", ErrUnknownTower, towerID)
	}
	score, notes := Score(cat, e, t, lo)
	return score, notes, nil
}
