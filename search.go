package main

import (
	"errors"
	"fmt"
	"math/bits"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	numWaves      = 3
	towersPerWave = 3
	minInventory  = numWaves * towersPerWave
)

var (
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrInvalidWaveInput      = errors.New("invalid wave input")
	ErrUnknownTower          = errors.New("unknown tower")
	ErrUnknownEnemy          = errors.New("unknown enemy")
)

// Mode selects the optimization objective.
type Mode int

const (
	// ModeBalanced maximizes the sum of all three wave totals.
	ModeBalanced Mode = iota
	// ModeBestTwoOfThree maximizes the sum of the two best wave totals; the
	// weakest wave is conceded.
	ModeBestTwoOfThree
)

func (m Mode) String() string {
	if m == ModeBestTwoOfThree {
		return "best-two-of-three"
	}
	return "balanced"
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "balanced":
		return ModeBalanced, nil
	case "best-two-of-three", "best2of3", "b2o3":
		return ModeBestTwoOfThree, nil
	}
	return ModeBalanced, fmt.Errorf("unknown mode %q", s)
}

// ── Results ─────────────────────────────────────────────────────────

// TowerScore is one tower's effectiveness against its wave's enemy.
type TowerScore struct {
	TowerID string   `json:"towerId"`
	Name    string   `json:"name"`
	Score   int      `json:"score"`
	Notes   []string `json:"notes,omitempty"`
}

// WaveResult holds the towers assigned to one wave and the wave's score breakdown.
type WaveResult struct {
	EnemyID    string       `json:"enemyId"`
	EnemyName  string       `json:"enemyName"`
	Towers     []TowerScore `json:"towers"`
	RawSum     int          `json:"rawSum"`
	Multiplier float64      `json:"multiplier"`
	Bonus      float64      `json:"bonus"`
	Combos     []string     `json:"combos,omitempty"`
	Total      float64      `json:"total"`
}

// Result is the best assignment found by Optimize.
type Result struct {
	Mode       string               `json:"mode"`
	Waves      [numWaves]WaveResult `json:"waves"`
	Objective  float64              `json:"objective"`
	Sacrifice  int                  `json:"sacrifice"` // wave index, -1 unless best-two-of-three
	WorkingSet []string             `json:"workingSet"`
	Evaluated  int                  `json:"evaluated"`
	Elapsed    time.Duration        `json:"-"`
}

// ── Optimizer ───────────────────────────────────────────────────────

// Optimizer searches tower-to-wave partitions for one loadout. It only reads
// the catalog and loadout, so one Optimizer may serve concurrent calls.
type Optimizer struct {
	cat     *Catalog
	loadout Loadout
	cfg     Config
}

// NewOptimizer creates an optimizer for the given catalog, loadout and tuning.
func NewOptimizer(cat *Catalog, lo Loadout, cfg Config) *Optimizer {
	return &Optimizer{
		cat:     cat,
		loadout: lo,
		cfg:     cfg,
	}
}

// search holds the per-call tables shared read-only by the workers.
type search struct {
	mode    Mode
	tactics Tactics
	towers  []*Tower // working set, best aggregate utility first
	scores  [numWaves][]int
	notes   [numWaves][][]string
	triples []uint64            // every 3-subset of the working set, lexicographic
	totals  [numWaves][]float64 // totals[w][tripleIdx]
	synergy [numWaves][]Synergy
}

type partition struct {
	idx       [numWaves]int // triple indices
	totals    [numWaves]float64
	objective float64
	found     bool
	evaluated int
}

// Optimize assigns three disjoint groups of three towers to the three wave
// enemies. Inventory is pruned to the Config.WorkingSetSize towers with the
// best summed score before the exhaustive search, so the result is optimal
// for that working set only.
func (o *Optimizer) Optimize(enemies []*Enemy, inventory []string, mode Mode) (*Result, error) {
	start := time.Now()

	if len(enemies) < numWaves {
		return nil, fmt.Errorf("%w: need %d wave enemies, got %d", ErrInvalidWaveInput, numWaves, len(enemies))
	}
	enemies = enemies[:numWaves]
	for i, e := range enemies {
		if e == nil {
			return nil, fmt.Errorf("%w: wave %d has no enemy", ErrInvalidWaveInput, i+1)
		}
	}

	towers, err := o.resolveInventory(inventory)
	if err != nil {
		return nil, err
	}

	s := &search{mode: mode, tactics: o.inventoryTactics(towers)}
	s.towers = o.workingSet(enemies, towers)
	o.buildTables(s, enemies)
	if Verbose {
		fmt.Fprintf(logw(), "[verbose/init] inventory=%d working=%d triples=%d mode=%s\n",
			len(towers), len(s.towers), len(s.triples), mode)
	}

	best := o.enumerate(s)
	if !best.found {
		return nil, fmt.Errorf("%w: no complete partition", ErrInsufficientInventory)
	}

	res := s.result(o, enemies, best)
	res.Elapsed = time.Since(start)
	if Verbose {
		fmt.Fprintf(logw(), "[verbose/done] objective=%.1f evaluated=%d elapsed=%v\n",
			res.Objective, res.Evaluated, res.Elapsed)
	}
	return res, nil
}

func (o *Optimizer) resolveInventory(inventory []string) ([]*Tower, error) {
	seen := make(map[string]bool, len(inventory))
	var towers []*Tower
	for _, id := range inventory {
		if seen[id] {
			continue
		}
		seen[id] = true
		t := o.cat.Tower(id)
		if t == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTower, id)
		}
		towers = append(towers, t)
	}
	if len(towers) < minInventory {
		return nil, fmt.Errorf("%w: need %d towers, got %d", ErrInsufficientInventory, minInventory, len(towers))
	}
	return towers, nil
}

// inventoryTactics reads tactics from every owned tower, including those the
// working set later drops.
func (o *Optimizer) inventoryTactics(towers []*Tower) Tactics {
	ids := make([]string, len(towers))
	for i, t := range towers {
		ids[i] = t.ID
	}
	return rosterTactics(o.cat, o.loadout, ids)
}

// workingSet ranks towers by their score summed over all waves and keeps the
// top WorkingSetSize. Ties keep inventory order.
func (o *Optimizer) workingSet(enemies []*Enemy, towers []*Tower) []*Tower {
	type ranked struct {
		t    *Tower
		util int
	}
	rs := make([]ranked, len(towers))
	for i, t := range towers {
		u := 0
		for _, e := range enemies {
			sc, _ := Score(o.cat, e, t, o.loadout)
			u += sc
		}
		rs[i] = ranked{t, u}
	}
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].util > rs[j].util })

	size := o.cfg.WorkingSetSize
	if size < minInventory {
		size = minInventory
	}
	if size > 64 {
		size = 64 // triples are uint64 masks
	}
	if size > len(rs) {
		size = len(rs)
	}
	out := make([]*Tower, size)
	for i := range out {
		out[i] = rs[i].t
	}
	return out
}

func (o *Optimizer) buildTables(s *search, enemies []*Enemy) {
	n := len(s.towers)
	for w, e := range enemies {
		s.scores[w] = make([]int, n)
		s.notes[w] = make([][]string, n)
		for i, t := range s.towers {
			s.scores[w][i], s.notes[w][i] = Score(o.cat, e, t, o.loadout)
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				s.triples = append(s.triples, uint64(1)<<i|uint64(1)<<j|uint64(1)<<k)
			}
		}
	}

	ids := make([]string, towersPerWave)
	for w, e := range enemies {
		s.totals[w] = make([]float64, len(s.triples))
		s.synergy[w] = make([]Synergy, len(s.triples))
		for ti, mask := range s.triples {
			raw := 0
			ids = ids[:0]
			for m := mask; m != 0; m &= m - 1 {
				i := bits.TrailingZeros64(m)
				raw += s.scores[w][i]
				ids = append(ids, s.towers[i].ID)
			}
			syn := EvaluateSynergy(o.cat, ids, e, s.tactics)
			s.synergy[w][ti] = syn
			s.totals[w][ti] = float64(raw)*syn.RawMultiplier + syn.Bonus
		}
	}
}

func objective(mode Mode, totals [numWaves]float64) float64 {
	sum := 0.0
	for _, t := range totals {
		sum += t
	}
	if mode == ModeBestTwoOfThree {
		sum -= totals[weakestWave(totals)]
	}
	return sum
}

// weakestWave is the arg-min of the wave totals; the first wave wins ties.
func weakestWave(totals [numWaves]float64) int {
	w := 0
	for i := 1; i < numWaves; i++ {
		if totals[i] < totals[w] {
			w = i
		}
	}
	return w
}

// bestFrom searches every partition whose first wave is triple t1.
// Enumeration order is fixed; only a strictly better objective replaces the best.
func (s *search) bestFrom(t1 int) partition {
	var best partition
	m1 := s.triples[t1]
	for t2, m2 := range s.triples {
		if m2&m1 != 0 {
			continue
		}
		used := m1 | m2
		for t3, m3 := range s.triples {
			if m3&used != 0 {
				continue
			}
			totals := [numWaves]float64{s.totals[0][t1], s.totals[1][t2], s.totals[2][t3]}
			obj := objective(s.mode, totals)
			best.evaluated++
			if !best.found || obj > best.objective {
				best.idx = [numWaves]int{t1, t2, t3}
				best.totals = totals
				best.objective = obj
				best.found = true
			}
		}
	}
	return best
}

// enumerate fans the first-wave choices out to worker goroutines and merges
// their bests in enumeration order, so the result does not depend on Workers.
func (o *Optimizer) enumerate(s *search) partition {
	numJobs := len(s.triples)
	numWorkers := o.cfg.workers()
	if numWorkers > numJobs {
		numWorkers = numJobs
	}

	results := make([]partition, numJobs)
	jobCh := make(chan int, numJobs)
	for i := 0; i < numJobs; i++ {
		jobCh <- i
	}
	close(jobCh)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t1 := range jobCh {
				results[t1] = s.bestFrom(t1)
			}
		}()
	}
	wg.Wait()

	var best partition
	evaluated := 0
	for _, r := range results {
		evaluated += r.evaluated
		if r.found && (!best.found || r.objective > best.objective) {
			best = r
		}
	}
	best.evaluated = evaluated
	return best
}

func (s *search) result(o *Optimizer, enemies []*Enemy, best partition) *Result {
	res := &Result{
		Mode:      s.mode.String(),
		Objective: best.objective,
		Sacrifice: -1,
		Evaluated: best.evaluated,
	}
	for _, t := range s.towers {
		res.WorkingSet = append(res.WorkingSet, t.ID)
	}
	for w, e := range enemies {
		ti := best.idx[w]
		syn := s.synergy[w][ti]
		wr := WaveResult{
			EnemyID:    e.ID,
			EnemyName:  e.Name,
			Multiplier: syn.RawMultiplier,
			Bonus:      syn.Bonus,
			Combos:     syn.Notes,
			Total:      s.totals[w][ti],
		}
		for m := s.triples[ti]; m != 0; m &= m - 1 {
			i := bits.TrailingZeros64(m)
			t := s.towers[i]
			wr.RawSum += s.scores[w][i]
			wr.Towers = append(wr.Towers, TowerScore{
				TowerID: t.ID,
				Name:    t.Name,
				Score:   s.scores[w][i],
				Notes:   s.notes[w][i],
			})
		}
		res.Waves[w] = wr
	}
	if s.mode == ModeBestTwoOfThree {
		res.Sacrifice = weakestWave(best.totals)
	}
	return res
}

// ResolveEnemies maps enemy ids to catalog records.
func ResolveEnemies(cat *Catalog, ids []string) ([]*Enemy, error) {
	out := make([]*Enemy, 0, len(ids))
	for _, id := range ids {
		e := cat.Enemy(id)
		if e == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEnemy, id)
		}
		out = append(out, e)
	}
	return out, nil
}

func logw() *os.File { return os.Stderr }
