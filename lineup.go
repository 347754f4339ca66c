package main

import (
	"fmt"
	"sort"
)

// Lineup ranking for normal mode: one fixed anchor tower plus LineupSize-1
// others, rated on pairwise combo, chain and damage-tag diversity scores.

const (
	pairComboWeight     = 2
	pairChainWeight     = 3
	pairDiversityWeight = 2
	lineupEnemyBonus    = 10
	lineupPrefBonus     = 5
)

// PairScore is the cached synergy of two towers regardless of any enemy.
type PairScore struct {
	Combo       int
	Chain       int
	Diversity   int
	ComboCards  []*Card
	ChainGroups []string
}

func (p PairScore) Total() int { return p.Combo + p.Chain + p.Diversity }

// LineupQuery narrows and biases lineup ranking. Zero values disable a bias.
type LineupQuery struct {
	Anchor     string
	Size       int
	TopN       int
	Enemy      *Enemy     // +10 per tower whose damage type the enemy is weak to
	Preference DamageType // +5 per tower of this damage type
}

// Lineup is one ranked tower combination.
type Lineup struct {
	Towers    []string       `json:"towers"`
	Score     int            `json:"score"`
	Breakdown map[string]int `json:"breakdown"`
	Combos    []string       `json:"combos,omitempty"`
	Chains    []string       `json:"chains,omitempty"`
}

// pairScorer lazily caches PairScore per unordered pair.
type pairScorer struct {
	cat   *Catalog
	cache map[pairKey]PairScore
}

func newPairScorer(cat *Catalog) *pairScorer {
	return &pairScorer{cat: cat, cache: make(map[pairKey]PairScore)}
}

func (ps *pairScorer) get(a, b string) PairScore {
	k := makePair(a, b)
	if p, ok := ps.cache[k]; ok {
		return p
	}
	p := ps.compute(a, b)
	ps.cache[k] = p
	return p
}

func (ps *pairScorer) compute(a, b string) PairScore {
	var p PairScore
	for _, c := range ps.cat.Combos(a, b) {
		p.Combo += c.Score * pairComboWeight
		p.ComboCards = append(p.ComboCards, c)
	}

	p.ChainGroups = ps.sharedChainGroups(a, b)
	for _, g := range p.ChainGroups {
		maxStep := 0
		for _, id := range []string{a, b} {
			for _, c := range ps.cat.CardsOf(id) {
				if c.Type == CardChain && c.ChainGroup == g && c.ChainStep > maxStep {
					maxStep = c.ChainStep
				}
			}
		}
		p.Chain += maxStep * pairChainWeight
	}

	tags := newTagSet()
	for _, id := range []string{a, b} {
		if t := ps.cat.Tower(id); t != nil {
			for _, tag := range t.DamageTags {
				tags.add(tag)
			}
		}
	}
	p.Diversity = len(tags) * pairDiversityWeight
	return p
}

func (ps *pairScorer) sharedChainGroups(a, b string) []string {
	groups := func(id string) map[string]bool {
		m := make(map[string]bool)
		for _, c := range ps.cat.CardsOf(id) {
			if c.Type == CardChain && c.ChainGroup != "" {
				m[c.ChainGroup] = true
			}
		}
		return m
	}
	ga, gb := groups(a), groups(b)
	var out []string
	for g := range ga {
		if gb[g] {
			out = append(out, g)
		}
	}
	sort.Strings(out)
	return out
}

// RankLineups enumerates every lineup containing the anchor and returns the
// best TopN, highest score first. Equal scores keep enumeration order.
func RankLineups(cat *Catalog, q LineupQuery) ([]Lineup, error) {
	if cat.Tower(q.Anchor) == nil {
		return nil, fmt.Errorf("%w: anchor %q", ErrUnknownTower, q.Anchor)
	}
	var others []string
	for _, t := range cat.Towers {
		if t.ID != q.Anchor {
			others = append(others, t.ID)
		}
	}
	pick := q.Size - 1
	if pick < 1 || pick > len(others) {
		return nil, fmt.Errorf("%w: lineup of %d needs %d other towers, have %d",
			ErrInsufficientInventory, q.Size, pick, len(others))
	}

	ps := newPairScorer(cat)
	var results []Lineup
	idx := make([]int, pick)
	for i := range idx {
		idx[i] = i
	}
	for {
		towers := make([]string, 0, q.Size)
		towers = append(towers, q.Anchor)
		for _, i := range idx {
			towers = append(towers, others[i])
		}
		results = append(results, scoreLineup(cat, ps, towers, q))

		// next combination in lexicographic order
		i := pick - 1
		for i >= 0 && idx[i] == len(others)-pick+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < pick; j++ {
			idx[j] = idx[j-1] + 1
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if q.TopN > 0 && len(results) > q.TopN {
		results = results[:q.TopN]
	}
	return results, nil
}

func scoreLineup(cat *Catalog, ps *pairScorer, towers []string, q LineupQuery) Lineup {
	l := Lineup{Towers: towers, Breakdown: make(map[string]int)}
	for i := 0; i < len(towers); i++ {
		for j := i + 1; j < len(towers); j++ {
			p := ps.get(towers[i], towers[j])
			l.Score += p.Total()
			l.Breakdown["combo"] += p.Combo
			l.Breakdown["chain"] += p.Chain
			l.Breakdown["diversity"] += p.Diversity
			for _, c := range p.ComboCards {
				l.Combos = append(l.Combos, comboNote(cat, c, float64(c.Score*pairComboWeight), false))
			}
			l.Chains = append(l.Chains, p.ChainGroups...)
		}
	}
	if q.Enemy != nil {
		bonus := 0
		for _, id := range towers {
			if t := cat.Tower(id); t != nil && containsFold(q.Enemy.WeaknessTypes, t.DamageType.String()) {
				bonus += lineupEnemyBonus
			}
		}
		l.Score += bonus
		l.Breakdown["enemy"] = bonus
	}
	if q.Preference != DamageNone {
		bonus := 0
		for _, id := range towers {
			if t := cat.Tower(id); t != nil && t.DamageType == q.Preference {
				bonus += lineupPrefBonus
			}
		}
		l.Score += bonus
		l.Breakdown["preference"] = bonus
	}
	return l
}
