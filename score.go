package main

import (
	"fmt"
	"sort"
	"strings"
)

// Scoring constants. Multipliers apply to the running score in pipeline order.
const (
	baseScore = 100.0

	chainBonusPerGroup = 15.0

	paralysisImmuneMul = 0.1
	slowImmuneMul      = 0.5
	projectileBlockMul = 0.0
	beamBypassMul      = 1.2

	weaknessMul   = 1.5
	resistanceMul = 0.5

	stealthRevealAdd = 40.0
	stealthAreaAdd   = 10.0
	stealthBlindMul  = 0.6

	swarmAreaMul   = 1.2
	swarmSingleMul = 0.8
)

type activeChain struct {
	Group string
	Step  int
}

// activeChains returns the chain groups the tower has a card equipped in,
// keeping only the highest step per group, sorted by group name.
func activeChains(cat *Catalog, towerID string, equipped []string) []activeChain {
	steps := make(map[string]int)
	for _, name := range equipped {
		card := cat.TowerCard(towerID, name)
		if card == nil || card.Type != CardChain || card.ChainGroup == "" {
			continue
		}
		if s, ok := steps[card.ChainGroup]; !ok || card.ChainStep > s {
			steps[card.ChainGroup] = card.ChainStep
		}
	}
	out := make([]activeChain, 0, len(steps))
	for g, s := range steps {
		out = append(out, activeChain{g, s})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Group < out[j].Group })
	return out
}

// effectiveTags is the tower's catalog tags plus every tag implied by its
// equipped cards. The catalog record is left untouched.
func effectiveTags(cat *Catalog, tower *Tower, equipped []string) tagSet {
	tags := newTagSet(tower.DamageTags...)
	for _, name := range equipped {
		for _, t := range inferCardTags(cat.cardName(tower.ID, name)) {
			tags.add(t.String())
		}
	}
	return tags
}

// matchesAny reports the first of the tower's primary type or effective tags
// found in list.
func matchesAny(list []string, primary DamageType, tags tagSet) (string, bool) {
	if len(list) == 0 {
		return "", false
	}
	if p := primary.String(); p != "" && containsFold(list, p) {
		return p, true
	}
	for _, s := range list {
		if tags.has(s) {
			return s, true
		}
	}
	return "", false
}

// Score rates one tower against one enemy under the given loadout and returns
// the truncated score plus the rationale notes in the order the rules fired.
// It has no side effects and is safe for concurrent use.
func Score(cat *Catalog, enemy *Enemy, tower *Tower, lo Loadout) (int, []string) {
	score := baseScore
	var notes []string

	equipped := lo.Cards(tower.ID)

	// 1. chain bonus
	if chains := activeChains(cat, tower.ID, equipped); len(chains) > 0 {
		score += chainBonusPerGroup * float64(len(chains))
		parts := make([]string, len(chains))
		for i, ch := range chains {
			parts[i] = fmt.Sprintf("%s(%d)", ch.Group, ch.Step)
		}
		notes = append(notes, fmt.Sprintf("Chain active: %s (+%d)",
			strings.Join(parts, ", "), int(chainBonusPerGroup)*len(chains)))
	}

	// 2. effective tags
	tags := effectiveTags(cat, tower, equipped)

	// 3. immunities
	enemyTags := newTagSet(enemy.Tags...)
	immune := newTagSet(enemy.Immunities...)
	if immune.has("Paralysis") && tags.has("Paralyze") {
		score *= paralysisImmuneMul
		notes = append(notes, "Immune to Paralysis (x0.1)")
	}
	if immune.has("Slow") && tags.has("Slow") {
		score *= slowImmuneMul
		notes = append(notes, "Immune to Slow (x0.5)")
	}
	blocked := false
	if enemyTags.has("Projectile Block") {
		if tags.has("Projectile") {
			score *= projectileBlockMul
			blocked = true
			notes = append(notes, "Projectiles blocked (x0)")
		}
		if tags.hasAny("Beam", "Lightning") {
			score *= beamBypassMul
			notes = append(notes, "Bypasses projectile block (x1.2)")
		}
	}

	// 4. weakness / resistance
	if m, ok := matchesAny(enemy.WeaknessTypes, tower.DamageType, tags); ok {
		score *= weaknessMul
		notes = append(notes, fmt.Sprintf("Weakness: %s (x1.5)", m))
	}
	if m, ok := matchesAny(enemy.ResistanceTypes, tower.DamageType, tags); ok {
		score *= resistanceMul
		notes = append(notes, fmt.Sprintf("Resisted: %s (x0.5)", m))
	}

	// 5. stealth; a blocked tower never reaches the target
	if enemyTags.hasAny("Invisible", "Stealth") && !blocked {
		switch {
		case tags.has("Stealth Reveal"):
			score += stealthRevealAdd
			notes = append(notes, "Reveals stealth (+40)")
		case tags.has("Area"):
			score += stealthAreaAdd
			notes = append(notes, "Area hits stealth (+10)")
		default:
			score *= stealthBlindMul
			notes = append(notes, "Cannot see stealth (x0.6)")
		}
	}

	// 6. swarm / splitter
	if enemyTags.hasAny("Swarm", "Splitter") {
		if tags.has("Area") || strings.Contains(tower.Role, "Chain") {
			score *= swarmAreaMul
			notes = append(notes, "Good vs swarm (x1.2)")
		}
		if strings.Contains(tower.Role, "Single Target") {
			score *= swarmSingleMul
			notes = append(notes, "Single target vs swarm (x0.8)")
		}
	}

	if blocked {
		return 0, notes
	}
	return int(score), notes
}
