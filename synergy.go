package main

import (
	"fmt"
	"strings"
)

const (
	comboBaseFactor   = 10.0
	comboWeakMul      = 1.5
	comboResistMul    = 0.5
	burnTacticMul     = 1.4
	slowTacticMul     = 1.3
	vulnerableWaveMul = 1.15
)

// Tactics are roster-wide conditions: a tactic is active when any owned
// tower has a card equipped that implies it.
type Tactics struct {
	Burn bool
	Slow bool
}

// rosterTactics scans the loadout of the given towers only; cards equipped on
// towers outside the roster do not count.
func rosterTactics(cat *Catalog, lo Loadout, roster []string) Tactics {
	var t Tactics
	for _, towerID := range roster {
		for _, name := range lo.Cards(towerID) {
			for _, tag := range inferCardTags(cat.cardName(towerID, name)) {
				switch tag {
				case InfBurn:
					t.Burn = true
				case InfSlow:
					t.Slow = true
				}
			}
		}
	}
	return t
}

// Synergy is the combo contribution of one wave grouping.
// Wave total = raw tower sum * RawMultiplier + Bonus.
type Synergy struct {
	Bonus         float64
	RawMultiplier float64
	Notes         []string
}

// EvaluateSynergy sums the combo bonuses of every tower pair in the wave.
// Each Vulnerable combo scales RawMultiplier by 1.15; several such combos stack.
func EvaluateSynergy(cat *Catalog, wave []string, enemy *Enemy, tactics Tactics) Synergy {
	syn := Synergy{RawMultiplier: 1}
	for i := 0; i < len(wave); i++ {
		for j := i + 1; j < len(wave); j++ {
			for _, card := range cat.Combos(wave[i], wave[j]) {
				v, vulnerable := comboValue(card, enemy, tactics)
				syn.Bonus += v
				if vulnerable {
					syn.RawMultiplier *= vulnerableWaveMul
				}
				syn.Notes = append(syn.Notes, comboNote(cat, card, v, vulnerable))
			}
		}
	}
	return syn
}

func comboValue(card *Card, enemy *Enemy, tactics Tactics) (float64, bool) {
	v := float64(card.Score) * comboBaseFactor
	p := classifyCombo(card)

	weak, resist := false, false
	for _, el := range p.Elements {
		name := el.String()
		if containsFold(enemy.WeaknessTypes, name) {
			weak = true
		}
		if containsFold(enemy.ResistanceTypes, name) {
			resist = true
		}
	}
	if weak {
		v *= comboWeakMul
	}
	if resist {
		v *= comboResistMul
	}
	if p.Burn && tactics.Burn {
		v *= burnTacticMul
	}
	if p.Slow && tactics.Slow {
		v *= slowTacticMul
	}
	return v, p.Vulnerable
}

func comboNote(cat *Catalog, card *Card, v float64, vulnerable bool) string {
	partner := card.ComboPartner
	if t := cat.Tower(partner); t != nil {
		partner = t.Name
	}
	owner := card.TowerID
	if t := cat.Tower(owner); t != nil {
		owner = t.Name
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Combo %s (%s + %s) +%.0f", card.Name, owner, partner, v)
	if vulnerable {
		b.WriteString(", vulnerable x1.15")
	}
	return b.String()
}
