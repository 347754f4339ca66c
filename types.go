package main

import (
	"sort"
	"strings"
)

type DamageType int

const (
	DamageNone DamageType = iota
	DamagePhysical
	DamageElectric
	DamageFire
	DamageEnergy
	DamageForceField
)

var damageTypeNames = [...]string{
	DamageNone:       "",
	DamagePhysical:   "Physical",
	DamageElectric:   "Electric",
	DamageFire:       "Fire",
	DamageEnergy:     "Energy",
	DamageForceField: "Force-field",
}

func (d DamageType) String() string {
	if int(d) < len(damageTypeNames) {
		return damageTypeNames[d]
	}
	return ""
}

func parseDamageType(s string) DamageType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "physical", "phys":
		return DamagePhysical
	case "electric", "elec", "lightning":
		return DamageElectric
	case "fire":
		return DamageFire
	case "energy":
		return DamageEnergy
	case "force-field", "forcefield", "force field", "force":
		return DamageForceField
	}
	return DamageNone
}

type EnemyType int

const (
	EnemyNormal EnemyType = iota
	EnemyBoss
)

func parseEnemyType(s string) EnemyType {
	if strings.EqualFold(s, "Boss") {
		return EnemyBoss
	}
	return EnemyNormal
}

type CardType int

const (
	CardPlain CardType = iota
	CardCombo
	CardChain
)

func parseCardType(s string) CardType {
	switch strings.ToLower(s) {
	case "combo":
		return CardCombo
	case "chain":
		return CardChain
	}
	return CardPlain
}

type Tower struct {
	ID         string
	Name       string
	DamageType DamageType
	DamageTags []string
	Role       string
}

type Enemy struct {
	ID              string
	Name            string
	Faction         string
	Type            EnemyType
	Tags            []string
	WeaknessTypes   []string
	ResistanceTypes []string
	Immunities      []string
}

type Card struct {
	ID          string
	Name        string
	Description string
	TowerID     string
	Tier        int
	Type        CardType
	// Combo only
	ComboPartner string
	Score        int
	// Chain only
	ChainGroup string
	ChainStep  int
}

// Loadout maps tower id -> tier -> equipped card names. Duplicates are allowed.
type Loadout map[string]map[int][]string

// Cards returns every card name equipped on the tower, lowest tier first.
func (lo Loadout) Cards(towerID string) []string {
	tiers := lo[towerID]
	if len(tiers) == 0 {
		return nil
	}
	keys := make([]int, 0, len(tiers))
	for t := range tiers {
		keys = append(keys, t)
	}
	sort.Ints(keys)
	var out []string
	for _, t := range keys {
		out = append(out, tiers[t]...)
	}
	return out
}

// pairKey is an unordered tower pair; A <= B always.
type pairKey struct {
	A, B string
}

func makePair(a, b string) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Catalog is the immutable in-memory game data. Build it with NewCatalog and
// do not modify it afterwards: optimizer workers read it concurrently.
type Catalog struct {
	Towers  []Tower
	Enemies []Enemy
	Cards   []Card

	towerByID map[string]*Tower
	enemyByID map[string]*Enemy
	// byTower[towerID][cardName]
	byTower map[string]map[string]*Card
	synergy map[pairKey][]*Card
}

// NewCatalog indexes towers, enemies and cards and builds the synergy index.
func NewCatalog(towers []Tower, enemies []Enemy, cards []Card) *Catalog {
	c := &Catalog{
		Towers:    towers,
		Enemies:   enemies,
		Cards:     cards,
		towerByID: make(map[string]*Tower, len(towers)),
		enemyByID: make(map[string]*Enemy, len(enemies)),
		byTower:   make(map[string]map[string]*Card),
		synergy:   make(map[pairKey][]*Card),
	}
	for i := range c.Towers {
		c.towerByID[c.Towers[i].ID] = &c.Towers[i]
	}
	for i := range c.Enemies {
		c.enemyByID[c.Enemies[i].ID] = &c.Enemies[i]
	}
	for i := range c.Cards {
		card := &c.Cards[i]
		m := c.byTower[card.TowerID]
		if m == nil {
			m = make(map[string]*Card)
			c.byTower[card.TowerID] = m
		}
		m[card.Name] = card
		if card.ID != "" && card.ID != card.Name {
			m[card.ID] = card
		}
		if card.Type == CardCombo && card.ComboPartner != "" && card.ComboPartner != card.TowerID {
			k := makePair(card.TowerID, card.ComboPartner)
			c.synergy[k] = append(c.synergy[k], card)
		}
	}
	return c
}

func (c *Catalog) Tower(id string) *Tower { return c.towerByID[id] }

func (c *Catalog) Enemy(id string) *Enemy { return c.enemyByID[id] }

// TowerCard resolves an equipped card name (or id) on the given tower.
func (c *Catalog) TowerCard(towerID, name string) *Card {
	return c.byTower[towerID][name]
}

// cardName is the display name of an equipped card; unknown entries are
// returned as written.
func (c *Catalog) cardName(towerID, equipped string) string {
	if card := c.TowerCard(towerID, equipped); card != nil {
		return card.Name
	}
	return equipped
}

// CardsOf returns the tower's catalog cards in catalog order.
func (c *Catalog) CardsOf(towerID string) []*Card {
	var out []*Card
	for i := range c.Cards {
		if c.Cards[i].TowerID == towerID {
			out = append(out, &c.Cards[i])
		}
	}
	return out
}

// Combos returns the combo cards connecting the two towers, in either direction.
func (c *Catalog) Combos(a, b string) []*Card {
	return c.synergy[makePair(a, b)]
}

// tagSet is a case-insensitive set of tag strings.
type tagSet map[string]struct{}

func newTagSet(tags ...string) tagSet {
	s := make(tagSet, len(tags))
	for _, t := range tags {
		s.add(t)
	}
	return s
}

func (s tagSet) add(tag string) {
	if tag = strings.TrimSpace(tag); tag != "" {
		s[strings.ToLower(tag)] = struct{}{}
	}
}

func (s tagSet) has(tag string) bool {
	_, ok := s[strings.ToLower(tag)]
	return ok
}

func (s tagSet) hasAny(tags ...string) bool {
	for _, t := range tags {
		if s.has(t) {
			return true
		}
	}
	return false
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(strings.TrimSpace(s), v) {
			return true
		}
	}
	return false
}
