package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Catalog files are either a JSON array of records or an object keyed by id.
// Absent collections decode as empty; absent scalars take their zero value.
const (
	towersFile  = "towers.json"
	enemiesFile = "enemies.json"
	cardsFile   = "cards.json"
)

// forEachRecord visits every record of a list-or-object document together
// with its identifier: the object key, or "id" then "name" for array items.
func forEachRecord(doc string, fn func(id string, v gjson.Result)) {
	gjson.Parse(doc).ForEach(func(key, v gjson.Result) bool {
		if !v.IsObject() {
			return true
		}
		id := key.String()
		if key.Type != gjson.String {
			id = firstString(v, "id", "name")
		}
		fn(id, v)
		return true
	})
}

func firstString(v gjson.Result, paths ...string) string {
	for _, p := range paths {
		if r := v.Get(p); r.Exists() && r.String() != "" {
			return r.String()
		}
	}
	return ""
}

func readStrings(v gjson.Result) []string {
	if !v.Exists() {
		return nil
	}
	if !v.IsArray() {
		if s := v.String(); s != "" {
			return []string{s}
		}
		return nil
	}
	arr := v.Array()
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s := item.String(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseTowers(doc string) []Tower {
	var out []Tower
	forEachRecord(doc, func(id string, v gjson.Result) {
		out = append(out, Tower{
			ID:         id,
			Name:       firstString(v, "name", "id"),
			DamageType: parseDamageType(firstString(v, "damage_type", "type")),
			DamageTags: readStrings(v.Get("damage_tags")),
			Role:       v.Get("role").String(),
		})
	})
	return out
}

func parseEnemies(doc string) []Enemy {
	var out []Enemy
	forEachRecord(doc, func(id string, v gjson.Result) {
		out = append(out, Enemy{
			ID:              id,
			Name:            firstString(v, "name", "id"),
			Faction:         v.Get("faction").String(),
			Type:            parseEnemyType(v.Get("type").String()),
			Tags:            readStrings(v.Get("tags")),
			WeaknessTypes:   readStrings(v.Get("weakness_types")),
			ResistanceTypes: readStrings(v.Get("resistance_types")),
			Immunities:      readStrings(v.Get("immunities")),
		})
	})
	return out
}

func parseCards(doc string) []Card {
	var out []Card
	forEachRecord(doc, func(id string, v gjson.Result) {
		out = append(out, Card{
			ID:           id,
			Name:         firstString(v, "name", "id"),
			Description:  v.Get("description").String(),
			TowerID:      firstString(v, "tower_id", "tower"),
			Tier:         int(v.Get("tier").Int()),
			Type:         parseCardType(v.Get("type").String()),
			ComboPartner: v.Get("combo_partner").String(),
			Score:        int(v.Get("score").Int()),
			ChainGroup:   v.Get("chain_group").String(),
			ChainStep:    int(v.Get("chain_step").Int()),
		})
	})
	return out
}

func loadCatalogFromStrings(towersJSON, enemiesJSON, cardsJSON string) *Catalog {
	return NewCatalog(parseTowers(towersJSON), parseEnemies(enemiesJSON), parseCards(cardsJSON))
}

// LoadCatalog reads towers.json, enemies.json and cards.json from dir.
func LoadCatalog(dir string) (*Catalog, error) {
	docs := make([]string, 3)
	for i, name := range []string{towersFile, enemiesFile, cardsFile} {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if !gjson.ValidBytes(raw) {
			return nil, fmt.Errorf("read %s: invalid JSON", name)
		}
		docs[i] = string(raw)
	}
	return loadCatalogFromStrings(docs[0], docs[1], docs[2]), nil
}

// parseLoadout decodes {"<tower>": {"tier_1": [...], "tier_2": [...]}}.
// A bare array per tower is treated as tier 1.
func parseLoadout(v gjson.Result) Loadout {
	lo := make(Loadout)
	v.ForEach(func(tower, tiers gjson.Result) bool {
		m := make(map[int][]string)
		if tiers.IsArray() {
			m[1] = readStrings(tiers)
		} else {
			tiers.ForEach(func(key, cards gjson.Result) bool {
				if t, ok := parseTierKey(key.String()); ok {
					m[t] = append(m[t], readStrings(cards)...)
				}
				return true
			})
		}
		lo[tower.String()] = m
		return true
	})
	return lo
}

func parseTierKey(k string) (int, bool) {
	k = strings.TrimPrefix(strings.ToLower(k), "tier_")
	n, err := strconv.Atoi(k)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Setup is the user's weekly selection: enemy pool, owned towers and cards.
type Setup struct {
	EnemyPool []string
	Towers    []string
	Loadout   Loadout
}

func parseSetup(doc string) Setup {
	root := gjson.Parse(doc)
	return Setup{
		EnemyPool: readStrings(root.Get("weekly_enemy_pool")),
		Towers:    readStrings(root.Get("available_towers")),
		Loadout:   parseLoadout(root.Get("weekly_card_setup")),
	}
}

// LoadSetup reads a weekly setup file.
func LoadSetup(path string) (Setup, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Setup{}, fmt.Errorf("read setup: %w", err)
	}
	if !gjson.ValidBytes(raw) {
		return Setup{}, fmt.Errorf("read setup %s: invalid JSON", path)
	}
	return parseSetup(string(raw)), nil
}
