package main

import "sort"

// BuildSetupSchema returns a draft-07 JSON Schema describing a weekly setup
// file for this catalog. Card enums list card ids per tower.
func BuildSetupSchema(cat *Catalog) map[string]any {
	enemyIDs := make([]string, 0, len(cat.Enemies))
	for _, e := range cat.Enemies {
		enemyIDs = append(enemyIDs, e.ID)
	}
	sort.Strings(enemyIDs)

	towerIDs := make([]string, 0, len(cat.Towers))
	for _, t := range cat.Towers {
		towerIDs = append(towerIDs, t.ID)
	}
	sort.Strings(towerIDs)

	cardsByTower := make(map[string][]string)
	for _, c := range cat.Cards {
		if c.TowerID == "" || c.ID == "" {
			continue
		}
		cardsByTower[c.TowerID] = append(cardsByTower[c.TowerID], c.ID)
	}

	setupProps := make(map[string]any)
	for _, id := range towerIDs {
		cards := cardsByTower[id]
		if len(cards) == 0 {
			continue
		}
		sort.Strings(cards)
		setupProps[id] = map[string]any{
			"type":        "object",
			"description": "Tiers for " + id,
			"patternProperties": map[string]any{
				`^tier_\d+$`: map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string", "enum": cards},
				},
			},
			"additionalProperties": false,
		}
	}

	return map[string]any{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"properties": map[string]any{
			"weekly_enemy_pool": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "enum": enemyIDs},
			},
			"available_towers": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "enum": towerIDs},
			},
			"weekly_card_setup": map[string]any{
				"type":                 "object",
				"description":          "Card configuration per tower organized by tiers.",
				"properties":           setupProps,
				"additionalProperties": false,
			},
		},
		"additionalProperties": true,
	}
}
