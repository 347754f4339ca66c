package main

import (
	"reflect"
	"testing"

	"github.com/tidwall/gjson"
)

func TestParseTowersListAndObjectForms(t *testing.T) {
	list := `[{"id": "g", "name": "Guardian", "damage_type": "Physical", "damage_tags": ["Projectile"], "role": "Single Target"},
		{"name": "nameless", "type": "lightning"}]`
	obj := `{"g": {"name": "Guardian", "damage_type": "Physical", "damage_tags": ["Projectile"], "role": "Single Target"},
		"nameless": {"type": "lightning"}}`

	for name, doc := range map[string]string{"list": list, "object": obj} {
		t.Run(name, func(t *testing.T) {
			towers := parseTowers(doc)
			if len(towers) != 2 {
				t.Fatalf("got %d towers, want 2", len(towers))
			}
			want := Tower{ID: "g", Name: "Guardian", DamageType: DamagePhysical,
				DamageTags: []string{"Projectile"}, Role: "Single Target"}
			if !reflect.DeepEqual(towers[0], want) {
				t.Errorf("tower 0 = %+v, want %+v", towers[0], want)
			}
			if towers[1].ID != "nameless" || towers[1].DamageType != DamageElectric {
				t.Errorf("tower 1 = %+v", towers[1])
			}
		})
	}
}

func TestParseEnemiesMissingFields(t *testing.T) {
	enemies := parseEnemies(`{"boss": {"name": "Big", "type": "boss", "tags": "Splitter"}, "bare": {}}`)
	if len(enemies) != 2 {
		t.Fatalf("got %d enemies", len(enemies))
	}
	boss := enemies[0]
	if boss.ID != "boss" || boss.Type != EnemyBoss || !reflect.DeepEqual(boss.Tags, []string{"Splitter"}) {
		t.Errorf("boss = %+v", boss)
	}
	bare := enemies[1]
	if bare.Name != "" || bare.Tags != nil || bare.WeaknessTypes != nil || bare.Type != EnemyNormal {
		t.Errorf("bare = %+v", bare)
	}
}

func TestParseCards(t *testing.T) {
	cards := parseCards(`[
		{"id": "lens", "name": "Gravity Lens", "tower": "vortex", "tier": 2, "type": "Combo", "combo_partner": "beam", "score": 9},
		{"id": "od", "name": "Overdrive", "tower_id": "g", "type": "chain", "chain_group": "Overdrive", "chain_step": 1},
		{"name": "Plain One", "tower_id": "g"}
	]`)
	if len(cards) != 3 {
		t.Fatalf("got %d cards", len(cards))
	}
	if c := cards[0]; c.TowerID != "vortex" || c.Type != CardCombo || c.Score != 9 || c.Tier != 2 {
		t.Errorf("combo card = %+v", c)
	}
	if c := cards[1]; c.Type != CardChain || c.ChainGroup != "Overdrive" || c.ChainStep != 1 {
		t.Errorf("chain card = %+v", c)
	}
	if c := cards[2]; c.ID != "Plain One" || c.Type != CardPlain {
		t.Errorf("plain card = %+v", c)
	}
}

func TestParseLoadout(t *testing.T) {
	lo := parseLoadout(gjson.Parse(`{
		"g": {"tier_2": ["b"], "tier_1": ["a", "a"], "notes": ["ignored"]},
		"t": ["x", "y"]
	}`))
	if got := lo.Cards("g"); !reflect.DeepEqual(got, []string{"a", "a", "b"}) {
		t.Errorf("g cards = %v", got)
	}
	if got := lo["t"][1]; !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("bare array tier 1 = %v", got)
	}
	if got := lo.Cards("missing"); got != nil {
		t.Errorf("missing tower cards = %v", got)
	}
}

func TestParseTierKey(t *testing.T) {
	for in, want := range map[string]int{"tier_1": 1, "TIER_3": 3, "2": 2, "tier_0": 0, "tier_x": 0} {
		got, ok := parseTierKey(in)
		if ok != (want > 0) || got != want {
			t.Errorf("parseTierKey(%q) = %d, %v", in, got, ok)
		}
	}
}

func TestLoadCatalogData(t *testing.T) {
	cat, setup := loadDataDir(t)
	if len(cat.Towers) != 11 || len(cat.Enemies) != 8 || len(cat.Cards) != 19 {
		t.Errorf("catalog sizes towers=%d enemies=%d cards=%d", len(cat.Towers), len(cat.Enemies), len(cat.Cards))
	}
	if e := cat.Enemy("rift_colossus"); e == nil || e.Type != EnemyBoss || e.Name != "Elite Rift Colossus" {
		t.Errorf("rift_colossus = %+v", e)
	}
	if got := cat.Combos("beam_turret", "gravity_vortex"); len(got) != 1 || got[0].Name != "Gravity Lens" {
		t.Errorf("beam/vortex combos = %v", got)
	}
	if c := cat.TowerCard("firewheel", "ignition"); c == nil || c.Name != "Ignition" {
		t.Errorf("card id lookup = %+v", c)
	}
	if len(setup.EnemyPool) != 4 || len(setup.Towers) != 11 {
		t.Errorf("setup pool=%d towers=%d", len(setup.EnemyPool), len(setup.Towers))
	}
	if got := setup.Loadout.Cards("guardian"); !reflect.DeepEqual(got, []string{"splitting_bullet", "guardian_overdrive"}) {
		t.Errorf("guardian loadout = %v", got)
	}
}

func TestLoadCatalogErrors(t *testing.T) {
	if _, err := LoadCatalog(t.TempDir()); err == nil {
		t.Error("LoadCatalog on empty dir succeeded")
	}
	if _, err := LoadSetup("data/nope.json"); err == nil {
		t.Error("LoadSetup on missing file succeeded")
	}
}
