//go:build !lambda

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
)

const usage = `Usage: vanguard-optimizer [flags] <data-dir> <setup.json> [enemy1 enemy2 enemy3]
       vanguard-optimizer -lineups [flags] <data-dir> [enemy]
       vanguard-optimizer -schema <data-dir>

Positional arguments:
  data-dir        Directory holding towers.json, enemies.json and cards.json
  setup.json      Weekly setup (enemy pool, available towers, card loadout)
  enemyN          Wave enemy ids (default: first three of weekly_enemy_pool)
  enemy           Target enemy biasing -lineups toward its weaknesses

Flags:
`

func writeJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	jsonOut := flag.Bool("json", false, "Output results as JSON")
	verbose := flag.Bool("verbose", false, "Print detailed search progress to stderr")
	modeFlag := flag.String("mode", "balanced", "Objective: balanced or best-two-of-three")
	configPath := flag.String("config", "", "YAML file overriding search tuning")
	schemaOut := flag.Bool("schema", false, "Print the JSON Schema for setup files and exit")
	lineups := flag.Bool("lineups", false, "Rank normal-mode lineups instead of optimizing waves")
	prefer := flag.String("prefer", "", "Preferred damage type for -lineups")
	scorePair := flag.String("score", "", "Score a single enemy:tower pair and exit")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	pos, ok := splitArgs(flag.Args(), !*schemaOut && !*lineups)
	if !ok {
		flag.Usage()
		os.Exit(1)
	}

	Verbose = *verbose

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath); err != nil {
			fatalf("%v", err)
		}
	}

	cat, err := LoadCatalog(pos.dataDir)
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Fprintf(os.Stderr, "Loaded %d towers, %d enemies, %d cards\n",
		len(cat.Towers), len(cat.Enemies), len(cat.Cards))

	switch {
	case *schemaOut:
		writeJSON(BuildSetupSchema(cat))
		return
	case *lineups:
		runLineups(cat, cfg, pos.enemies, *prefer, *jsonOut)
		return
	}

	setup, err := LoadSetup(pos.setupPath)
	if err != nil {
		fatalf("%v", err)
	}
	if *scorePair != "" {
		runScore(cat, setup, *scorePair, *jsonOut)
		return
	}
	runOptimize(cat, setup, cfg, pos.enemies, *modeFlag, *jsonOut)
}

type positional struct {
	dataDir   string
	setupPath string
	enemies   []string
}

// splitArgs reads <data-dir> [setup.json] [enemy...]. The setup path is only
// expected when needSetup is set; otherwise every trailing arg is an enemy.
func splitArgs(args []string, needSetup bool) (positional, bool) {
	if len(args) < 1 || (needSetup && len(args) < 2) {
		return positional{}, false
	}
	p := positional{dataDir: args[0], enemies: args[1:]}
	if needSetup {
		p.setupPath, p.enemies = args[1], args[2:]
	}
	return p, true
}

func runOptimize(cat *Catalog, setup Setup, cfg Config, enemies []string, modeName string, jsonOut bool) {
	mode, err := ParseMode(modeName)
	if err != nil {
		fatalf("%v", err)
	}
	req := RequestFromSetup(setup, enemies, mode)
	fmt.Fprintf(os.Stderr, "[init] waves=%s towers=%d mode=%s\n",
		strings.Join(req.Enemies, ","), len(req.Towers), mode)

	res, err := runRequest(cat, req, cfg)
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Fprintf(os.Stderr, "[done] objective=%.1f in %v\n", res.Objective, res.Elapsed)

	if jsonOut {
		writeJSON(res)
		return
	}
	fmt.Print(FormatResult(res))
}

func runScore(cat *Catalog, setup Setup, pair string, jsonOut bool) {
	enemyID, towerID, ok := strings.Cut(pair, ":")
	if !ok {
		fatalf("invalid -score %q, want enemy:tower", pair)
	}
	score, notes, err := ScoreOne(cat, enemyID, towerID, setup.Loadout)
	if err != nil {
		fatalf("%v", err)
	}
	if jsonOut {
		writeJSON(TowerScore{TowerID: towerID, Name: cat.Tower(towerID).Name, Score: score, Notes: notes})
		return
	}
	fmt.Printf("%s vs %s: %d (%s)\n", towerID, enemyID, score, rateScore(score))
	for _, n := range notes {
		fmt.Printf("  - %s\n", n)
	}
}

func runLineups(cat *Catalog, cfg Config, enemies []string, prefer string, jsonOut bool) {
	q := LineupQuery{
		Anchor:     cfg.AnchorTower,
		Size:       cfg.LineupSize,
		TopN:       cfg.LineupTopN,
		Preference: parseDamageType(prefer),
	}
	if len(enemies) > 0 {
		if q.Enemy = cat.Enemy(enemies[0]); q.Enemy == nil {
			fatalf("%v: %q", ErrUnknownEnemy, enemies[0])
		}
	}
	res, err := RankLineups(cat, q)
	if err != nil {
		fatalf("%v", err)
	}
	if Verbose {
		fmt.Fprintf(logw(), "[verbose/lineups] anchor=%s size=%d ranked=%d\n", q.Anchor, q.Size, len(res))
	}
	if jsonOut {
		writeJSON(res)
		return
	}
	fmt.Print(FormatLineups(cat, res))
}
