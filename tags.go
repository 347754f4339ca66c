package main

import "strings"

// InferredTag is a tactical tag implied by an equipped card's name.
type InferredTag int

const (
	InfBurn InferredTag = iota
	InfParalyze
	InfSlow
	InfStealthReveal
)

var inferredTagNames = [...]string{
	InfBurn:          "Burn",
	InfParalyze:      "Paralyze",
	InfSlow:          "Slow",
	InfStealthReveal: "Stealth Reveal",
}

func (t InferredTag) String() string { return inferredTagNames[t] }

type keywordRule[T any] struct {
	Tag      T
	Keywords []string
}

// cardNameTags maps substrings of card names to the tags they grant.
// A name may match several rows; "Ignition" grants both Burn and Stealth Reveal.
var cardNameTags = []keywordRule[InferredTag]{
	{InfBurn, []string{"ignition", "burning", "flame"}},
	{InfParalyze, []string{"paralysis", "paralyze"}},
	{InfSlow, []string{"slow", "stasis"}},
	{InfStealthReveal, []string{"stealth reveal", "ignition"}},
}

// comboElementTags classifies combo card text into damage types.
var comboElementTags = []keywordRule[DamageType]{
	{DamageFire, []string{"fire", "flame", "burn"}},
	{DamageElectric, []string{"lightning", "shock", "paralyze"}},
	{DamageEnergy, []string{"laser", "beam", "energy"}},
	{DamagePhysical, []string{"physical", "shell", "bullet", "mine"}},
	{DamageForceField, []string{"force", "black hole", "pull"}},
}

func matchKeywords(lower string, kws []string) bool {
	for _, kw := range kws {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// inferCardTags returns the tags implied by a single card name, in table order.
func inferCardTags(name string) []InferredTag {
	lower := strings.ToLower(name)
	var out []InferredTag
	for _, r := range cardNameTags {
		if matchKeywords(lower, r.Keywords) {
			out = append(out, r.Tag)
		}
	}
	return out
}

// comboProfile is the coarse classification of a combo card's text.
type comboProfile struct {
	Elements   []DamageType
	Vulnerable bool
	Slow       bool
	Burn       bool
}

func classifyCombo(c *Card) comboProfile {
	text := strings.ToLower(c.Name + " " + c.Description)
	var p comboProfile
	for _, r := range comboElementTags {
		if matchKeywords(text, r.Keywords) {
			p.Elements = append(p.Elements, r.Tag)
		}
	}
	p.Vulnerable = strings.Contains(text, "vulnerab")
	p.Slow = strings.Contains(text, "slow")
	p.Burn = strings.Contains(text, "burn")
	return p
}
