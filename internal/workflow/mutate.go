package workflow

import (
	"math/rand/v2"
	"strings"

	"github.com/five82/podrun/internal/console"
)

// Node class types the mutator understands.
const (
	SamplerType         = "KSampler"
	TextEncoderType     = "CLIPTextEncode"
	StringPrimitiveType = "PrimitiveStringMultiline"
)

// MaxSeed is the inclusive upper bound for randomized seeds.
const MaxSeed int64 = 1_000_000_000_000_000

// SeedChange records one randomized sampler seed.
type SeedChange struct {
	NodeID string
	Seed   int64
}

// PromptChange records one node whose prompt text was replaced.
type PromptChange struct {
	NodeID string
	Title  string
}

// RandomizeSeeds gives every sampler node that has a seed input a fresh seed
// in [1, MaxSeed]. A nil rng uses the global source.
func (w Workflow) RandomizeSeeds(rng *rand.Rand) []SeedChange {
	nodes, _ := w.Nodes()
	var changes []SeedChange
	for _, node := range nodes {
		if classType, _ := node.ClassType(); classType != SamplerType {
			continue
		}
		if _, ok := node.Input("seed"); !ok {
			continue
		}
		seed := randomSeed(rng)
		node.SetInput("seed", seed)
		changes = append(changes, SeedChange{NodeID: node.ID, Seed: seed})
	}
	return changes
}

func randomSeed(rng *rand.Rand) int64 {
	if rng == nil {
		return rand.Int64N(MaxSeed) + 1
	}
	return rng.Int64N(MaxSeed) + 1
}

// ApplyPrompt writes prompt into the positive text-encoder nodes and into
// string primitives titled as a prompt. Nodes titled "negative" are never
// touched. Titles are returned lower-cased.
func (w Workflow) ApplyPrompt(prompt string) []PromptChange {
	nodes, _ := w.Nodes()
	var changes []PromptChange
	for _, node := range nodes {
		classType, _ := node.ClassType()
		title, _ := node.Title()
		title = strings.ToLower(title)
		if strings.Contains(title, "negative") {
			continue
		}

		switch classType {
		case TextEncoderType:
			if node.SetInput("text", prompt) {
				changes = append(changes, PromptChange{NodeID: node.ID, Title: title})
			}
		case StringPrimitiveType:
			if !strings.Contains(title, "prompt") && !strings.Contains(title, "positive") {
				continue
			}
			if node.SetInput("value", prompt) {
				changes = append(changes, PromptChange{NodeID: node.ID, Title: title})
			}
		}
	}
	return changes
}

// Options controls Prepare.
type Options struct {
	// Prompt replaces the positive prompt when non-empty.
	Prompt string
	// Rand seeds sampler nodes; nil uses the global source.
	Rand *rand.Rand
}

// Prepare randomizes sampler seeds and applies the optional prompt, reporting
// each change. A document without input.workflow is left untouched and only
// produces a warning.
func Prepare(p *Payload, opts Options, report console.Reporter) {
	if report == nil {
		report = console.Discard
	}

	wf, ok := p.Workflow()
	if !ok {
		report.Warnf("Could not find 'input.workflow' in JSON. Modifications might fail.")
		return
	}

	_, invalid := wf.Nodes()
	for _, id := range invalid {
		report.Warnf("Node %s is not an object; skipping it", id)
	}

	for _, change := range wf.RandomizeSeeds(opts.Rand) {
		report.Infof("Randomized seed for Node %s to: %d", change.NodeID, change.Seed)
	}

	if opts.Prompt == "" {
		return
	}
	changes := wf.ApplyPrompt(opts.Prompt)
	for _, change := range changes {
		report.Infof("Updated prompt for Node %s ('%s')", change.NodeID, change.Title)
	}
	if len(changes) == 0 {
		report.Warnf("No suitable node found to update with the prompt.")
	}
}
