package workflow

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type recorder struct {
	infos, warns []string
}

func (r *recorder) Infof(format string, args ...any) { r.infos = append(r.infos, fmt.Sprintf(format, args...)) }
func (r *recorder) Successf(string, ...any)          {}
func (r *recorder) Warnf(format string, args ...any) { r.warns = append(r.warns, fmt.Sprintf(format, args...)) }
func (r *recorder) Errorf(string, ...any)            {}

const sampleWorkflow = `{
  "input": {
    "workflow": {
      "3": {"class_type": "KSampler", "inputs": {"seed": 1, "steps": 20}},
      "4": {"class_type": "KSampler", "inputs": {"seed": 2}},
      "5": {"class_type": "KSampler", "inputs": {"steps": 10}},
      "6": {"class_type": "CLIPTextEncode", "inputs": {"text": "old"}, "_meta": {"title": "Positive"}},
      "7": {"class_type": "CLIPTextEncode", "inputs": {"text": "ugly"}, "_meta": {"title": "Negative Prompt"}},
      "8": {"class_type": "PrimitiveStringMultiline", "inputs": {"value": "old"}, "_meta": {"title": "Prompt"}},
      "9": {"class_type": "PrimitiveStringMultiline", "inputs": {"value": "keep"}, "_meta": {"title": "Filename prefix"}},
      "10": {"class_type": "PrimitiveStringMultiline", "inputs": {"value": "bad"}, "_meta": {"title": "Negative positive"}},
      "11": {"class_type": "CLIPTextEncode", "inputs": {"clip": ["4", 1]}}
    }
  }
}`

func mustParse(t *testing.T, input string) *Payload {
	t.Helper()
	p, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	return p
}

func inputOf(t *testing.T, wf Workflow, id, name string) any {
	t.Helper()
	node, ok := wf.Node(id)
	if !ok {
		t.Fatalf("node %s missing", id)
	}
	v, _ := node.Input(name)
	return v
}

func TestRandomizeSeeds_UpdatesEverySamplerWithSeed(t *testing.T) {
	wf, _ := mustParse(t, sampleWorkflow).Workflow()

	changes := wf.RandomizeSeeds(rand.New(rand.NewPCG(1, 2)))

	if len(changes) != 2 {
		t.Fatalf("got %d seed changes, want 2: %+v", len(changes), changes)
	}
	for _, change := range changes {
		if change.Seed < 1 || change.Seed > MaxSeed {
			t.Fatalf("seed %d for node %s out of range", change.Seed, change.NodeID)
		}
		if got := inputOf(t, wf, change.NodeID, "seed"); got != change.Seed {
			t.Fatalf("node %s seed = %v, want %d", change.NodeID, got, change.Seed)
		}
	}
	if _, ok := mustNode(t, wf, "5").Input("seed"); ok {
		t.Fatalf("sampler without seed gained a seed input")
	}
}

func TestRandomizeSeeds_StaysInRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	for i := 0; i < 1000; i++ {
		wf, _ := mustParse(t, sampleWorkflow).Workflow()
		for _, change := range wf.RandomizeSeeds(rng) {
			if change.Seed < 1 || change.Seed > MaxSeed {
				t.Fatalf("seed %d out of [1, %d]", change.Seed, MaxSeed)
			}
		}
	}
}

func TestRandomizeSeeds_NilRandUsesGlobalSource(t *testing.T) {
	wf, _ := mustParse(t, sampleWorkflow).Workflow()
	if got := len(wf.RandomizeSeeds(nil)); got != 2 {
		t.Fatalf("got %d changes, want 2", got)
	}
}

func TestApplyPrompt_TargetsPositiveNodesOnly(t *testing.T) {
	wf, _ := mustParse(t, sampleWorkflow).Workflow()

	changes := wf.ApplyPrompt("a red fox")

	want := []PromptChange{
		{NodeID: "6", Title: "positive"},
		{NodeID: "8", Title: "prompt"},
	}
	if diff := cmp.Diff(want, changes); diff != "" {
		t.Fatalf("ApplyPrompt changes mismatch (-want +got):\n%s", diff)
	}

	checks := []struct {
		id, input string
		want      any
	}{
		{"6", "text", "a red fox"},
		{"7", "text", "ugly"},
		{"8", "value", "a red fox"},
		{"9", "value", "keep"},
		{"10", "value", "bad"},
	}
	for _, c := range checks {
		if got := inputOf(t, wf, c.id, c.input); got != c.want {
			t.Errorf("node %s %s = %v, want %v", c.id, c.input, got, c.want)
		}
	}
	if _, ok := mustNode(t, wf, "11").Input("text"); ok {
		t.Fatalf("encoder without text input gained one")
	}
}

func TestPrepare_ReportsChanges(t *testing.T) {
	p := mustParse(t, sampleWorkflow)
	rec := &recorder{}

	Prepare(p, Options{Prompt: "new", Rand: rand.New(rand.NewPCG(3, 4))}, rec)

	var seeds, prompts int
	for _, line := range rec.infos {
		switch {
		case strings.HasPrefix(line, "Randomized seed for Node "):
			seeds++
		case strings.HasPrefix(line, "Updated prompt for Node "):
			prompts++
		}
	}
	if seeds != 2 || prompts != 2 {
		t.Fatalf("seed lines = %d, prompt lines = %d, want 2 and 2: %q", seeds, prompts, rec.infos)
	}
	if len(rec.warns) != 0 {
		t.Fatalf("unexpected warnings: %q", rec.warns)
	}
}

func TestPrepare_WarnsWhenNoPromptTarget(t *testing.T) {
	p := mustParse(t, `{"input":{"workflow":{"1":{"class_type":"KSampler","inputs":{"seed":5}}}}}`)
	rec := &recorder{}

	Prepare(p, Options{Prompt: "hello"}, rec)

	want := []string{"No suitable node found to update with the prompt."}
	if diff := cmp.Diff(want, rec.warns); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestPrepare_NoPromptSkipsSubstitution(t *testing.T) {
	p := mustParse(t, sampleWorkflow)
	rec := &recorder{}

	Prepare(p, Options{}, rec)

	wf, _ := p.Workflow()
	if got := inputOf(t, wf, "6", "text"); got != "old" {
		t.Fatalf("text = %v, want old", got)
	}
	if len(rec.warns) != 0 {
		t.Fatalf("unexpected warnings: %q", rec.warns)
	}
}

func TestPrepare_MissingWorkflowWarnsAndLeavesDocument(t *testing.T) {
	p := mustParse(t, `{"input": {"prompt": "x"}}`)
	rec := &recorder{}

	Prepare(p, Options{Prompt: "hello"}, rec)

	if len(rec.warns) != 1 || !strings.Contains(rec.warns[0], "input.workflow") {
		t.Fatalf("warnings = %q, want one input.workflow warning", rec.warns)
	}
	out, err := p.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON returned error: %v", err)
	}
	if string(out) != `{"input":{"prompt":"x"}}` {
		t.Fatalf("document = %s, want unchanged", out)
	}
}

func TestPrepare_WarnsForMalformedNodes(t *testing.T) {
	p := mustParse(t, `{"input":{"workflow":{"1":"oops","2":{"class_type":"KSampler","inputs":{"seed":1}}}}}`)
	rec := &recorder{}

	Prepare(p, Options{}, rec)

	if len(rec.warns) != 1 || !strings.Contains(rec.warns[0], "Node 1") {
		t.Fatalf("warnings = %q, want one for node 1", rec.warns)
	}
}

func mustNode(t *testing.T, wf Workflow, id string) Node {
	t.Helper()
	n, ok := wf.Node(id)
	if !ok {
		t.Fatalf("node %s missing", id)
	}
	return n
}
