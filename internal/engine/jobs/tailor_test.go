package jobs

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/anatolykoptev/go_apply/internal/engine"
)

// scriptedCompleter routes by prompt text so each field can be scripted
// to succeed or fail independently.
type scriptedCompleter struct {
	summary     string
	skills      string
	bullets     string
	failSummary bool
	failSkills  bool
	failBullets bool
}

func (c *scriptedCompleter) Complete(_ context.Context, _, user string, _ ...engine.CompleteOption) (string, error) {
	switch {
	case strings.Contains(user, "professional summary"):
		if c.failSummary {
			return "", errors.New("summary backend down")
		}
		return c.summary, nil
	case strings.Contains(user, "skills section"):
		if c.failSkills {
			return "", errors.New("skills backend down")
		}
		return c.skills, nil
	default:
		if c.failBullets {
			return "", errors.New("bullets backend down")
		}
		return c.bullets, nil
	}
}

func testBase() *BaseResume {
	return &BaseResume{
		Personal: Personal{Name: "Jane Doe", Email: "jane@example.com"},
		Summary:  "Original summary.",
		Skills:   []SkillGroup{{Category: "Languages", Skills: []string{"Go", "SQL"}}},
		Experience: []Experience{
			{Title: "Engineer", Company: "Acme", Dates: "2020 - Present", Bullets: []string{"Ran the API team's services", "Kept the lights on"}},
			{Title: "Developer", Company: "Beta", Dates: "2018 - 2020", Bullets: []string{"Built internal tools"}},
		},
	}
}

func testTailor(c engine.Completer) *Tailor {
	engine.Init(engine.Config{Pacer: engine.NewPacer(0, 0, 0)})
	return NewTailor(c, TailorConfig{
		Temperature:       0.7,
		SkillsTemperature: 0.3,
		CategoryOrder:     []string{"Languages"},
	})
}

func TestTailorAllFieldsGenerated(t *testing.T) {
	fake := &scriptedCompleter{
		summary: "Tailored summary.",
		skills:  "Languages:\nGo, SQL, Python",
		bullets: "- Built the ingestion service\n- Shipped the billing rewrite\n- Improved deploy times\n- Cut infra cost",
	}
	base := testBase()

	out, err := testTailor(fake).Tailor(context.Background(), base, engine.JobPosting{
		Title: "Go Developer", Company: "Acme", URL: "https://example.com/j", Source: "reed",
	})
	if err != nil {
		t.Fatalf("Tailor: %v", err)
	}

	if out.Summary != "Tailored summary." {
		t.Errorf("Summary = %q", out.Summary)
	}
	wantSkills := []SkillGroup{{Category: "Languages", Skills: []string{"Go", "SQL", "Python"}}}
	if !reflect.DeepEqual(out.Skills, wantSkills) {
		t.Errorf("Skills = %+v, want %+v", out.Skills, wantSkills)
	}
	if len(out.Experience[0].Bullets) != 4 {
		t.Errorf("experience[0] bullets = %d, want 4", len(out.Experience[0].Bullets))
	}
	if out.Experience[0].Bullets[0] != "Built the ingestion service" {
		t.Errorf("bullet[0] = %q, glyph should be stripped", out.Experience[0].Bullets[0])
	}
	if !out.Meta.Tailored {
		t.Error("Meta.Tailored = false, want true")
	}
	if len(out.Meta.Fallbacks) != 0 {
		t.Errorf("Meta.Fallbacks = %v, want none", out.Meta.Fallbacks)
	}
	if out.Meta.JobTitle != "Go Developer" || out.Meta.Company != "Acme" || out.Meta.Source != "reed" {
		t.Errorf("Meta = %+v", out.Meta)
	}

	// The base resume must stay untouched.
	if base.Summary != "Original summary." {
		t.Errorf("base.Summary mutated to %q", base.Summary)
	}
	if base.Experience[0].Bullets[0] != "Ran the API team's services" {
		t.Errorf("base bullets mutated to %q", base.Experience[0].Bullets[0])
	}
	if len(base.Skills[0].Skills) != 2 {
		t.Errorf("base skills mutated: %+v", base.Skills)
	}
}

func TestTailorSummaryFallback(t *testing.T) {
	fake := &scriptedCompleter{
		failSummary: true,
		skills:      "Languages:\nGo, SQL",
		bullets:     "- Did one thing\n- Did another",
	}
	base := testBase()

	out, err := testTailor(fake).Tailor(context.Background(), base, engine.JobPosting{URL: "https://example.com/j"})
	if err != nil {
		t.Fatalf("Tailor: %v", err)
	}

	if out.Summary != base.Summary {
		t.Errorf("Summary = %q, want original %q", out.Summary, base.Summary)
	}
	if !reflect.DeepEqual(out.Meta.Fallbacks, []string{"summary"}) {
		t.Errorf("Fallbacks = %v, want [summary]", out.Meta.Fallbacks)
	}
	if !out.Meta.Tailored {
		t.Error("Meta.Tailored = false, want true when other fields were generated")
	}
	if len(out.Experience[0].Bullets) != 2 {
		t.Errorf("other fields should be unaffected, bullets = %v", out.Experience[0].Bullets)
	}
}

func TestTailorSkillsFallback(t *testing.T) {
	fake := &scriptedCompleter{
		summary:    "Tailored summary.",
		failSkills: true,
		bullets:    "- Did one thing",
	}
	base := testBase()

	out, err := testTailor(fake).Tailor(context.Background(), base, engine.JobPosting{URL: "https://example.com/j"})
	if err != nil {
		t.Fatalf("Tailor: %v", err)
	}

	if !reflect.DeepEqual(out.Skills, base.Skills) {
		t.Errorf("Skills = %+v, want original %+v", out.Skills, base.Skills)
	}
	if !reflect.DeepEqual(out.Meta.Fallbacks, []string{"skills"}) {
		t.Errorf("Fallbacks = %v, want [skills]", out.Meta.Fallbacks)
	}
}

func TestTailorUnparseableSkillsFallsBack(t *testing.T) {
	fake := &scriptedCompleter{
		summary: "Tailored summary.",
		skills:  "",
		bullets: "- Did one thing",
	}
	base := testBase()

	out, err := testTailor(fake).Tailor(context.Background(), base, engine.JobPosting{URL: "https://example.com/j"})
	if err != nil {
		t.Fatalf("Tailor: %v", err)
	}
	if !reflect.DeepEqual(out.Skills, base.Skills) {
		t.Errorf("Skills = %+v, want original on empty response", out.Skills)
	}
	if !reflect.DeepEqual(out.Meta.Fallbacks, []string{"skills"}) {
		t.Errorf("Fallbacks = %v, want [skills]", out.Meta.Fallbacks)
	}
}

func TestTailorBulletsFallback(t *testing.T) {
	fake := &scriptedCompleter{
		summary:     "Tailored summary.",
		skills:      "Languages:\nGo",
		failBullets: true,
	}
	base := testBase()

	out, err := testTailor(fake).Tailor(context.Background(), base, engine.JobPosting{URL: "https://example.com/j"})
	if err != nil {
		t.Fatalf("Tailor: %v", err)
	}

	for i := range base.Experience {
		if !reflect.DeepEqual(out.Experience[i].Bullets, base.Experience[i].Bullets) {
			t.Errorf("experience[%d].Bullets = %v, want original", i, out.Experience[i].Bullets)
		}
	}
	want := []string{"experience[0]", "experience[1]"}
	if !reflect.DeepEqual(out.Meta.Fallbacks, want) {
		t.Errorf("Fallbacks = %v, want %v", out.Meta.Fallbacks, want)
	}
}

func TestTailorAllFieldsFallBack(t *testing.T) {
	fake := &scriptedCompleter{failSummary: true, failSkills: true, failBullets: true}
	base := testBase()

	out, err := testTailor(fake).Tailor(context.Background(), base, engine.JobPosting{URL: "https://example.com/j"})
	if err != nil {
		t.Fatalf("Tailor: %v", err)
	}

	if out.Meta.Tailored {
		t.Error("Meta.Tailored = true, want false when everything fell back")
	}
	if len(out.Meta.Fallbacks) != 4 {
		t.Errorf("Fallbacks = %v, want all 4 fields", out.Meta.Fallbacks)
	}
	if out.Summary != base.Summary || !reflect.DeepEqual(out.Skills, base.Skills) {
		t.Error("content should equal the original resume")
	}
}

func TestTailorCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fake := &scriptedCompleter{failSummary: true, failSkills: true, failBullets: true}
	_, err := testTailor(fake).Tailor(ctx, testBase(), engine.JobPosting{URL: "https://example.com/j"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
