package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anatolykoptev/go_apply/internal/engine"
)

// TailorMeta records how one tailored resume was produced.
type TailorMeta struct {
	JobTitle    string    `json:"job_title"`
	Company     string    `json:"company"`
	JobURL      string    `json:"job_url"`
	Source      string    `json:"source"`
	GeneratedAt time.Time `json:"generated_at"`
	Tailored    bool      `json:"tailored"`
	Fallbacks   []string  `json:"fallbacks,omitempty"`
}

// TailoredResume is the per-job resume: the base content with summary,
// skills and experience bullets rewritten. Lives for one job cycle.
type TailoredResume struct {
	BaseResume
	Meta TailorMeta `json:"metadata"`
}

// TailorConfig carries generation parameters. Summary and bullets use
// Temperature; skills reformatting is structural and uses the lower
// SkillsTemperature.
type TailorConfig struct {
	Temperature       float64
	SkillsTemperature float64
	MaxTokens         int
	DescriptionLimit  int
	CategoryOrder     []string
}

// TailorConfigFromEngine snapshots the loaded configuration.
func TailorConfigFromEngine() TailorConfig {
	return TailorConfig{
		Temperature:       engine.Cfg.LLMTemperature,
		SkillsTemperature: engine.Cfg.LLMSkillsTemperature,
		MaxTokens:         engine.Cfg.LLMMaxTokens,
		CategoryOrder:     engine.Cfg.CategoryOrder,
	}
}

// Tailor rewrites the subjective resume fields for one job posting.
type Tailor struct {
	client engine.Completer
	cfg    TailorConfig
}

func NewTailor(client engine.Completer, cfg TailorConfig) *Tailor {
	if cfg.DescriptionLimit <= 0 {
		cfg.DescriptionLimit = 3000
	}
	return &Tailor{client: client, cfg: cfg}
}

// Tailor produces a TailoredResume for job: one summary call, one skills
// call, one bullets call per experience entry. A failed field keeps the
// original content and is noted in Meta.Fallbacks; only a dead context
// aborts. Meta.Tailored stays true as long as at least one field was
// actually generated.
func (t *Tailor) Tailor(ctx context.Context, base *BaseResume, job engine.JobPosting) (*TailoredResume, error) {
	work := base.Copy()
	jd := engine.TruncateRunes(job.Description, t.cfg.DescriptionLimit, "")
	fieldCount := 2 + len(work.Experience)
	var fallbacks []string

	if summary, err := t.generateSummary(ctx, work.Summary, jd); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		fallbacks = noteFallback(fallbacks, "summary", err)
	} else {
		work.Summary = summary
	}

	if groups, err := t.generateSkills(ctx, work.Skills, jd); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		fallbacks = noteFallback(fallbacks, "skills", err)
	} else {
		work.Skills = groups
	}

	for i := range work.Experience {
		if bullets, err := t.generateBullets(ctx, work.Experience[i], jd); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			fallbacks = noteFallback(fallbacks, fmt.Sprintf("experience[%d]", i), err)
		} else {
			work.Experience[i].Bullets = bullets
		}
	}

	return &TailoredResume{
		BaseResume: *work,
		Meta: TailorMeta{
			JobTitle:    job.Title,
			Company:     job.Company,
			JobURL:      job.URL,
			Source:      job.Source,
			GeneratedAt: time.Now(),
			Tailored:    len(fallbacks) < fieldCount,
			Fallbacks:   fallbacks,
		},
	}, nil
}

func (t *Tailor) generateSummary(ctx context.Context, current, jd string) (string, error) {
	out, err := t.complete(ctx, fmt.Sprintf(summaryPrompt, current, jd), t.cfg.Temperature)
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", engine.ErrEmptyCompletion
	}
	return out, nil
}

func (t *Tailor) generateSkills(ctx context.Context, current []SkillGroup, jd string) ([]SkillGroup, error) {
	headings := strings.Join(t.cfg.CategoryOrder, ", ")
	prompt := fmt.Sprintf(skillsPrompt, formatSkillGroups(current), jd, headings)
	out, err := t.complete(ctx, prompt, t.cfg.SkillsTemperature)
	if err != nil {
		return nil, err
	}
	groups := ParseSkillsResponse(out, t.cfg.CategoryOrder)
	if len(groups) == 0 {
		return nil, fmt.Errorf("skills response unparseable: %w", engine.ErrEmptyCompletion)
	}
	return groups, nil
}

func (t *Tailor) generateBullets(ctx context.Context, exp Experience, jd string) ([]string, error) {
	prompt := fmt.Sprintf(bulletsPrompt, formatRole(exp), jd)
	out, err := t.complete(ctx, prompt, t.cfg.Temperature)
	if err != nil {
		return nil, err
	}
	bullets := ParseBullets(out)
	if len(bullets) == 0 {
		return nil, engine.ErrEmptyCompletion
	}
	return bullets, nil
}

// complete runs one paced, metered LLM call.
func (t *Tailor) complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	if engine.Cfg.Pacer != nil {
		if err := engine.Cfg.Pacer.WaitCompletion(ctx); err != nil {
			return "", err
		}
	}
	engine.IncrLLMCalls()
	out, err := t.client.Complete(ctx, tailorSystemPrompt, prompt,
		engine.WithTemperature(temperature), engine.WithMaxTokens(t.cfg.MaxTokens))
	if err != nil {
		engine.IncrLLMErrors()
		return "", err
	}
	return engine.StripFences(out), nil
}

func noteFallback(fallbacks []string, field string, err error) []string {
	engine.IncrFieldFallbacks()
	slog.Warn("generation fell back to original content",
		"error", &engine.GenerationError{Field: field, Err: err})
	return append(fallbacks, field)
}
