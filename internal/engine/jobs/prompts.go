package jobs

import (
	"fmt"
	"strings"
)

const tailorSystemPrompt = "You are a professional resume writer."

const summaryPrompt = `Current summary: %s

Job Description: %s

Write a brief professional summary that:
1. Is 2-3 sentences MAXIMUM - brevity is critical
2. Uses clear, direct language without any buzzwords
3. Contains zero fluff or generalizations
4. Highlights only the most relevant skills and experience for this specific role
5. Naturally incorporates key terms from the job description
6. Maintains the candidate's original expertise level and core focus

Return only the summary paragraph, nothing else.`

const skillsPrompt = `Current skills:
%s

Job Description: %s

Create a tailored skills section for this job.
IMPORTANT: Never leave this empty. Keep ALL existing skills that are relevant.
You may add 2-3 additional relevant skills from the job description if they are genuinely part of the candidate's skillset.
Group the skills under these category headings: %s.
Write each category heading on its own line ending with a colon, followed by one line of comma-separated skills, with a blank line between categories.
A category that is only a label is written as the bare heading with no skill line.
Use only the skill name without explanation. Keep the original skill order where possible.

Return only the formatted skills section, nothing else.`

const bulletsPrompt = `Original role details:
%s

Target job description:
%s

Rewrite the experience points to:
1. Be extremely concise and direct - limit each bullet to a single line when possible
2. Never use the same action verb more than once across all bullets
3. Avoid corporate buzzwords (no "spearheaded", "leveraged", "utilized", "facilitated")
4. Use straightforward language that directly states what was done
5. Focus on concrete achievements and technical details
6. Include relevant keywords from the job description naturally
7. Start each bullet with a strong, simple action verb ("developed", "built", "created", "improved")
8. Include specific metrics where available
9. Return EXACTLY 4 bullet points

Format each point as a clear, single-line bullet point.
Return only the bullet points, one per line.`

// formatSkillGroups renders canonical groups the same way the skills
// prompt asks them back.
func formatSkillGroups(groups []SkillGroup) string {
	var b strings.Builder
	for _, g := range groups {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		if len(g.Skills) == 0 {
			b.WriteString(g.Category)
			b.WriteString("\n")
			continue
		}
		b.WriteString(g.Category)
		b.WriteString(":\n")
		b.WriteString(strings.Join(g.Skills, ", "))
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

// formatRole renders one experience entry for the bullets prompt.
func formatRole(exp Experience) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at %s (%s)\n", exp.Title, exp.Company, exp.Dates)
	for _, bullet := range exp.Bullets {
		fmt.Fprintf(&b, "- %s\n", bullet)
	}
	if len(exp.Technologies) > 0 {
		fmt.Fprintf(&b, "Technologies: %s\n", strings.Join(exp.Technologies, ", "))
	}
	return strings.TrimSpace(b.String())
}
