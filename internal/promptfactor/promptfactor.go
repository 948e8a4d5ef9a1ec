// Package promptfactor breaks a monolithic prompt document into candidate
// skills. Numbered "Phase N. NAME:" or "Step N. NAME:" blocks are the
// primary structure; Markdown headings are the fallback. Each block is
// classified by what its title says it does and paired with a skill name
// suggestion.
package promptfactor

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/openhands/skillctl/internal/errors"
)

// Phase kinds.
const (
	TypePhase   = "phase"
	TypeSection = "section"
)

// Skill classifications, checked in order against the phase title.
const (
	SkillTesting        = "testing"
	SkillAnalysis       = "analysis"
	SkillImplementation = "implementation"
	SkillValidation     = "validation"
	SkillWorkflow       = "workflow"
)

// excerptRunes bounds the content excerpt carried per suggestion.
const excerptRunes = 200

// Phase is one structural block found in a prompt document.
type Phase struct {
	Title   string `json:"title"`
	Number  int    `json:"number,omitempty"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

// Suggestion is a candidate skill derived from one phase.
type Suggestion struct {
	PhaseTitle  string `json:"phase_title"`
	Name        string `json:"suggested_skill_name"`
	Type        string `json:"skill_type"`
	Reusability string `json:"reusability"`
	Excerpt     string `json:"phase_content"`
}

// Analysis is the full decomposition result for one document.
type Analysis struct {
	Phases          []Phase      `json:"phases"`
	SuggestedSkills []Suggestion `json:"suggested_skills"`
	OriginalLength  int          `json:"original_length"`
	NumPhases       int          `json:"num_phases"`
}

var (
	phaseHeaderRE   = regexp.MustCompile(`(?i)(?:phase|step)\s+(\d+)\.\s+([a-z\s]+):`)
	sectionHeaderRE = regexp.MustCompile(`(?m)^#{1,3}\s+(.+)$`)
)

// AnalyzeFile reads the prompt document at path and analyzes it.
func AnalyzeFile(path string) (*Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading prompt file")
	}
	return Analyze(string(data)), nil
}

// Analyze decomposes prompt text. Empty or structureless text yields zero
// phases, not an error.
func Analyze(text string) *Analysis {
	phases := identifyPhases(text)
	return &Analysis{
		Phases:          phases,
		SuggestedSkills: suggestSkills(phases),
		OriginalLength:  utf8.RuneCountInString(text),
		NumPhases:       len(phases),
	}
}

// identifyPhases finds numbered phase blocks, falling back to Markdown
// sections when the document has none. Content runs from each header to
// the next header or the end of the document.
func identifyPhases(text string) []Phase {
	var phases []Phase

	headers := phaseHeaderRE.FindAllStringSubmatchIndex(text, -1)
	for i, h := range headers {
		end := len(text)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		number, _ := strconv.Atoi(text[h[2]:h[3]])
		phases = append(phases, Phase{
			Title:   strings.TrimSpace(text[h[4]:h[5]]),
			Number:  number,
			Content: strings.TrimSpace(text[h[1]:end]),
			Type:    TypePhase,
		})
	}
	if len(phases) > 0 {
		return phases
	}

	sections := sectionHeaderRE.FindAllStringSubmatchIndex(text, -1)
	for i, h := range sections {
		end := len(text)
		if i+1 < len(sections) {
			end = sections[i+1][0]
		}
		content := strings.TrimSpace(text[h[1]:end])
		if content == "" {
			continue
		}
		phases = append(phases, Phase{
			Title:   strings.TrimSpace(text[h[2]:h[3]]),
			Content: content,
			Type:    TypeSection,
		})
	}
	return phases
}

// skillTypeKeywords maps title keywords to a classification, checked in
// declaration order.
var skillTypeKeywords = []struct {
	kind     string
	keywords []string
}{
	{SkillTesting, []string{"test", "testing", "verification"}},
	{SkillAnalysis, []string{"read", "analysis", "exploration", "understand"}},
	{SkillImplementation, []string{"fix", "implement", "edit", "modify"}},
	{SkillValidation, []string{"review", "validate", "check"}},
}

func suggestSkills(phases []Phase) []Suggestion {
	var suggestions []Suggestion
	for _, p := range phases {
		suggestions = append(suggestions, Suggestion{
			PhaseTitle:  p.Title,
			Name:        kebabCase(p.Title),
			Type:        classify(p.Title),
			Reusability: "high",
			Excerpt:     excerpt(p.Content),
		})
	}
	return suggestions
}

func classify(title string) string {
	lower := strings.ToLower(title)
	for _, t := range skillTypeKeywords {
		for _, kw := range t.keywords {
			if strings.Contains(lower, kw) {
				return t.kind
			}
		}
	}
	return SkillWorkflow
}

// kebabCase lowercases the title and joins its words with hyphens.
func kebabCase(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), "-")
}

func excerpt(content string) string {
	if utf8.RuneCountInString(content) <= excerptRunes {
		return content
	}
	return string([]rune(content)[:excerptRunes]) + "..."
}
