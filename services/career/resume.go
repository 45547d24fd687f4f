package career

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/careerclimb/careerclimb/services/gateway"
)

// WeakLineThreshold is the score below which weak lines are reported.
const WeakLineThreshold = 85

const maxWeakLines = 5

var (
	scorePattern    = regexp.MustCompile(`Score:\s*(\d+)\s*/\s*100`)
	weakLinePattern = regexp.MustCompile(`\d+\.\s*Original:\s*"([^"]+)"\s*Issue:\s*([^"\n]+)\s*Suggestion:\s*"([^"]+)"`)
)

// Impact ranks a weak line by its position in the answer.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// WeakLine is a resume line the analysis suggests rewriting.
type WeakLine struct {
	Original   string `json:"line"`
	Issue      string `json:"reason"`
	Suggestion string `json:"suggestion"`
	Impact     Impact `json:"impact"`
}

// ResumeAnalysis is the decoded form of a resume_analysis answer.
type ResumeAnalysis struct {
	Score     *int       `json:"score"`
	Feedback  string     `json:"feedback"`
	WeakLines []WeakLine `json:"weakLines"`
}

// ParseScore extracts the "Score: N/100" value, or nil.
func ParseScore(text string) *int {
	m := scorePattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 0 || n > 100 {
		return nil
	}
	return &n
}

// AuditScore is a gateway scorer that scores resume analyses only.
func AuditScore(task gateway.TaskType, text string) *int {
	if task != gateway.TaskResumeAnalysis {
		return nil
	}
	return ParseScore(text)
}

// ParseResumeAnalysis decodes a resume_analysis answer. It never fails:
// fields it cannot find are left nil or empty, and the feedback falls back
// to the whole text.
func ParseResumeAnalysis(text string) ResumeAnalysis {
	out := ResumeAnalysis{
		Score:     ParseScore(text),
		Feedback:  strings.TrimSpace(text),
		WeakLines: []WeakLine{},
	}

	weakIdx := strings.Index(text, "Weak Lines:")
	if i := strings.Index(text, "Feedback:"); i >= 0 {
		end := len(text)
		if weakIdx > i {
			end = weakIdx
		}
		out.Feedback = strings.TrimSpace(text[i+len("Feedback:") : end])
	}

	if weakIdx < 0 || out.Score == nil || *out.Score >= WeakLineThreshold {
		return out
	}

	for _, m := range weakLinePattern.FindAllStringSubmatch(text[weakIdx:], -1) {
		if len(out.WeakLines) == maxWeakLines {
			break
		}
		out.WeakLines = append(out.WeakLines, WeakLine{
			Original:   m[1],
			Issue:      strings.TrimSpace(m[2]),
			Suggestion: m[3],
			Impact:     impactAt(len(out.WeakLines)),
		})
	}
	return out
}

func impactAt(i int) Impact {
	switch {
	case i < 2:
		return ImpactHigh
	case i < 4:
		return ImpactMedium
	default:
		return ImpactLow
	}
}

// ResumeInput is the input of a resume analysis.
type ResumeInput struct {
	Resume         string `json:"resume"`
	JobDescription string `json:"jobDescription"`
	FileName       string `json:"fileName,omitempty"`
}

// ResumeReport is a decoded resume analysis with its raw answer.
type ResumeReport struct {
	ResumeAnalysis
	Response string `json:"response"`
	Provider string `json:"provider"`
}

// AnalyzeResume scores a resume against a job description.
func (s *Service) AnalyzeResume(ctx context.Context, in ResumeInput) (*ResumeReport, error) {
	if strings.TrimSpace(in.Resume) == "" {
		return nil, fmt.Errorf("%w: resume is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.JobDescription) == "" {
		return nil, fmt.Errorf("%w: job description is required", ErrInvalidInput)
	}

	content := in.Resume
	if in.FileName != "" {
		content = fmt.Sprintf("[File: %s] %s", in.FileName, in.Resume)
	}
	prompt := fmt.Sprintf("Resume Content: %s\n\nJob Description: %s", content, in.JobDescription)

	result, err := s.gw.Complete(ctx, gateway.TaskResumeAnalysis, prompt)
	if err != nil {
		return nil, err
	}

	report := &ResumeReport{
		ResumeAnalysis: ParseResumeAnalysis(result.Text),
		Response:       result.Text,
		Provider:       result.ProviderName,
	}
	if report.Score == nil {
		s.logger.WarnContext(ctx, "resume analysis without score", "provider", result.ProviderName)
	}
	return report, nil
}
