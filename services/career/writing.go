package career

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/careerclimb/careerclimb/services/gateway"
)

var questionLinePattern = regexp.MustCompile(`^\d+\.`)

// ParseQuestionLines returns the trimmed lines that start with "N.".
func ParseQuestionLines(text string) []string {
	questions := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if questionLinePattern.MatchString(line) {
			questions = append(questions, line)
		}
	}
	return questions
}

// EmailInput is the input of an email reply.
type EmailInput struct {
	Context string `json:"context"`
	Tone    string `json:"tone"`
}

// GenerateEmail drafts a reply to the given email context.
func (s *Service) GenerateEmail(ctx context.Context, in EmailInput) (*gateway.CompletionResult, error) {
	if strings.TrimSpace(in.Context) == "" {
		return nil, fmt.Errorf("%w: email context is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Tone) == "" {
		return nil, fmt.Errorf("%w: tone is required", ErrInvalidInput)
	}
	prompt := fmt.Sprintf("Email Context: %s\n\nDesired Tone: %s", in.Context, in.Tone)
	return s.gw.Complete(ctx, gateway.TaskEmailGeneration, prompt)
}

// QuestionsInput is the input of interview question generation.
type QuestionsInput struct {
	JobTitle       string `json:"jobTitle"`
	Company        string `json:"company"`
	JobDescription string `json:"jobDescription"`
}

// QuestionList is a list of numbered interview questions.
type QuestionList struct {
	Questions []string `json:"questions"`
	Response  string   `json:"response"`
	Provider  string   `json:"provider"`
}

// GenerateInterviewQuestions returns 5-7 questions for a role.
func (s *Service) GenerateInterviewQuestions(ctx context.Context, in QuestionsInput) (*QuestionList, error) {
	if strings.TrimSpace(in.JobTitle) == "" {
		return nil, fmt.Errorf("%w: job title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Company) == "" {
		return nil, fmt.Errorf("%w: company is required", ErrInvalidInput)
	}
	desc := in.JobDescription
	if strings.TrimSpace(desc) == "" {
		desc = "Not provided"
	}
	prompt := fmt.Sprintf("Job Title: %s\nCompany: %s\nJob Description: %s", in.JobTitle, in.Company, desc)

	result, err := s.gw.Complete(ctx, gateway.TaskInterviewQuestions, prompt)
	if err != nil {
		return nil, err
	}
	return &QuestionList{
		Questions: ParseQuestionLines(result.Text),
		Response:  result.Text,
		Provider:  result.ProviderName,
	}, nil
}

// CoverLetterInput is the input of cover letter generation.
type CoverLetterInput struct {
	Company        string `json:"company"`
	Position       string `json:"position"`
	JobDescription string `json:"jobDescription"`
	CompanyInfo    string `json:"companyInfo"`
	Tone           string `json:"tone"`
}

// GenerateCoverLetter writes a tailored cover letter.
func (s *Service) GenerateCoverLetter(ctx context.Context, in CoverLetterInput) (*gateway.CompletionResult, error) {
	if strings.TrimSpace(in.Company) == "" || strings.TrimSpace(in.Position) == "" {
		return nil, fmt.Errorf("%w: company and position are required", ErrInvalidInput)
	}
	tone := in.Tone
	if tone == "" {
		tone = "professional"
	}

	var b strings.Builder
	b.WriteString("Generate a compelling cover letter with the following details:\n\n")
	fmt.Fprintf(&b, "Company: %s\n", in.Company)
	fmt.Fprintf(&b, "Position: %s\n", in.Position)
	fmt.Fprintf(&b, "Job Description: %s\n", orDefault(in.JobDescription, "Not provided"))
	fmt.Fprintf(&b, "Company Information: %s\n", orDefault(in.CompanyInfo, "Not provided"))
	fmt.Fprintf(&b, "Tone: %s\n", tone)

	return s.gw.Complete(ctx, gateway.TaskCoverLetterGeneration, b.String())
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
