// Package gateway turns a task-typed prompt into normalized model output,
// trying an ordered list of hosted LLM providers until one answers.
package gateway

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// TaskType selects the system instruction and output contract for a request.
type TaskType string

const (
	TaskResumeAnalysis             TaskType = "resume_analysis"
	TaskEmailGeneration            TaskType = "email_generation"
	TaskInterviewQuestions         TaskType = "interview_questions"
	TaskCoverLetterGeneration      TaskType = "cover_letter_generation"
	TaskLinkedInHeadline           TaskType = "linkedin_headline"
	TaskLinkedInConnectionStrategy TaskType = "linkedin_connection_strategy"
	TaskLinkedInContentIdeas       TaskType = "linkedin_content_ideas"

	// Interview coach tasks.
	TaskInterviewQuestionSet    TaskType = "interview_question_set"
	TaskInterviewAnswerAnalysis TaskType = "interview_answer_analysis"
	TaskInterviewFinalFeedback  TaskType = "interview_final_feedback"
)

// ParseTaskType validates a wire value.
func ParseTaskType(s string) (TaskType, error) {
	t := TaskType(strings.TrimSpace(s))
	if _, ok := templates[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedTaskType, s)
	}
	return t, nil
}

// Valid reports whether t has an instruction template.
func (t TaskType) Valid() bool {
	_, ok := templates[t]
	return ok
}

// TaskTypes returns every supported task type in lexical order.
func TaskTypes() []TaskType {
	out := make([]TaskType, 0, len(templates))
	for t := range templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ProviderRole identifies a provider by its position in the fallback order.
type ProviderRole string

const (
	RolePrimary   ProviderRole = "primary"
	RoleSecondary ProviderRole = "secondary"
)

func roleAt(i int) ProviderRole {
	if i == 0 {
		return RolePrimary
	}
	return RoleSecondary
}

// CompletionRequest is built once per call and never mutated.
type CompletionRequest struct {
	TaskType  TaskType
	Prompt    string
	MaxTokens int
}

// NewCompletionRequest validates the task and prompt and fills the token
// budget from the task template.
func NewCompletionRequest(task TaskType, prompt string) (CompletionRequest, error) {
	tmpl, ok := templates[task]
	if !ok {
		return CompletionRequest{}, fmt.Errorf("%w: %q", ErrUnsupportedTaskType, task)
	}
	if strings.TrimSpace(prompt) == "" {
		return CompletionRequest{}, ErrEmptyPrompt
	}
	return CompletionRequest{
		TaskType:  task,
		Prompt:    prompt,
		MaxTokens: tmpl.MaxTokens,
	}, nil
}

// CompletionResult is the normalized answer of a single provider.
type CompletionResult struct {
	Text         string       `json:"text"`
	Provider     ProviderRole `json:"provider"`
	ProviderName string       `json:"providerName"`
}

// ProviderConfig is the static configuration of one upstream provider.
type ProviderConfig struct {
	Name           string
	Endpoint       string
	AuthSecretName string
	APIKey         string
	Model          string
	Temperature    float32
	TopP           float32
	TopK           float32
	Timeout        time.Duration
	// SafetyThreshold applies to every harm category when the provider
	// supports safety settings. Empty disables them.
	SafetyThreshold string
}
