package career

import (
	"context"
	"fmt"
	"strings"

	"github.com/careerclimb/careerclimb/services/gateway"
)

// ProfileRequest is the input of LinkedIn profile optimization.
type ProfileRequest struct {
	Type           string   `json:"type"`
	CurrentRole    string   `json:"currentRole"`
	Industry       string   `json:"industry"`
	TargetRole     string   `json:"targetRole"`
	Experience     string   `json:"experience"`
	Skills         []string `json:"skills"`
	CurrentProfile string   `json:"currentProfile"`
}

// ConnectionStrategy is the linkedin_connection_strategy answer.
type ConnectionStrategy struct {
	DailyConnections       int      `json:"dailyConnections"`
	TargetProfiles         []string `json:"targetProfiles"`
	MessageTemplates       []string `json:"messageTemplates"`
	EngagementTips         []string `json:"engagementTips"`
	IndustrySpecificAdvice []string `json:"industrySpecificAdvice"`
}

// ContentIdea is one element of the linkedin_content_ideas answer.
type ContentIdea struct {
	Type           string   `json:"type"`
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	Hashtags       []string `json:"hashtags"`
	EngagementHook string   `json:"engagementHook"`
}

// ProfileResult carries exactly one of the three answer shapes.
type ProfileResult struct {
	Suggestions []string            `json:"suggestions,omitempty"`
	Strategy    *ConnectionStrategy `json:"strategy,omitempty"`
	Ideas       []ContentIdea       `json:"ideas,omitempty"`
	Provider    string              `json:"provider"`
}

// ProfileTask resolves a profile optimization type. Both the short form
// ("headline") and the task name ("linkedin_headline") are accepted.
func ProfileTask(kind string) (gateway.TaskType, error) {
	switch strings.TrimPrefix(strings.TrimSpace(kind), "linkedin_") {
	case "headline":
		return gateway.TaskLinkedInHeadline, nil
	case "connection_strategy":
		return gateway.TaskLinkedInConnectionStrategy, nil
	case "content_ideas":
		return gateway.TaskLinkedInContentIdeas, nil
	default:
		return "", fmt.Errorf("%w: %q", gateway.ErrUnsupportedTaskType, kind)
	}
}

func skillsList(skills []string) string {
	var kept []string
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return "Not specified"
	}
	return strings.Join(kept, ", ")
}

func profilePrompt(task gateway.TaskType, req ProfileRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current Role: %s\n", req.CurrentRole)
	if task != gateway.TaskLinkedInHeadline {
		fmt.Fprintf(&b, "Target Role: %s\n", orDefault(req.TargetRole, "Not specified"))
	}
	fmt.Fprintf(&b, "Industry: %s\n", req.Industry)
	fmt.Fprintf(&b, "Years of Experience: %s\n", orDefault(req.Experience, "Not specified"))
	fmt.Fprintf(&b, "Key Skills: %s\n", skillsList(req.Skills))

	switch task {
	case gateway.TaskLinkedInHeadline:
		fmt.Fprintf(&b, "Current Headline: %s\n\n", orDefault(req.CurrentProfile, "None"))
		b.WriteString("Generate 5 compelling LinkedIn headlines that will attract recruiters and industry professionals.")
	case gateway.TaskLinkedInConnectionStrategy:
		b.WriteString("\nCreate a personalized LinkedIn connection strategy to help achieve career goals.")
	case gateway.TaskLinkedInContentIdeas:
		b.WriteString("\nGenerate 5 content ideas for LinkedIn posts that will establish thought leadership and engage my professional network.")
	}
	return b.String()
}

// OptimizeProfile produces headlines, a connection strategy or content
// ideas. There is no safe default, so undecodable answers from every
// provider surface as gateway.ErrAllProvidersFailed.
func (s *Service) OptimizeProfile(ctx context.Context, req ProfileRequest) (*ProfileResult, error) {
	task, err := ProfileTask(req.Type)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.CurrentRole) == "" || strings.TrimSpace(req.Industry) == "" {
		return nil, fmt.Errorf("%w: current role and industry are required", ErrInvalidInput)
	}

	prompt := profilePrompt(task, req)
	out := &ProfileResult{}

	var result *gateway.CompletionResult
	switch task {
	case gateway.TaskLinkedInHeadline:
		result, err = s.gw.CompleteJSON(ctx, task, prompt, &out.Suggestions)
	case gateway.TaskLinkedInConnectionStrategy:
		out.Strategy = &ConnectionStrategy{}
		result, err = s.gw.CompleteJSON(ctx, task, prompt, out.Strategy)
	case gateway.TaskLinkedInContentIdeas:
		result, err = s.gw.CompleteJSON(ctx, task, prompt, &out.Ideas)
	}
	if err != nil {
		return nil, err
	}

	out.Provider = result.ProviderName
	return out, nil
}
