package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/justsurfingit/job-board/internal/common"
	"github.com/justsurfingit/job-board/internal/dtos"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"
)

const (
	DefaultLLMModel = "gemini-2.5-flash"
	maxPromptInput  = 20000
)

const jobExtractionPrompt = `
You are an expert Job Data Extraction Agent. Your task is to analyze the provided raw HTML/Text from a job posting and extract structured data.

### INSTRUCTIONS:
1. **Analyze** the text to identify the core job details.
2. **Ignore** navigation menus, footers, "similar jobs" lists, and site advertisements.
3. **Format** the output as valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "title": "Job title (e.g., Senior Backend Engineer)",
    "company": "Name of the company",
    "location": "Job location or 'Remote'",
    "description": "A clean summary of the job without HTML tags",
    "skills": ["Array", "of", "technologies", "and", "skills"],
    "responsibilities": ["..."],
    "requirements": ["..."],
    "benefits": ["..."],
    "employmentType": "one of full_time, part_time, contract, internship",
    "salaryRange": "The salary string if explicitly mentioned, otherwise null"
}

### CONSTRAINT:
If a piece of information is missing, set the value to null. Do not hallucinate or guess.

### RAW CONTENT:
%s
`

const skillExtractionPrompt = `
You are a resume parser. List the professional skills (technologies, tools, languages, methodologies) found in the resume below.

Return valid JSON only, with no markdown, in the form:
{"skills": ["Go", "PostgreSQL", "Docker"]}

### RESUME:
%s
`

var errLLMNotConfigured = errors.New("llm not configured")

type LLMService struct {
	Client llms.Model
	Logger *zap.Logger
}

// NewLLMService builds a Gemini-backed service.
func NewLLMService(ctx context.Context, apiKey, model string, log *zap.Logger) (*LLMService, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	if model == "" {
		model = DefaultLLMModel
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &LLMService{Client: llm, Logger: log}, nil
}

// ExtractJobDetails turns raw posting HTML or text into a draft job.
func (s *LLMService) ExtractJobDetails(ctx context.Context, rawHTML string) (*dtos.ExtractedJob, error) {
	var out dtos.ExtractedJob
	if err := s.generateJSON(ctx, fmt.Sprintf(jobExtractionPrompt, truncate(rawHTML)), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExtractSkills asks the model for the skills listed in a resume.
func (s *LLMService) ExtractSkills(ctx context.Context, resumeText string) ([]string, error) {
	var out struct {
		Skills []string `json:"skills"`
	}
	if err := s.generateJSON(ctx, fmt.Sprintf(skillExtractionPrompt, truncate(resumeText)), &out); err != nil {
		return nil, err
	}
	return cleanList(out.Skills), nil
}

func (s *LLMService) generateJSON(ctx context.Context, prompt string, v any) error {
	if s == nil || s.Client == nil {
		return common.NewError(common.CodeDependencyFailure, "AI extraction is not configured", errLLMNotConfigured)
	}
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, prompt)
	if err != nil {
		return common.NewError(common.CodeDependencyFailure, "AI extraction failed", err)
	}
	if err := json.Unmarshal([]byte(cleanJSON(resp)), v); err != nil {
		s.Logger.Warn("llm returned invalid json", zap.Error(err), zap.Int("length", len(resp)))
		return common.NewError(common.CodeDependencyFailure, "AI extraction returned invalid JSON", err)
	}
	return nil
}

func truncate(s string) string {
	if len(s) > maxPromptInput {
		return s[:maxPromptInput]
	}
	return s
}

// cleanJSON strips a surrounding markdown code fence from a model response.
func cleanJSON(input string) string {
	clean := strings.TrimSpace(input)
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

// cleanList trims entries and drops blanks.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
