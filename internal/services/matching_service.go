package services

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/justsurfingit/job-board/internal/models"
	"github.com/justsurfingit/job-board/internal/repository"
	"go.uber.org/zap"
)

// DefaultMatchThreshold is the minimum score for a suggestion.
const DefaultMatchThreshold = 70.0

type MatcherService struct {
	Profiles repository.ProfileRepository
	Jobs     repository.JobRepository
	Logger   *zap.Logger

	Threshold float64
	// ActiveJobsOnly drops closed and draft jobs from job suggestions.
	ActiveJobsOnly bool
}

func NewMatcherService(profiles repository.ProfileRepository, jobs repository.JobRepository, log *zap.Logger) *MatcherService {
	return &MatcherService{
		Profiles:  profiles,
		Jobs:      jobs,
		Logger:    log,
		Threshold: DefaultMatchThreshold,
	}
}

// Score returns the percentage of required skills matched by the candidate
// skills. Both sides are lowercased and trimmed; a required skill counts as
// matched when it contains, or is contained in, some candidate skill. That
// containment rule also lets very short skills such as "c" match unrelated
// words like "communication".
func Score(required, candidate []string) float64 {
	if len(required) == 0 || len(candidate) == 0 {
		return 0
	}
	normalized := make([]string, len(candidate))
	for i, skill := range candidate {
		normalized[i] = normalizeSkill(skill)
	}

	matched := 0
	for _, skill := range required {
		req := normalizeSkill(skill)
		for _, have := range normalized {
			if strings.Contains(have, req) || strings.Contains(req, have) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(required)) * 100
}

func normalizeSkill(skill string) string {
	return strings.ToLower(strings.TrimSpace(skill))
}

type JobMatch struct {
	JobID           uuid.UUID `json:"jobId"`
	JobTitle        string    `json:"jobTitle"`
	MatchPercentage float64   `json:"matchPercentage"`
}

type SuggestedCandidate struct {
	models.Profile
	SkillMatchPercentage float64  `json:"skillMatchPercentage"`
	BestMatch            JobMatch `json:"bestMatch"`
}

type SuggestedJob struct {
	models.Job
	SkillMatchPercentage float64 `json:"skillMatchPercentage"`
}

// RankCandidates scores every candidate against the job, keeps those at or
// above the threshold and sorts them by descending score. Equal scores keep
// their pool order.
func (s *MatcherService) RankCandidates(job models.Job, pool []models.Profile) []SuggestedCandidate {
	ranked := []SuggestedCandidate{}
	for _, candidate := range pool {
		score := Score(job.Skills, candidate.Skills)
		if score < s.Threshold {
			continue
		}
		ranked = append(ranked, SuggestedCandidate{
			Profile:              candidate,
			SkillMatchPercentage: score,
			BestMatch:            JobMatch{JobID: job.ID, JobTitle: job.Title, MatchPercentage: score},
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SkillMatchPercentage > ranked[j].SkillMatchPercentage
	})
	return ranked
}

// RankJobs is RankCandidates with the roles swapped: the job's skills are the
// required side.
func (s *MatcherService) RankJobs(candidate models.Profile, pool []models.Job) []SuggestedJob {
	ranked := []SuggestedJob{}
	for _, job := range pool {
		if s.ActiveJobsOnly && job.Status != models.JobActive {
			continue
		}
		score := Score(job.Skills, candidate.Skills)
		if score < s.Threshold {
			continue
		}
		ranked = append(ranked, SuggestedJob{Job: job, SkillMatchPercentage: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SkillMatchPercentage > ranked[j].SkillMatchPercentage
	})
	return ranked
}

// SuggestCandidates loads the job, pre-filters profiles sharing at least one
// skill pattern with it, then ranks them.
func (s *MatcherService) SuggestCandidates(ctx context.Context, jobID string) ([]SuggestedCandidate, error) {
	id, err := parseJobID(jobID)
	if err != nil {
		return nil, err
	}
	job, err := s.Jobs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pool, err := s.Profiles.FindBySkills(ctx, job.Skills)
	if err != nil {
		return nil, err
	}
	ranked := s.RankCandidates(*job, pool)
	s.Logger.Debug("suggested candidates",
		zap.String("job_id", job.ID.String()),
		zap.Int("pool", len(pool)),
		zap.Int("suggested", len(ranked)),
	)
	return ranked, nil
}

func (s *MatcherService) SuggestJobs(ctx context.Context, candidateEmail string) ([]SuggestedJob, error) {
	candidate, err := s.Profiles.FindByEmail(ctx, normalizeEmail(candidateEmail))
	if err != nil {
		return nil, err
	}
	jobs, err := s.Jobs.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	ranked := s.RankJobs(*candidate, jobs)
	s.Logger.Debug("suggested jobs",
		zap.String("candidate", candidate.Email),
		zap.Int("pool", len(jobs)),
		zap.Int("suggested", len(ranked)),
	)
	return ranked, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
