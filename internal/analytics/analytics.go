// Package analytics derives candidate scores and rankings from submitted
// projects. Everything here is a pure function over a project snapshot;
// nothing reaches back into the store.
package analytics

import (
	"math"
	"sort"

	"github.com/hirehub-dev/hirehub/internal/models"
)

type CandidateSummary struct {
	Email              string         `json:"email"`
	TotalProjects      int            `json:"total_projects"`
	AverageScore       float64        `json:"average_score"`
	ProjectsByIndustry map[string]int `json:"projects_by_industry"`
	LatestSubmission   models.Project `json:"latest_submission"`
	Rank               int            `json:"rank,omitempty"`
}

type ScoredProject struct {
	models.Project
	Score float64 `json:"score"`
}

type CandidateDetail struct {
	CandidateSummary
	Projects []ScoredProject `json:"projects"`
}

// ProjectScore rewards description length up to a 10-point cap plus a flat
// 5 points per link present, clamped to 100. The formula is intentionally
// simplistic and kept exactly as-is for compatibility; it is a proxy, not
// a quality judgment.
func ProjectScore(p models.Project) float64 {
	score := math.Min(10, float64(len(p.Description))/100)
	if p.ProjectLink != "" {
		score += 5
	}
	if p.RepositoryLink != "" {
		score += 5
	}

	return math.Min(100, score)
}

// Rankings groups projects by submitter email (case-sensitive, in first-
// appearance order), aggregates each candidate, and assigns 1-based ranks
// by descending average score. The sort is stable: candidates with equal
// averages keep their first-appearance order.
func Rankings(projects []models.Project) []CandidateSummary {
	groups, order := groupBySubmitter(projects)

	summaries := make([]CandidateSummary, 0, len(order))
	for _, email := range order {
		summaries = append(summaries, summarize(email, groups[email]))
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].AverageScore > summaries[j].AverageScore
	})

	for i := range summaries {
		summaries[i].Rank = i + 1
	}

	return summaries
}

// ForCandidate aggregates a single candidate's projects, each annotated
// with its individual score. ok is false when the email has no projects.
func ForCandidate(projects []models.Project, email string) (CandidateDetail, bool) {
	var own []models.Project
	for _, p := range projects {
		if p.SubmitterEmail == email {
			own = append(own, p)
		}
	}

	if len(own) == 0 {
		return CandidateDetail{}, false
	}

	detail := CandidateDetail{
		CandidateSummary: summarize(email, own),
		Projects:         make([]ScoredProject, 0, len(own)),
	}
	for _, p := range own {
		detail.Projects = append(detail.Projects, ScoredProject{Project: p, Score: ProjectScore(p)})
	}

	return detail, true
}

func summarize(email string, projects []models.Project) CandidateSummary {
	summary := CandidateSummary{
		Email:              email,
		TotalProjects:      len(projects),
		ProjectsByIndustry: make(map[string]int),
	}

	var total float64
	haveLatest := false

	for _, p := range projects {
		total += ProjectScore(p)
		summary.ProjectsByIndustry[p.IndustryRole]++

		// Strictly-later wins, so the earliest-inserted project keeps
		// the slot on a timestamp tie.
		if !haveLatest || p.SubmittedAt.After(summary.LatestSubmission.SubmittedAt) {
			summary.LatestSubmission = p
			haveLatest = true
		}
	}

	// Average is defined as 0 for an empty group, never NaN.
	if len(projects) > 0 {
		summary.AverageScore = total / float64(len(projects))
	}

	return summary
}

func groupBySubmitter(projects []models.Project) (map[string][]models.Project, []string) {
	groups := make(map[string][]models.Project)
	var order []string

	for _, p := range projects {
		if _, seen := groups[p.SubmitterEmail]; !seen {
			order = append(order, p.SubmitterEmail)
		}
		groups[p.SubmitterEmail] = append(groups[p.SubmitterEmail], p)
	}

	return groups, order
}
