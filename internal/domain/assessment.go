package domain

import "fmt"

// TestType is the single-letter assessment category code.
type TestType string

const (
	// TypeKnowledge marks Knowledge & Skills assessments.
	TypeKnowledge TestType = "K"
	// TypePersonality marks Personality & Behaviour assessments.
	TypePersonality TestType = "P"
	// TypeAbility marks Ability & Aptitude assessments.
	TypeAbility TestType = "A"
	// TypeBiodata marks Biodata & Situational Judgment assessments.
	TypeBiodata TestType = "B"
)

// Label returns the human-readable category name for the API payload.
func (t TestType) Label() string {
	switch t {
	case TypeKnowledge:
		return "Knowledge & Skills"
	case TypePersonality:
		return "Personality & Behaviour"
	case TypeAbility:
		return "Ability & Aptitude"
	case TypeBiodata:
		return "Biodata & SJT"
	default:
		return "Other"
	}
}

// Assessment is an immutable corpus entry. URL is the unique key.
type Assessment struct {
	id              int
	name            string
	url             string
	testType        TestType
	durationMins    int
	skills          []string
	description     string
	adaptiveSupport bool
	remoteSupport   bool
}

// NewAssessment creates an assessment record with field validation.
func NewAssessment(
	id int, name, url string, testType TestType, durationMins int,
	skills []string, description string, adaptiveSupport, remoteSupport bool,
) (Assessment, error) {
	if name == "" {
		return Assessment{}, fmt.Errorf("assessment %d: name is required", id)
	}
	if url == "" {
		return Assessment{}, fmt.Errorf("assessment %d: url is required", id)
	}
	if durationMins < 0 {
		return Assessment{}, fmt.Errorf("assessment %d: duration must be >= 0, got %d", id, durationMins)
	}
	return Assessment{
		id:              id,
		name:            name,
		url:             url,
		testType:        testType,
		durationMins:    durationMins,
		skills:          skills,
		description:     description,
		adaptiveSupport: adaptiveSupport,
		remoteSupport:   remoteSupport,
	}, nil
}

// ID returns the corpus entry identifier.
func (a *Assessment) ID() int { return a.id }

// Name returns the assessment name.
func (a *Assessment) Name() string { return a.name }

// URL returns the unique assessment URL.
func (a *Assessment) URL() string { return a.url }

// TestType returns the category code.
func (a *Assessment) TestType() TestType { return a.testType }

// DurationMins returns the test duration in minutes.
func (a *Assessment) DurationMins() int { return a.durationMins }

// Skills returns the skill list.
func (a *Assessment) Skills() []string { return a.skills }

// Description returns the assessment description.
func (a *Assessment) Description() string { return a.description }

// AdaptiveSupport reports whether the assessment supports adaptive testing.
func (a *Assessment) AdaptiveSupport() bool { return a.adaptiveSupport }

// RemoteSupport reports whether the assessment supports remote proctoring.
func (a *Assessment) RemoteSupport() bool { return a.remoteSupport }

// Recommendation pairs an assessment with its relevance score.
// The score is the (possibly boosted) similarity used for ordering; after an
// additive boost it may exceed 1 and is not a probability.
type Recommendation struct {
	assessment Assessment
	score      float64
}

// NewRecommendation creates a scored recommendation.
func NewRecommendation(a Assessment, score float64) Recommendation {
	return Recommendation{assessment: a, score: score}
}

// Assessment returns the recommended record.
func (r *Recommendation) Assessment() Assessment { return r.assessment }

// Score returns the relevance score.
func (r *Recommendation) Score() float64 { return r.score }
