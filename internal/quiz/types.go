package quiz

// ObjectiveQuestion is a fixed-choice question with one designated correct
// choice key. It is gradable locally by exact key match, no network involved.
type ObjectiveQuestion struct {
	// ID identifies the question within its QuestionSet, e.g. "mcq-1".
	ID string

	// Prompt is the question text displayed to the learner.
	Prompt string

	// Choices maps a choice key (e.g. "A") to its display text.
	// Keys are unique within a question.
	Choices map[string]string

	// CorrectKey is the key of the correct choice. Exact string equality
	// against the submitted key decides correctness.
	CorrectKey string

	// Explanation is a short rationale shown after the learner answers.
	Explanation string

	// Difficulty is the generator's self-assessed difficulty (1-5).
	// Used for display, not for gating.
	Difficulty int
}

// SubjectiveQuestion is a free-form-answer question. It requires
// rubric-based scoring by the remote evaluation service.
type SubjectiveQuestion struct {
	// ID identifies the question within its QuestionSet, e.g. "subj-1".
	ID string

	// Prompt is the question text displayed to the learner.
	Prompt string

	// SampleAnswer is the generator's reference answer. Passed to the
	// evaluation service when present; may be empty.
	SampleAnswer string

	// Keywords are terms the generator expects a good answer to touch on.
	Keywords []string

	// Difficulty is the generator's self-assessed difficulty (1-5).
	Difficulty int
}

// QuestionSet is the bundle produced from one processed document.
// It is immutable once produced and bound to exactly one level.
type QuestionSet struct {
	Objective  []ObjectiveQuestion
	Subjective []SubjectiveQuestion

	// SourceCharCount is the character count of the text extracted from
	// the source document.
	SourceCharCount int

	// SourcePreview is a short excerpt of the extracted text.
	SourcePreview string

	// DifficultyLevel is the level the set was generated for.
	DifficultyLevel int
}

// TotalQuestions returns the combined question count.
func (qs *QuestionSet) TotalQuestions() int {
	return len(qs.Objective) + len(qs.Subjective)
}

// FindObjective returns the objective question with the given ID,
// or nil if the set holds no such question.
func (qs *QuestionSet) FindObjective(id string) *ObjectiveQuestion {
	for i := range qs.Objective {
		if qs.Objective[i].ID == id {
			return &qs.Objective[i]
		}
	}
	return nil
}

// FindSubjective returns the subjective question with the given ID,
// or nil if the set holds no such question.
func (qs *QuestionSet) FindSubjective(id string) *SubjectiveQuestion {
	for i := range qs.Subjective {
		if qs.Subjective[i].ID == id {
			return &qs.Subjective[i]
		}
	}
	return nil
}
