package model

// ExplainRequest asks for a step-by-step explanation of a question.
type ExplainRequest struct {
	QuestionText  string   `json:"question_text" binding:"required,min=1,max=4000"`
	Options       []string `json:"options" binding:"omitempty,max=10"`
	CorrectAnswer string   `json:"correct_answer" binding:"omitempty,max=200"`
	Subject       string   `json:"subject" binding:"omitempty,max=100"`
}

// CategorizeRequest asks for a subject/topic/difficulty classification.
type CategorizeRequest struct {
	QuestionText string `json:"question_text" binding:"required,min=1,max=4000"`
}

// EnhanceRequest asks for a clearer rewording of a question.
type EnhanceRequest struct {
	QuestionText string `json:"question_text" binding:"required,min=1,max=4000"`
}

// AskRequest is a free-form study question.
type AskRequest struct {
	Prompt  string `json:"prompt" binding:"required,min=1,max=4000"`
	Context string `json:"context" binding:"omitempty,max=8000"`
}

// GenerateRequest asks for fresh practice questions.
type GenerateRequest struct {
	Subject      string `json:"subject" binding:"required,min=1,max=100"`
	Topic        string `json:"topic" binding:"omitempty,max=100"`
	QuestionType string `json:"question_type" binding:"omitempty,oneof=MCQ MSQ NAT"`
	Difficulty   string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	Count        int    `json:"count" binding:"omitempty,min=1,max=10"`
}

// AnalyzeRequest asks for advice based on an exam performance summary.
type AnalyzeRequest struct {
	TotalQuestions int                     `json:"total_questions" binding:"required,gt=0"`
	Correct        int                     `json:"correct" binding:"gte=0"`
	Incorrect      int                     `json:"incorrect" binding:"gte=0"`
	Score          float64                 `json:"score"`
	Percentage     float64                 `json:"percentage" binding:"gte=0,lte=100"`
	SubjectScores  map[string]SubjectScore `json:"subject_wise_score" binding:"omitempty"`
}

// AdvisorResponse wraps a single advisory text reply.
type AdvisorResponse struct {
	Text string `json:"text"`
}
