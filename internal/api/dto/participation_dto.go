package dto

// PollVoteResponse reports a poll's membership in the voted set.
type PollVoteResponse struct {
	PollID   int  `json:"poll_id"`
	Voted    bool `json:"voted"`
	Recorded bool `json:"recorded"`
}

// SurveyCompletionResponse reports a survey's membership in the completed set.
type SurveyCompletionResponse struct {
	SurveyID  int  `json:"survey_id"`
	Completed bool `json:"completed"`
	Recorded  bool `json:"recorded"`
}

// ParticipationResponse lists both sets.
type ParticipationResponse struct {
	VotedPolls       []int `json:"voted_polls"`
	CompletedSurveys []int `json:"completed_surveys"`
}
