package request_models

type SubmitQuestionRequest struct {
	Input string `json:"input" form:"input"`
}

type UpdateInputRequest struct {
	Input string `json:"input" form:"input"`
}
