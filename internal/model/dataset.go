package model

// QAPair is a hand-authored question/answer pair, read-only input to the
// prepare stage and the exact-match path of the chat service.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// TrainingExample pairs the rendered resume context with one QA pair.
// StartIdx/EndIdx are byte offsets of the answer inside the context; when
// the answer does not occur verbatim both are zero.
type TrainingExample struct {
	Context  string `json:"context"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	StartIdx int    `json:"start_idx"`
	EndIdx   int    `json:"end_idx"`
}
