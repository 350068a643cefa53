package model

type ChatLog struct {
	ID         string `json:"id" db:"id"`
	Question   string `json:"question" db:"question"`
	Answer     string `json:"answer" db:"answer"`
	ExactMatch int    `json:"exact_match" db:"exact_match"`
	LatencyMs  int64  `json:"latency_ms" db:"latency_ms"`
	Ctime      int64  `json:"ctime" db:"ctime"`
}
