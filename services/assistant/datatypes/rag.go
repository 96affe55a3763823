package datatypes

type AnswerMetadata struct {
	SimilarConversations int `json:"similar_conversations"`
	KnowledgeArticles    int `json:"knowledge_articles"`
}

type AnswerResponse struct {
	Success  bool           `json:"success"`
	Answer   string         `json:"answer"`
	Metadata AnswerMetadata `json:"metadata"`
}

type CompletionResponse struct {
	Success    bool   `json:"success"`
	Completion string `json:"completion"`
}

type IngestResponse struct {
	Success            bool `json:"success"`
	ProcessedUsers     int  `json:"processed_users"`
	TotalConversations int  `json:"total_conversations"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SearchCandidate is one scored hit from a vector search. Score is cosine
// similarity in [-1, 1]; result lists are ordered by descending score.
type SearchCandidate struct {
	OriginalID string  `json:"original_id"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Score      float64 `json:"score"`
}
