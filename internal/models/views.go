package models

// UploadResult is returned after a document session is created.
type UploadResult struct {
	SessionID           string   `json:"session_id"`
	Filename            string   `json:"filename"`
	FileType            string   `json:"file_type"`
	TotalPages          int      `json:"total_pages"`
	Language            Language `json:"language"`
	PresentationSummary string   `json:"presentation_summary"`
	Status              string   `json:"status"`
	Message             string   `json:"message"`
	// Degraded is set when the AI analysis failed and fallback analyses were used.
	Degraded bool `json:"degraded,omitempty"`
}

// PageView is the projection of one page served to readers.
type PageView struct {
	PageNumber      int      `json:"page_number"`
	Title           string   `json:"title"`
	OriginalText    string   `json:"original_text"`
	Explanation     string   `json:"explanation"`
	KeyPoints       []string `json:"key_points"`
	SlideType       string   `json:"slide_type"`
	ImportanceLevel string   `json:"importance_level"`
	ImageData       string   `json:"image_data"`
	Paragraphs      []string `json:"paragraphs"`
	WordCount       int      `json:"word_count"`
	ReadingTime     float64  `json:"reading_time"`
}

// PageImage is a decoded page image.
type PageImage struct {
	Data      []byte
	MediaType string
}

// DocumentSummary is the whole-document view of a session.
type DocumentSummary struct {
	SessionID           string         `json:"session_id"`
	Filename            string         `json:"filename"`
	TotalPages          int            `json:"total_pages"`
	PresentationSummary string         `json:"presentation_summary"`
	SlidesAnalysis      []PageAnalysis `json:"slides_analysis"`
	Language            Language       `json:"language"`
}

// NavigationResult reports the outcome of a navigation command.
// An unrecognized command yields Success=false, never an error.
type NavigationResult struct {
	Success bool   `json:"success"`
	NewPage int    `json:"new_page,omitempty"`
	Message string `json:"message"`
}

// PageAnswer is the answer to a question about a page image.
type PageAnswer struct {
	Answer     string `json:"answer"`
	SessionID  string `json:"session_id"`
	PageNumber int    `json:"page_number"`
	Question   string `json:"question"`
}

// PageSearchHit is one page matching a search within a session.
type PageSearchHit struct {
	PageNumber int      `json:"page_number"`
	Title      string   `json:"title,omitempty"`
	Score      float64  `json:"score"`
	Fragments  []string `json:"fragments,omitempty"`
}

// PageSearchResponse is the result of searching a session's pages.
type PageSearchResponse struct {
	SessionID  string           `json:"session_id"`
	Query      string           `json:"query"`
	Suggestion string           `json:"suggestion,omitempty"`
	Hits       []*PageSearchHit `json:"hits"`
	Total      uint64           `json:"total"`
	QueryTime  int64            `json:"query_time_ms"`
}

// SpeechAudio is synthesized speech.
type SpeechAudio struct {
	Data     []byte
	MimeType string
}

// Transcript is the cleaned result of speech-to-text.
type Transcript struct {
	Text         string `json:"text"`
	LanguageCode string `json:"language_code"`
}

// DeleteResult confirms a deleted session.
type DeleteResult struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}
