package dto

type ChatbotMessageRequest struct {
	Message string `json:"message" validate:"required,min=1,max=1000"`
}

// ChatbotPost - объявление, найденное по запросу пользователя
type ChatbotPost struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Area     float64 `json:"area"`
	Address  string  `json:"address"`
	Province string  `json:"province,omitempty"`
	Category string  `json:"category,omitempty"`
}

type ChatbotResponse struct {
	Intent string        `json:"intent"`
	Reply  string        `json:"reply"`
	Posts  []ChatbotPost `json:"posts,omitempty"`
}
