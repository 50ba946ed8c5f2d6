package chat

type Request struct {
	Message string `json:"message"`
}

type Response struct {
	BotResponse string `json:"botResponse"`
}
