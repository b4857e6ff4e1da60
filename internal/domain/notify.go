package domain

// NotifyPayload is the body posted to the chat webhook.
type NotifyPayload struct {
	Text string `json:"text"`
}
