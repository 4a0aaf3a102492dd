package handler

type chatRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

type chatResponse struct {
	Text string `json:"text"`
}

type visionRequest struct {
	Prompt   string `json:"prompt"    validate:"required"`
	ImageB64 string `json:"image_b64" validate:"required,base64"`
	MimeType string `json:"mime_type" validate:"required"`
}

type imageRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

type imageResponse struct {
	ImageB64 string `json:"image_b64"`
}
