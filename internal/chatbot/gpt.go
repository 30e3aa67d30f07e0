package chatbot

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultReply is sent when no curated question matches and GPT is
// disabled or fails.
const DefaultReply = "Lo siento, no entiendo tu pregunta. 🤔 ¿Podrías reformularla o elegir una de las opciones disponibles? También puedes contactarnos directamente por WhatsApp."

const systemPrompt = `Eres TanquiBot, el asistente virtual de DH2OCOL, una empresa especializada en:
- Limpieza y mantenimiento de tanques de agua
- Venta de tanques elevados y subterráneos
- Accesorios para tanques de agua
- Servicios de educación sobre agua potable (EducAgua)
- Ubicada en Valledupar, Colombia

Responde de manera amigable y profesional. Si la pregunta no está relacionada con nuestros servicios,
redirige cortésmente hacia nuestros servicios o sugiere contactar por WhatsApp.`

// GPT wraps the OpenAI chat API as the fallback responder.
type GPT struct {
	client *openai.Client
	model  string
}

func NewGPT(apiKey, model string) *GPT {
	return &GPT{client: openai.NewClient(apiKey), model: model}
}

// Answer sends the raw visitor message under the TanquiBot system prompt.
func (g *GPT) Answer(ctx context.Context, mensaje string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: mensaje},
		},
		MaxTokens:   200,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return DefaultReply, nil
	}
	return resp.Choices[0].Message.Content, nil
}
