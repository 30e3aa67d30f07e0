package chatbot

import (
	"context"
	"log"
)

// Fallback generates an answer when no curated question matched. GPT
// satisfies it; tests swap in fakes.
type Fallback interface {
	Answer(ctx context.Context, mensaje string) (string, error)
}

// Responder applies the full answer policy over a question bank snapshot.
type Responder struct {
	// Fallback may be nil, which skips straight to DefaultReply.
	Fallback Fallback
}

// Reply returns the answer text and, for curated matches, the id of the
// matched question (0 otherwise). It never fails: a broken fallback
// degrades to DefaultReply.
func (r *Responder) Reply(ctx context.Context, preguntas []Pregunta, mensaje string) (string, int64) {
	if respuesta, id, ok := Match(preguntas, mensaje); ok {
		return respuesta, id
	}

	if r.Fallback != nil {
		respuesta, err := r.Fallback.Answer(ctx, mensaje)
		if err == nil && respuesta != "" {
			return respuesta, 0
		}
		if err != nil {
			log.Printf("chatbot: fallo del fallback GPT: %v", err)
		}
	}

	return DefaultReply, 0
}
