// Package chatbot answers visitor messages: first by keyword match against
// the curated question bank, then through GPT when enabled, and finally
// with the fixed apology reply.
package chatbot

import "strings"

// Pregunta is one curated question with its canned answer and the
// comma-separated keyword list that triggers it.
type Pregunta struct {
	ID            int64
	Pregunta      string
	Respuesta     string
	PalabrasClave string
}

// Match scans the bank in order and returns the answer of the first
// question with a keyword contained in the message. Matching is
// case-insensitive substring; an empty keyword never matches.
func Match(preguntas []Pregunta, mensaje string) (respuesta string, preguntaID int64, ok bool) {
	mensaje = strings.ToLower(strings.TrimSpace(mensaje))
	if mensaje == "" {
		return "", 0, false
	}

	for _, p := range preguntas {
		if p.PalabrasClave == "" {
			continue
		}
		for _, palabra := range strings.Split(p.PalabrasClave, ",") {
			palabra = strings.ToLower(strings.TrimSpace(palabra))
			if palabra == "" {
				continue
			}
			if strings.Contains(mensaje, palabra) {
				return p.Respuesta, p.ID, true
			}
		}
	}
	return "", 0, false
}
