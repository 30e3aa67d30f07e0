package api

import (
	"context"
	"log"

	"github.com/go-resty/resty/v2"
)

const recaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

type recaptchaResult struct {
	Success bool    `json:"success"`
	Score   float64 `json:"score"`
	Action  string  `json:"action"`
}

// verifyRecaptcha checks a v3 token against Google. A server without a
// configured secret rejects every presented token, matching the policy
// that an unverifiable token is worse than no token.
func (s *Server) verifyRecaptcha(ctx context.Context, token string) bool {
	if s.cfg.RecaptchaSecretKey == "" {
		return false
	}

	var out recaptchaResult
	resp, err := resty.New().R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"secret":   s.cfg.RecaptchaSecretKey,
			"response": token,
		}).
		SetResult(&out).
		Post(recaptchaVerifyURL)
	if err != nil {
		log.Printf("recaptcha: error verificando token: %v", err)
		return false
	}
	if resp.IsError() {
		log.Printf("recaptcha: respuesta %s de siteverify", resp.Status())
		return false
	}

	return out.Success && out.Score > s.cfg.RecaptchaMinScore
}
