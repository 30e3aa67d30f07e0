package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandleWhatsAppRedirect(t *testing.T) {
	s, _ := newTestServer(t)
	s.cfg.WhatsAppPhone = "573157484662"

	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "sin texto",
			url:  "/whatsapp",
			want: "https://wa.me/573157484662",
		},
		{
			name: "texto con espacios",
			url:  "/whatsapp?texto=" + "Hola%20DH2O",
			want: "https://wa.me/573157484662?text=Hola%20DH2O",
		},
		{
			// Los caracteres reservados no pueden pasar crudos al
			// destino o rompen la query de wa.me.
			name: "texto con caracteres reservados",
			url:  "/whatsapp?texto=" + "Hola%20%26%20%C2%BFqu%C3%A9%20%23tal%3F",
			want: "https://wa.me/573157484662?text=Hola%20%26%20%C2%BFqu%C3%A9%20%23tal%3F",
		},
		{
			name: "texto con signo mas",
			url:  "/whatsapp?texto=" + "2%2B2",
			want: "https://wa.me/573157484662?text=2%2B2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()
			s.handleWhatsAppRedirect(rec, req)

			if rec.Code != http.StatusMovedPermanently {
				t.Fatalf("status = %d, want 301", rec.Code)
			}
			if got := rec.Header().Get("Location"); got != tt.want {
				t.Errorf("Location = %q, want %q", got, tt.want)
			}
		})
	}
}
