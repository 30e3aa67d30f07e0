package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"dh2ocol/internal/httpx"
)

type adminClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

func (s *Server) signAdminToken(userID int64, username, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := adminClaims{
		UserID:   userID,
		Username: username,
		Type:     typ,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}

func (s *Server) parseAdminToken(raw string) (*adminClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &adminClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("método de firma inesperado")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*adminClaims)
	if !ok || !token.Valid {
		return nil, errors.New("token inválido")
	}
	return claims, nil
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Usuario y contraseña requeridos")
		return
	}

	var (
		userID int64
		hash   string
	)
	err := s.db.QueryRowContext(r.Context(),
		"SELECT id, password_hash FROM usuarios WHERE username = ? AND activo = TRUE",
		req.Username,
	).Scan(&userID, &hash)
	switch {
	case err == nil:
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
			httpx.WriteError(w, http.StatusUnauthorized, "Credenciales inválidas")
			return
		}
	case errors.Is(err, sql.ErrNoRows):
		// Bootstrap account from the environment, for a fresh install
		// without rows in usuarios.
		if s.cfg.AdminPassword == "" || req.Username != s.cfg.AdminUser || req.Password != s.cfg.AdminPassword {
			httpx.WriteError(w, http.StatusUnauthorized, "Credenciales inválidas")
			return
		}
		userID = 0
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "Error consultando usuario")
		return
	}

	access, err := s.signAdminToken(userID, req.Username, "access", s.cfg.AccessTokenTTL)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Error generando token")
		return
	}
	refresh, err := s.signAdminToken(userID, req.Username, "refresh", s.cfg.RefreshTokenTTL)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Error generando token")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"access_token":  access,
		"refresh_token": refresh,
		"expires_in":    int64(s.cfg.AccessTokenTTL.Seconds()),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (s *Server) handleAdminRefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	claims, err := s.parseAdminToken(strings.TrimSpace(req.RefreshToken))
	if err != nil || claims.Type != "refresh" {
		httpx.WriteError(w, http.StatusUnauthorized, "Token de actualización inválido")
		return
	}

	access, err := s.signAdminToken(claims.UserID, claims.Username, "access", s.cfg.AccessTokenTTL)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Error generando token")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"access_token": access,
		"expires_in":   int64(s.cfg.AccessTokenTTL.Seconds()),
	})
}

func (s *Server) requireAdminJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := strings.TrimSpace(r.Header.Get("Authorization"))
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			httpx.WriteError(w, http.StatusUnauthorized, "Token requerido")
			return
		}

		claims, err := s.parseAdminToken(strings.TrimSpace(authz[len("bearer "):]))
		if err != nil || claims.Type != "access" {
			httpx.WriteError(w, http.StatusUnauthorized, "Token inválido o expirado")
			return
		}

		next.ServeHTTP(w, r)
	})
}
