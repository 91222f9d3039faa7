package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	apperror "hireme/internal/errors"
	"hireme/internal/pkg/token"
)

// ContextKey é o tipo da chave usada para armazenar as claims no contexto.
// Usamos um tipo próprio para garantir que não haja conflito com chaves string
// de outros pacotes (Context Keys devem ser não-exportadas ou de tipo único).
type ContextKey int

const (
	UserClaimsKey ContextKey = iota
)

// UserClaims representa os dados do usuário extraídos do token JWT,
// que serão anexados ao contexto.
type UserClaims struct {
	UserID string
}

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// NewAuthMiddleware cria uma função de middleware que valida um JWT e anexa o
// identificador do usuário ao contexto da requisição. Token ausente e token
// inválido colapsam no mesmo 401 na borda.
func NewAuthMiddleware(tokenSvc TokenService) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			// 1. Extrair o Token do Header Authorization: Bearer <token>
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || len(authHeader) < 7 || authHeader[:7] != "Bearer " {
				writeUnauthorized(w, "Token de autorização ausente ou malformado.")
				return
			}

			tokenString := authHeader[7:]

			// 2. Validar o Token
			claims, err := tokenSvc.ValidateToken(tokenString)
			if err != nil {
				writeUnauthorized(w, "Token inválido ou expirado.")
				return
			}

			// 3. Anexar Claims ao Contexto
			userClaims := UserClaims{UserID: claims.UserID}
			ctx := context.WithValue(r.Context(), UserClaimsKey, userClaims)

			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// GetUserClaimsFromContext é uma função utilitária para extrair as claims no handler.
func GetUserClaimsFromContext(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(UserClaims)
	return claims, ok
}

// writeUnauthorized envia a resposta 401 no formato de erro padronizado da API.
func writeUnauthorized(w http.ResponseWriter, msg string) {
	appErr := apperror.NewUnauthorizedError(msg)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":     http.StatusUnauthorized,
		"category": appErr.Category(),
		"message":  appErr.Error(),
	})
}
