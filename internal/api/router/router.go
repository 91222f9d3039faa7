package router

import (
	"encoding/json"
	"net/http"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"hireme/internal/api/auth"
	"hireme/internal/api/profile"
	"hireme/internal/pkg/middleware"
)

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências.
func NewRouter(authHandler *auth.Handler, profileHandler *profile.Handler, tokenSvc middleware.TokenService, corsOrigin string, port string) http.Handler {

	// Usamos o ServeMux padrão do net/http para roteamento
	mux := http.NewServeMux()

	// Middleware de autenticação (Bearer token) para as rotas protegidas
	authMW := middleware.NewAuthMiddleware(tokenSvc)

	// --- 1. Health Check ---
	mux.HandleFunc("/health", HealthHandler(port))

	// --- 2. Rotas públicas de autenticação ---
	mux.HandleFunc("/api/auth/register", authHandler.RegisterHandler)
	mux.HandleFunc("/api/auth/login", authHandler.LoginHandler)

	// --- 3. Rotas protegidas (exigem Authorization: Bearer <token>) ---
	mux.HandleFunc("/api/auth/verify", authMW(authHandler.VerifyHandler))
	mux.HandleFunc("/api/auth/profile", authMW(profileHandler.ProfileHandler))
	mux.HandleFunc("/api/auth/profile/image", authMW(profileHandler.ImageHandler))

	// --- 4. Documentação (Swagger UI sobre o documento OpenAPI mantido em docs/) ---
	mux.HandleFunc("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./docs/swagger.json")
	})
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// --- 5. CORS (origem do cliente web; o original fixa uma única origem) ---
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	return c.Handler(mux)
}

// HealthHandler responde o health check com o status e a porta do processo.
func HealthHandler(port string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "OK",
			"port":   port,
		})
	}
}
