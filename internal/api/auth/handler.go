package auth

import (
	"encoding/json"
	"fmt"
	"net/http"

	"hireme/internal/domain"
	apperror "hireme/internal/errors"
	"hireme/internal/pkg/logger"
	"hireme/internal/pkg/middleware"
)

// AuthService define o contrato que o Handler espera da camada de Serviço.
type AuthService interface {
	Register(ctx domain.Context, registration domain.UserRegistration) (domain.AuthResult, error)
	Login(ctx domain.Context, email string, password string) (domain.AuthResult, error)
}

// LoginRequest representa o payload de entrada para o login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Handler agrupa todos os métodos de Handler de autenticação.
type Handler struct {
	Service AuthService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc AuthService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
			}
		}
		return
	}

	// TRATAMENTO DE ERROS
	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	errorResponse := map[string]interface{}{
		"code":     status,
		"category": category,
		"message":  message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse)
}

// RegisterHandler lida com a requisição POST /api/auth/register.
// @Summary Registra um novo usuário
// @Description Cria um novo usuário, hasheia a senha e emite um token de sessão.
// @Tags auth
// @Accept json
// @Produce json
// @Param registration body domain.UserRegistration true "Dados de registro (firstName, lastName, email, password, role opcional)"
// @Success 201 {object} domain.AuthResult "Usuário criado; token + visão pública"
// @Failure 400 {object} domain.ErrorResponse "Campos obrigatórios ausentes ou email duplicado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /api/auth/register [post]
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	var reg domain.UserRegistration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusCreated)
		return
	}

	result, err := h.Service.Register(ctx, reg)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusCreated)
		return
	}

	// O AuthResult já carrega o usuário sem o hash (tag json:"-" + redação no serviço).
	h.handleServiceResponse(w, r, result, nil, http.StatusCreated)
}

// LoginHandler lida com a requisição POST /api/auth/login.
// @Summary Autentica um usuário e retorna um JWT
// @Description Recebe email/senha, verifica a validade e emite um token de sessão.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Credenciais do usuário (email e senha)"
// @Success 200 {object} domain.AuthResult "Token JWT + visão pública do usuário"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido ou credenciais inválidas"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /api/auth/login [post]
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	var loginReq LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}

	result, err := h.Service.Login(ctx, loginReq.Email, loginReq.Password)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, result, nil, http.StatusOK)
}

// VerifyHandler lida com a requisição GET /api/auth/verify.
// Roda atrás do middleware de autenticação: chegar aqui significa token válido.
// @Summary Verifica a validade do token de sessão
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "Token válido"
// @Failure 401 {object} domain.ErrorResponse "Token ausente, inválido ou expirado"
// @Router /api/auth/verify [get]
func (h *Handler) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Token não processado."), http.StatusOK)
		return
	}

	h.Logger.Debug("Token verificado.", map[string]interface{}{"user_id": claims.UserID})
	h.handleServiceResponse(w, r, map[string]string{"msg": "Token válido."}, nil, http.StatusOK)
}
