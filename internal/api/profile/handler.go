package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"hireme/internal/domain"
	apperror "hireme/internal/errors"
	"hireme/internal/pkg/logger"
	"hireme/internal/pkg/middleware"
)

// ProfileService define o contrato que o Handler espera da camada de Serviço.
type ProfileService interface {
	GetProfile(ctx domain.Context, userID string) (domain.User, error)
	UpdateProfile(ctx domain.Context, userID string, update domain.ProfileUpdate) (domain.User, error)
	UploadProfileImage(ctx domain.Context, userID string, data []byte, mimeType string) (domain.User, error)
	DeleteProfileImage(ctx domain.Context, userID string) (domain.User, error)
}

// Handler agrupa todos os métodos de Handler de perfil.
type Handler struct {
	Service       ProfileService
	MaxImageBytes int64
	Logger        logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ProfileService, maxImageBytes int64, log logger.Logger) *Handler {
	return &Handler{
		Service:       svc,
		MaxImageBytes: maxImageBytes,
		Logger:        log,
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

// userIDFromContext extrai o identificador anexado pelo middleware de autenticação.
func (h *Handler) userIDFromContext(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Token não processado."), http.StatusOK)
		return "", false
	}
	return claims.UserID, true
}

// ProfileHandler despacha GET/PUT em /api/auth/profile.
func (h *Handler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getProfile(w, r)
	case http.MethodPut:
		h.updateProfile(w, r)
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// getProfile lida com GET /api/auth/profile.
// @Summary Retorna o perfil do usuário autenticado
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.User "Perfil completo, sem a credencial de senha"
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Failure 404 {object} domain.ErrorResponse "Registro não encontrado"
// @Router /api/auth/profile [get]
func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDFromContext(w, r)
	if !ok {
		return
	}

	user, err := h.Service.GetProfile(r.Context(), userID)
	h.handleServiceResponse(w, r, user, err, http.StatusOK)
}

// updateProfile lida com PUT /api/auth/profile.
// @Summary Atualização parcial do perfil
// @Description Aplica apenas os campos presentes no payload (merge, não overwrite).
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param update body domain.ProfileUpdate true "Subconjunto dos campos do perfil"
// @Success 200 {object} domain.User "Perfil atualizado"
// @Failure 400 {object} domain.ErrorResponse "Valor de campo malformado (e.g., role fora da enumeração)"
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Failure 404 {object} domain.ErrorResponse "Registro não encontrado"
// @Router /api/auth/profile [put]
func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDFromContext(w, r)
	if !ok {
		return
	}

	var update domain.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}

	user, err := h.Service.UpdateProfile(r.Context(), userID, update)
	h.handleServiceResponse(w, r, user, err, http.StatusOK)
}

// ImageHandler despacha PUT/DELETE em /api/auth/profile/image.
func (h *Handler) ImageHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		h.uploadImage(w, r)
	case http.MethodDelete:
		h.deleteImage(w, r)
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// uploadImage lida com PUT /api/auth/profile/image (multipart, campo "profileImage").
// @Summary Substitui a imagem de perfil
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param profileImage formData file true "Arquivo de imagem (JPEG/PNG/GIF/WebP, máx. 5 MiB)"
// @Success 200 {object} domain.User "Perfil com a nova referência de imagem"
// @Failure 400 {object} domain.ErrorResponse "Tipo não suportado ou tamanho excedido"
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Router /api/auth/profile/image [put]
func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDFromContext(w, r)
	if !ok {
		return
	}

	// Teto duro no transporte: corpos acima do limite (+ folga para o
	// envelope multipart) são cortados antes de chegar à memória.
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxImageBytes+64*1024)

	if err := r.ParseMultipartForm(h.MaxImageBytes); err != nil {
		// O corte do MaxBytesReader é excesso de tamanho; o resto é corpo malformado.
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.handleServiceResponse(w, r, nil, apperror.NewPayloadTooLargeError(h.MaxImageBytes), http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Corpo multipart inválido."), http.StatusOK)
		return
	}

	file, header, err := r.FormFile("profileImage")
	if err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Campo de arquivo 'profileImage' ausente."), http.StatusOK)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewInternalError("Falha ao ler o arquivo enviado.", err), http.StatusOK)
		return
	}

	// Tipo declarado pelo cliente; se ausente, detecta pelo conteúdo.
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}

	user, err := h.Service.UploadProfileImage(r.Context(), userID, data, mimeType)
	h.handleServiceResponse(w, r, user, err, http.StatusOK)
}

// deleteImage lida com DELETE /api/auth/profile/image.
// @Summary Remove a imagem de perfil
// @Description No-op se não houver imagem; a referência é anulada no registro.
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Mensagem + perfil atualizado"
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Failure 404 {object} domain.ErrorResponse "Registro não encontrado"
// @Router /api/auth/profile/image [delete]
func (h *Handler) deleteImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDFromContext(w, r)
	if !ok {
		return
	}

	user, err := h.Service.DeleteProfileImage(r.Context(), userID)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	response := map[string]interface{}{
		"msg":  "Imagem de perfil removida.",
		"user": user,
	}
	h.handleServiceResponse(w, r, response, nil, http.StatusOK)
}
