package errors

import (
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros customizados do HireMe.
// Ela permite que o código externo (Handler) acesse a Categoria e a Mensagem do erro.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "VALIDATION_ERROR", "NOT_FOUND")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular erros subjacentes (original error)
}

// --- Tipos de Erro Específicos (Erros de Domínio) ---

// ValidationError representa falhas de validação de dados de entrada.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string    { return fmt.Sprintf("Erro de Validação: %s", e.Msg) }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// DuplicateEmailError indica tentativa de registro com email já cadastrado.
// A API original responde 400 (não 409) para este caso; mantemos o contrato.
type DuplicateEmailError struct {
	Email string
}

func (e *DuplicateEmailError) Error() string {
	return fmt.Sprintf("O email '%s' já está em uso.", e.Email)
}
func (e *DuplicateEmailError) Category() string { return "DUPLICATE_EMAIL" }
func (e *DuplicateEmailError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *DuplicateEmailError) Unwrap() error    { return nil }

// NewDuplicateEmailError cria um novo erro de email duplicado.
func NewDuplicateEmailError(email string) AppError {
	return &DuplicateEmailError{Email: email}
}

// InvalidCredentialsError indica falha de login (email desconhecido ou senha
// incorreta). A API original responde 400 para este caso, reservando 401 para
// problemas de token; a mensagem é deliberadamente genérica para não revelar
// qual metade da credencial falhou.
type InvalidCredentialsError struct {
	Msg string
}

func (e *InvalidCredentialsError) Error() string    { return e.Msg }
func (e *InvalidCredentialsError) Category() string { return "INVALID_CREDENTIALS" }
func (e *InvalidCredentialsError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *InvalidCredentialsError) Unwrap() error    { return nil }

// NewInvalidCredentialsError cria um novo erro de credenciais de login.
func NewInvalidCredentialsError(msg string) AppError {
	return &InvalidCredentialsError{Msg: msg}
}

// UnauthorizedError cobre tokens de sessão ausentes, inválidos ou expirados.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string    { return e.Msg }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int  { return http.StatusUnauthorized } // 401
func (e *UnauthorizedError) Unwrap() error    { return nil }

// NewUnauthorizedError cria um novo erro de autenticação/autorização.
func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg}
}

// NotFoundError representa a ausência de um recurso solicitado.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("Recurso não encontrado: %s", e.Msg) }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// UnsupportedMediaTypeError indica upload com tipo de mídia fora da allow-list.
type UnsupportedMediaTypeError struct {
	MimeType string
}

func (e *UnsupportedMediaTypeError) Error() string {
	return fmt.Sprintf("Tipo de imagem não suportado: %s", e.MimeType)
}
func (e *UnsupportedMediaTypeError) Category() string { return "UNSUPPORTED_MEDIA_TYPE" }
func (e *UnsupportedMediaTypeError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *UnsupportedMediaTypeError) Unwrap() error    { return nil }

// NewUnsupportedMediaTypeError cria um novo erro de tipo de mídia.
func NewUnsupportedMediaTypeError(mimeType string) AppError {
	return &UnsupportedMediaTypeError{MimeType: mimeType}
}

// PayloadTooLargeError indica upload acima do teto configurado.
type PayloadTooLargeError struct {
	MaxBytes int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("Imagem excede o tamanho máximo de %d bytes.", e.MaxBytes)
}
func (e *PayloadTooLargeError) Category() string { return "PAYLOAD_TOO_LARGE" }
func (e *PayloadTooLargeError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *PayloadTooLargeError) Unwrap() error    { return nil }

// NewPayloadTooLargeError cria um novo erro de payload excedente.
func NewPayloadTooLargeError(maxBytes int64) AppError {
	return &PayloadTooLargeError{MaxBytes: maxBytes}
}

// --- Tipos de Erro de Infraestrutura (Encapsulamento) ---

// UpstreamStorageError representa falha em um colaborador externo (Blob Store).
type UpstreamStorageError struct {
	Msg string
	Err error
}

func (e *UpstreamStorageError) Error() string {
	return fmt.Sprintf("Falha no armazenamento externo: %s", e.Msg)
}
func (e *UpstreamStorageError) Category() string { return "UPSTREAM_STORAGE_ERROR" }
func (e *UpstreamStorageError) HTTPStatus() int  { return http.StatusBadGateway } // 502
func (e *UpstreamStorageError) Unwrap() error    { return e.Err }

// NewUpstreamStorageError cria um erro de colaborador externo.
func NewUpstreamStorageError(msg string, err error) AppError {
	return &UpstreamStorageError{Msg: msg, Err: err}
}

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
type InternalError struct {
	Msg string
	Err error // Erro original subjacente (e.g., erro do driver SQL)
}

func (e *InternalError) Error() string    { return fmt.Sprintf("Erro Interno: %s", e.Msg) }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro de servidor (para falhas de lógica ou código não esperado).
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError é um atalho para criar um InternalError específico de falhas no DB.
func NewDBError(msg string, err error) AppError {
	return NewInternalError(fmt.Sprintf("%s (DB): %s", msg, err.Error()), err)
}

// --- Helper para o Handler (Tradução Final) ---

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP e corpo de resposta.
// Nenhum detalhe interno (stack, erro do driver) cruza a borda da API.
func MapToHTTPStatus(err error) (int, string, string) {
	if appErr, ok := err.(AppError); ok {
		if appErr.HTTPStatus() >= 500 {
			// Detalhes de infraestrutura ficam nos logs, não na resposta.
			return appErr.HTTPStatus(), appErr.Category(), "Ocorreu um erro inesperado."
		}
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}

	// Erro não tipado: tratar como erro interno genérico.
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "Ocorreu um erro inesperado."
}
