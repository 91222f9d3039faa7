// Package api implementa o cliente HTTP da API HireMe (/api/auth).
// Toda resposta é lida de forma tolerante: um corpo que não é JSON bem-formado
// é tratado como falha do colaborador upstream e exposto genericamente, nunca
// derrubando a interface. O cliente nunca faz retry automático.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"hireme/internal/domain"
	apperror "hireme/internal/errors"
)

// Client é o cliente da API REST do HireMe.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient cria um cliente apontando para a URL base da API
// (e.g., "http://localhost:8080").
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
	}
}

// errorBody é o envelope de erro padronizado da API ({code, category, message}).
type errorBody struct {
	Code     int    `json:"code"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// decodeInto lê o corpo da resposta e o desserializa em out.
// Status de erro vira um AppError tipado conforme o código HTTP; corpo que não
// é JSON válido vira um erro de upstream genérico.
func decodeInto(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperror.NewUpstreamStorageError("falha ao ler a resposta do servidor", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return apperror.NewUpstreamStorageError("resposta do servidor não é JSON válido", err)
		}
		return nil
	}

	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil || body.Message == "" {
		return apperror.NewUpstreamStorageError(
			fmt.Sprintf("resposta de erro ilegível do servidor (HTTP %d)", resp.StatusCode), nil)
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		// Falha de credencial de login também chega como 400; a categoria
		// distingue o caso para a camada de interface.
		if body.Category == "INVALID_CREDENTIALS" {
			return apperror.NewInvalidCredentialsError(body.Message)
		}
		return apperror.NewValidationError(body.Message)
	case http.StatusUnauthorized:
		return apperror.NewUnauthorizedError(body.Message)
	case http.StatusNotFound:
		return apperror.NewNotFoundError(body.Message)
	default:
		return apperror.NewUpstreamStorageError(body.Message, nil)
	}
}

// doJSON monta e executa uma requisição com corpo JSON opcional.
func (c *Client) doJSON(ctx context.Context, method, path, token string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return apperror.NewInternalError("falha ao serializar o payload", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return apperror.NewInternalError("falha ao montar a requisição", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return apperror.NewUpstreamStorageError("falha ao contactar o servidor", err)
	}

	return decodeInto(resp, out)
}

// Register registra um novo usuário e retorna token + visão pública.
func (c *Client) Register(ctx context.Context, reg domain.UserRegistration) (domain.AuthResult, error) {
	var result domain.AuthResult
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", "", reg, &result)
	return result, err
}

// Login autentica com email/senha e retorna token + visão pública.
func (c *Client) Login(ctx context.Context, email, password string) (domain.AuthResult, error) {
	payload := map[string]string{"email": email, "password": password}
	var result domain.AuthResult
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", "", payload, &result)
	return result, err
}

// GetProfile busca o perfil completo do usuário autenticado.
func (c *Client) GetProfile(ctx context.Context, token string) (domain.User, error) {
	var user domain.User
	err := c.doJSON(ctx, http.MethodGet, "/api/auth/profile", token, nil, &user)
	return user, err
}

// UpdateProfile envia uma atualização parcial; campos nil não são transmitidos.
func (c *Client) UpdateProfile(ctx context.Context, token string, update domain.ProfileUpdate) (domain.User, error) {
	var user domain.User
	err := c.doJSON(ctx, http.MethodPut, "/api/auth/profile", token, update, &user)
	return user, err
}

// UploadProfileImage envia a imagem via multipart (campo "profileImage").
func (c *Client) UploadProfileImage(ctx context.Context, token, filename, mimeType string, data []byte) (domain.User, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="profileImage"; filename="%s"`, filename))
	header.Set("Content-Type", mimeType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("falha ao montar o multipart", err)
	}
	if _, err := part.Write(data); err != nil {
		return domain.User{}, apperror.NewInternalError("falha ao escrever o arquivo no multipart", err)
	}
	if err := writer.Close(); err != nil {
		return domain.User{}, apperror.NewInternalError("falha ao finalizar o multipart", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.BaseURL+"/api/auth/profile/image", &buf)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("falha ao montar a requisição", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return domain.User{}, apperror.NewUpstreamStorageError("falha ao contactar o servidor", err)
	}

	var user domain.User
	if err := decodeInto(resp, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// DeleteProfileImage remove a imagem de perfil e retorna o perfil atualizado.
func (c *Client) DeleteProfileImage(ctx context.Context, token string) (domain.User, error) {
	var result struct {
		Msg  string      `json:"msg"`
		User domain.User `json:"user"`
	}
	err := c.doJSON(ctx, http.MethodDelete, "/api/auth/profile/image", token, nil, &result)
	return result.User, err
}

// Verify checa a validade do token junto ao servidor.
// Satisfaz o contrato session.Verifier usado pelo guard de rotas.
func (c *Client) Verify(ctx context.Context, token string) error {
	return c.doJSON(ctx, http.MethodGet, "/api/auth/verify", token, nil, nil)
}
