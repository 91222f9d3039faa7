package profileservice

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"hireme/internal/domain"
	apperror "hireme/internal/errors"
	"hireme/internal/pkg/blob"
	"hireme/internal/pkg/logger"
)

// Allow-list fixa de tipos de imagem aceitos para o upload de perfil.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Forma mínima de email local@dominio.tld aceita na atualização de perfil.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service implementa a interface domain.ProfileService.
type Service struct {
	UserRepo      domain.UserRepository
	Blob          blob.Store
	MaxImageBytes int64
	logger        logger.Logger
}

// NewService cria uma nova instância do serviço de perfil.
func NewService(repo domain.UserRepository, blobStore blob.Store, maxImageBytes int64, log logger.Logger) *Service {
	return &Service{
		UserRepo:      repo,
		Blob:          blobStore,
		MaxImageBytes: maxImageBytes,
		logger:        log,
	}
}

// GetProfile retorna o perfil completo e redigido do usuário autenticado.
func (s *Service) GetProfile(ctx domain.Context, userID string) (domain.User, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile aplica uma atualização parcial (merge) sobre o perfil.
// Campos não enviados permanecem intocados; a operação é idempotente.
func (s *Service) UpdateProfile(ctx domain.Context, userID string, update domain.ProfileUpdate) (domain.User, error) {
	// 1. Validação dos valores enviados, antes de qualquer escrita
	if update.Role != nil && !domain.UserRole(*update.Role).IsValid() {
		return domain.User{}, apperror.NewValidationError("Role deve ser 'Job Seeker' ou 'Recruiter'.")
	}
	if update.Email != nil && !emailPattern.MatchString(strings.TrimSpace(*update.Email)) {
		return domain.User{}, apperror.NewValidationError("O email informado é inválido.")
	}

	// 2. Carrega o registro atual
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	// 3. Merge campo a campo (nil = não enviado)
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Email != nil {
		user.Email = strings.TrimSpace(*update.Email)
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Role != nil {
		user.Role = domain.UserRole(*update.Role)
	}
	if update.Country != nil {
		user.Country = *update.Country
	}
	if update.City != nil {
		user.City = *update.City
	}

	// 4. Persistência
	updated, err := s.UserRepo.Update(ctx, user)
	if err != nil {
		return domain.User{}, err
	}

	updated.PasswordHash = ""
	return updated, nil
}

// UploadProfileImage valida tipo e tamanho, envia os bytes ao Blob Store e
// grava a nova referência no registro do usuário (substituição, nunca acúmulo).
func (s *Service) UploadProfileImage(ctx domain.Context, userID string, data []byte, mimeType string) (domain.User, error) {
	// 1. Gate de tipo de mídia
	normalized := strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.Index(normalized, ";"); idx >= 0 {
		normalized = strings.TrimSpace(normalized[:idx])
	}
	if !allowedImageTypes[normalized] {
		return domain.User{}, apperror.NewUnsupportedMediaTypeError(mimeType)
	}

	// 2. Gate de tamanho
	if len(data) == 0 {
		return domain.User{}, apperror.NewValidationError("Nenhum arquivo de imagem foi enviado.")
	}
	if int64(len(data)) > s.MaxImageBytes {
		return domain.User{}, apperror.NewPayloadTooLargeError(s.MaxImageBytes)
	}

	// 3. Confirma que o usuário ainda existe
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	// 4. Envia ao Blob Store, chaveado pelo ID do usuário
	key := fmt.Sprintf("profile-images/user-%s-%s", userID, uuid.NewString())
	url, err := s.Blob.Upload(ctx.(context.Context), key, normalized, data)
	if err != nil {
		s.logger.Error("Falha no upload da imagem de perfil para o Blob Store.", err)
		return domain.User{}, apperror.NewUpstreamStorageError("upload da imagem de perfil", err)
	}

	// 5. Substitui a referência (exatamente uma imagem por usuário)
	previous := user.ProfileImage
	user.ProfileImage = &url

	updated, err := s.UserRepo.Update(ctx, user)
	if err != nil {
		return domain.User{}, err
	}

	// 6. Expurgo best-effort do blob anterior. Falha aqui não derruba a
	// requisição: a referência nova já está persistida.
	s.purgeBlob(ctx, previous)

	updated.PasswordHash = ""
	return updated, nil
}

// DeleteProfileImage anula a referência da imagem. Semântica de no-op:
// não falha se não houver imagem.
func (s *Service) DeleteProfileImage(ctx domain.Context, userID string) (domain.User, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	if user.ProfileImage == nil {
		user.PasswordHash = ""
		return user, nil
	}

	previous := user.ProfileImage
	user.ProfileImage = nil

	updated, err := s.UserRepo.Update(ctx, user)
	if err != nil {
		return domain.User{}, err
	}

	s.purgeBlob(ctx, previous)

	updated.PasswordHash = ""
	return updated, nil
}

// purgeBlob remove o blob antigo do armazenamento externo, se houver.
// Erros são apenas logados; a referência no registro é a fonte de verdade.
func (s *Service) purgeBlob(ctx domain.Context, url *string) {
	if url == nil || *url == "" {
		return
	}
	if err := s.Blob.Delete(ctx.(context.Context), *url); err != nil {
		s.logger.Warn("Falha ao expurgar blob antigo de imagem de perfil.", map[string]interface{}{
			"url":   *url,
			"error": err.Error(),
		})
	}
}
