package authservice

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"hireme/internal/domain"
	apperror "hireme/internal/errors"
	"hireme/internal/pkg/logger"
	"hireme/internal/pkg/token"
)

// Mensagem única para qualquer falha de credencial. Email desconhecido e senha
// incorreta são indistinguíveis para evitar enumeração de contas.
const invalidCredentialsMsg = "Credenciais inválidas."

// TokenService é o contrato da camada de token (internal/pkg/token).
type TokenService interface {
	GenerateToken(userID string) (string, error)
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// Service implementa a interface domain.AuthService.
type Service struct {
	UserRepo domain.UserRepository
	TokenSvc TokenService
	logger   logger.Logger
}

// NewService cria uma nova instância do serviço de autenticação.
func NewService(repo domain.UserRepository, tokenSvc TokenService, log logger.Logger) *Service {
	return &Service{
		UserRepo: repo,
		TokenSvc: tokenSvc,
		logger:   log,
	}
}

// Register registra um novo usuário no sistema.
// Faz o hashing da senha, aplica os defaults de perfil e emite o token de sessão.
func (s *Service) Register(ctx domain.Context, registration domain.UserRegistration) (domain.AuthResult, error) {
	// 1. Validação de campos obrigatórios
	if strings.TrimSpace(registration.Email) == "" ||
		registration.Password == "" ||
		strings.TrimSpace(registration.FirstName) == "" ||
		strings.TrimSpace(registration.LastName) == "" {
		return domain.AuthResult{}, apperror.NewValidationError("firstName, lastName, email e password são obrigatórios.")
	}

	// 2. Papel: default "Job Seeker"; enumeração fechada na borda
	role := domain.RoleJobSeeker
	if registration.Role != "" {
		role = domain.UserRole(registration.Role)
		if !role.IsValid() {
			return domain.AuthResult{}, apperror.NewValidationError("Role deve ser 'Job Seeker' ou 'Recruiter'.")
		}
	}

	// 3. Verificação de email duplicado antes de persistir.
	// A constraint UNIQUE do banco continua como backstop contra corridas.
	_, err := s.UserRepo.FindByEmail(ctx, registration.Email)
	if err == nil {
		return domain.AuthResult{}, apperror.NewDuplicateEmailError(registration.Email)
	}
	var notFound *apperror.NotFoundError
	if !errors.As(err, &notFound) {
		return domain.AuthResult{}, err
	}

	// 4. Hashing da Senha (função lenta e com salt; nunca persiste texto puro)
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.AuthResult{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	// 5. Criação do Objeto User com os defaults de perfil
	newUser := domain.User{
		FirstName:    strings.TrimSpace(registration.FirstName),
		LastName:     strings.TrimSpace(registration.LastName),
		Email:        strings.TrimSpace(registration.Email),
		PasswordHash: string(hashedPassword),
		Phone:        "",
		Role:         role,
		Country:      domain.DefaultCountry,
		City:         "",
		ProfileImage: nil,
	}

	// 6. Persistência
	user, err := s.UserRepo.Save(ctx, newUser)
	if err != nil {
		return domain.AuthResult{}, err
	}

	// 7. Emissão do token de sessão vinculado ao novo ID
	tokenString, err := s.TokenSvc.GenerateToken(user.ID)
	if err != nil {
		return domain.AuthResult{}, apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	s.logger.Info("Novo usuário registrado.", map[string]interface{}{"user_id": user.ID})

	user.PasswordHash = ""
	return domain.AuthResult{Token: tokenString, User: user}, nil
}

// Login autentica um usuário, verifica a senha e gera um JWT.
func (s *Service) Login(ctx domain.Context, email string, password string) (domain.AuthResult, error) {
	// 1. Validação básica: respostas idênticas para qualquer falha de credencial
	if email == "" || password == "" {
		return domain.AuthResult{}, apperror.NewInvalidCredentialsError(invalidCredentialsMsg)
	}

	// 2. Buscar Usuário pelo Email
	user, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			return domain.AuthResult{}, apperror.NewInvalidCredentialsError(invalidCredentialsMsg)
		}
		// Falha de infraestrutura (DB): propaga o erro interno
		return domain.AuthResult{}, err
	}

	// 3. Comparar a senha informada (texto puro) com o hash salvo no DB
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.AuthResult{}, apperror.NewInvalidCredentialsError(invalidCredentialsMsg)
	}

	// 4. Gerar JWT
	tokenString, err := s.TokenSvc.GenerateToken(user.ID)
	if err != nil {
		return domain.AuthResult{}, apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	user.PasswordHash = ""
	return domain.AuthResult{Token: tokenString, User: user}, nil
}

// VerifyToken valida o token e retorna o identificador do sujeito embutido.
// Puramente uma checagem: sem efeitos colaterais.
func (s *Service) VerifyToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", apperror.NewUnauthorizedError("Token de autorização ausente.")
	}

	claims, err := s.TokenSvc.ValidateToken(tokenString)
	if err != nil {
		return "", apperror.NewUnauthorizedError("Token inválido ou expirado.")
	}

	return claims.UserID, nil
}

// ResolveIdentity valida o token e retorna o registro completo do usuário
// (sem a credencial de senha) para chamadores que precisam do perfil.
func (s *Service) ResolveIdentity(ctx domain.Context, tokenString string) (domain.User, error) {
	userID, err := s.VerifyToken(tokenString)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	user.PasswordHash = ""
	return user, nil
}
