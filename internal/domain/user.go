package domain

import "time"

// User representa a entidade do usuário (candidato ou recrutador) no sistema.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Oculta o hash da senha no JSON de resposta
	Phone        string    `json:"phone"`
	Role         UserRole  `json:"role"`
	Country      string    `json:"country"`
	City         string    `json:"city"`
	ProfileImage *string   `json:"profileImage"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserRole é um tipo string para representar o papel do usuário no sistema.
type UserRole string

// A enumeração é fechada: qualquer outro valor é rejeitado na borda.
const (
	RoleJobSeeker UserRole = "Job Seeker"
	RoleRecruiter UserRole = "Recruiter"
)

// IsValid verifica se o papel pertence à enumeração fechada.
func (r UserRole) IsValid() bool {
	return r == RoleJobSeeker || r == RoleRecruiter
}

// DefaultCountry é o valor inicial do campo country em novos registros.
const DefaultCountry = "India"

// UserRegistration representa o payload de entrada para o registro.
type UserRegistration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role,omitempty"`
}

// ProfileUpdate representa uma atualização parcial do perfil.
// Campos nil não foram enviados e devem permanecer intocados (merge, não overwrite).
type ProfileUpdate struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Role      *string `json:"role,omitempty"`
	Country   *string `json:"country,omitempty"`
	City      *string `json:"city,omitempty"`
}

// AuthResult é o retorno de Register/Login: token de sessão + visão pública do usuário.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UserRepository define o contrato de persistência para a entidade User.
type UserRepository interface {
	Save(ctx Context, user User) (User, error)
	FindByEmail(ctx Context, email string) (User, error)
	FindByID(ctx Context, id string) (User, error)
	Update(ctx Context, user User) (User, error)
}

// AuthService define o contrato de autenticação e emissão de tokens.
type AuthService interface {
	Register(ctx Context, registration UserRegistration) (AuthResult, error)
	Login(ctx Context, email string, password string) (AuthResult, error)
	VerifyToken(tokenString string) (string, error)
	ResolveIdentity(ctx Context, tokenString string) (User, error)
}

// ProfileService define o contrato de leitura/atualização do perfil autenticado.
type ProfileService interface {
	GetProfile(ctx Context, userID string) (User, error)
	UpdateProfile(ctx Context, userID string, update ProfileUpdate) (User, error)
	UploadProfileImage(ctx Context, userID string, data []byte, mimeType string) (User, error)
	DeleteProfileImage(ctx Context, userID string) (User, error)
}
