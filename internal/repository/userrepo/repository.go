package userrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"hireme/internal/domain"
	apperror "hireme/internal/errors"
	"hireme/internal/pkg/cache"
	"hireme/internal/pkg/logger"
)

// Chave de cache para a visão do usuário por ID (perfil).
const userCacheKey = "user:%s"

// Código do PostgreSQL para violação de unicidade (email duplicado).
const pqUniqueViolation = "23505"

// UserRepository implementa a interface domain.UserRepository.
// Contém as conexões necessárias para acessar dados (PostgreSQL + Redis).
type UserRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	UserSQLs  struct {
		Insert string
		Update string
	}
	logger logger.Logger
}

// NewUserRepository cria uma nova instância do UserRepository, injetando DB e Cache.
func NewUserRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *UserRepository {
	insertSQL := `INSERT INTO users (id, first_name, last_name, email, password_hash, phone, role, country, city, profile_image, created_at, updated_at)
                  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	// Atualização parcial já resolvida na camada de serviço; aqui gravamos
	// todos os campos mutáveis. O password_hash nunca é tocado pelo Update.
	updateSQL := `UPDATE users
                  SET first_name = $2, last_name = $3, email = $4, phone = $5, role = $6, country = $7, city = $8, profile_image = $9, updated_at = $10
                  WHERE id = $1`

	return &UserRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		UserSQLs: struct {
			Insert string
			Update string
		}{
			Insert: insertSQL,
			Update: updateSQL,
		},
		logger: logger,
	}
}

const userColumns = `id, first_name, last_name, email, password_hash, phone, role, country, city, profile_image, created_at, updated_at`

// scanUser mapeia uma linha do resultado para a struct User.
func scanUser(row *sql.Row) (domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&user.Role,
		&user.Country,
		&user.City,
		&user.ProfileImage,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

// isUniqueViolation verifica se o erro do driver é violação de chave única.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// Save insere um novo usuário no banco de dados.
func (r *UserRepository) Save(ctx domain.Context, user domain.User) (domain.User, error) {
	r.logger.Debug("Iniciando Save de usuário no repositório.", map[string]interface{}{"email": user.Email})

	// 1. Configura Contexto com Timeout
	ctxTimeout, cancel := context.WithTimeout(ctx.(context.Context), r.DBTimeout)
	defer cancel()

	// 2. Prepara dados e ID
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt

	// 3. Executa o INSERT
	_, err := r.DB.ExecContext(
		ctxTimeout,
		r.UserSQLs.Insert,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.Phone,
		user.Role,
		user.Country,
		user.City,
		user.ProfileImage,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Info("Tentativa de registro com email duplicado.", map[string]interface{}{"email": user.Email})
			return domain.User{}, apperror.NewDuplicateEmailError(user.Email)
		}
		r.logger.Error("Falha ao inserir usuário no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to insert user", err)
	}

	r.logger.Info("Usuário salvo com sucesso no repositório.", map[string]interface{}{"user_id": user.ID, "email": user.Email})
	return user, nil
}

// FindByEmail busca um usuário pelo endereço de e-mail.
// Não passa pelo cache: o resultado inclui o password_hash (fluxo de login).
func (r *UserRepository) FindByEmail(ctx domain.Context, email string) (domain.User, error) {
	r.logger.Debug("Iniciando FindByEmail de usuário no repositório.", map[string]interface{}{"email_attempt": email})

	ctxTimeout, cancel := context.WithTimeout(ctx.(context.Context), r.DBTimeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	row := r.DB.QueryRowContext(ctxTimeout, query, email)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com email '%s' não encontrado", email))
		}
		r.logger.Error("Falha ao buscar usuário por email no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to find user by email", err)
	}

	return user, nil
}

// FindByID busca um usuário pelo ID, utilizando a estratégia Cache-Aside.
// A cópia em cache é a visão de perfil (sem password_hash, que tem tag json:"-").
func (r *UserRepository) FindByID(ctx domain.Context, id string) (domain.User, error) {
	ctxGo, cancel := context.WithTimeout(ctx.(context.Context), r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(userCacheKey, id)
	var user domain.User

	// --- Cache-Aside (READ) ---
	cachedData, err := r.Cache.Get(ctxGo, key)
	if err == nil {
		if json.Unmarshal([]byte(cachedData), &user) == nil {
			r.logger.Debug("Cache HIT para usuário.", map[string]interface{}{"user_id": id})
			return user, nil
		}
		// Cópia corrompida: remove e segue para o DB
		_ = r.Cache.Delete(ctxGo, key)
	} else if err != cache.ErrCacheMiss {
		// Falha de infraestrutura do cache não derruba a leitura; apenas loga.
		r.logger.Warn("Falha ao consultar o cache de usuário.", map[string]interface{}{"user_id": id, "error": err.Error()})
	}

	// --- Fallback: busca no DB ---
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	row := r.DB.QueryRowContext(ctxGo, query, id)

	user, err = scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID '%s' não encontrado", id))
		}
		r.logger.Error("Falha ao buscar usuário por ID no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to find user by id", err)
	}

	// --- Cache-Aside (WRITE) ---
	if jsonBytes, jsonErr := json.Marshal(user); jsonErr == nil {
		if cacheErr := r.Cache.Set(ctxGo, key, string(jsonBytes), r.CacheTTL); cacheErr != nil {
			r.logger.Warn("Falha ao popular o cache de usuário.", map[string]interface{}{"user_id": id, "error": cacheErr.Error()})
		}
	}

	return user, nil
}

// Update grava os campos mutáveis do perfil e invalida o cache do usuário.
// Last-write-wins: não há token de concorrência otimista no registro.
func (r *UserRepository) Update(ctx domain.Context, user domain.User) (domain.User, error) {
	r.logger.Debug("Iniciando Update de usuário no repositório.", map[string]interface{}{"user_id": user.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx.(context.Context), r.DBTimeout)
	defer cancel()

	user.UpdatedAt = time.Now().UTC()

	result, err := r.DB.ExecContext(
		ctxTimeout,
		r.UserSQLs.Update,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Phone,
		user.Role,
		user.Country,
		user.City,
		user.ProfileImage,
		user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, apperror.NewDuplicateEmailError(user.Email)
		}
		r.logger.Error("Falha ao atualizar usuário no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to update user", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.User{}, apperror.NewDBError("failed to read rows affected", err)
	}
	if rows == 0 {
		// O registro sumiu entre o resolve e o update (corrida com deleção).
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID '%s' não encontrado", user.ID))
	}

	// Invalida a cópia em cache; a próxima leitura repopula.
	key := fmt.Sprintf(userCacheKey, user.ID)
	if cacheErr := r.Cache.Delete(ctxTimeout, key); cacheErr != nil {
		r.logger.Warn("Falha ao invalidar o cache de usuário.", map[string]interface{}{"user_id": user.ID, "error": cacheErr.Error()})
	}

	r.logger.Info("Usuário atualizado com sucesso no repositório.", map[string]interface{}{"user_id": user.ID})
	return user, nil
}
