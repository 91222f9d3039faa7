package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Pacotes de infraestrutura e utilitários
	"hireme/config"
	"hireme/internal/pkg/blob"
	"hireme/internal/pkg/cache"
	"hireme/internal/pkg/database"
	"hireme/internal/pkg/logger"
	"hireme/internal/pkg/token"

	// Camadas para Injeção de Dependências
	"hireme/internal/api/auth"
	"hireme/internal/api/profile"
	"hireme/internal/api/router"
	"hireme/internal/repository/userrepo"
	"hireme/internal/service/authservice"
	"hireme/internal/service/profileservice"
)

func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço HireMe...")

	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	// O godotenv.Load() procura por um arquivo chamado .env na raiz.
	if err := godotenv.Load(); err != nil {
		// Se o arquivo .env não for encontrado, avisamos mas continuamos,
		// pois as variáveis essenciais podem estar no ambiente (ex: Docker).
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", nil)

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL): armazenamento de credenciais
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis)
	cacheClient, err := cache.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		log.Fatal("Falha ao conectar ao Redis.", err)
	}
	log.Info("Conexão Redis estabelecida.", nil)

	// C. Blob Store (S3/MinIO): imagens de perfil
	blobStore, err := blob.NewS3Store(context.Background(), blob.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
	})
	if err != nil {
		log.Fatal("Falha ao inicializar o Blob Store.", err)
	}
	log.Info("Blob Store S3 inicializado.", nil)

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Token -> Repository -> Service -> Handler

	// A. Serviço de Tokens (JWT)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	log.Debug("Serviço de Tokens JWT inicializado.", nil)

	// B. Repositório de Usuário (Credential Store + cache-aside)
	userRepo := userrepo.NewUserRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTimeout, log)
	log.Debug("Repositório de Usuário inicializado.", nil)

	// C. Serviços (Lógica de Negócio)
	authSvc := authservice.NewService(userRepo, tokenSvc, log)
	log.Debug("Serviço de Autenticação inicializado.", nil)

	profileSvc := profileservice.NewService(userRepo, blobStore, cfg.MaxImageBytes, log)
	log.Debug("Serviço de Perfil inicializado.", nil)

	// D. Handlers (Camada de Apresentação)
	authHandler := auth.NewHandler(authSvc, log)
	profileHandler := profile.NewHandler(profileSvc, cfg.MaxImageBytes, log)
	log.Debug("Handlers inicializados.", nil)

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(authHandler, profileHandler, tokenSvc, cfg.CORSOrigin, cfg.Port)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor HireMe ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	// Lógica do Graceful Shutdown (captura de sinal)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
