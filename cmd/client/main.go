// Cliente de linha de comando do HireMe: autentica, resolve o guard de sessão
// e exibe o perfil com a pontuação de completude.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"hireme/internal/client/api"
	"hireme/internal/client/session"
	"hireme/internal/client/validation"
	"hireme/internal/domain"
)

func main() {
	var (
		baseURL  string
		email    string
		password string
		register bool
		logout   bool
	)

	flag.StringVar(&baseURL, "base-url", envOr("HIREME_API_URL", "http://localhost:8080"), "URL base da API")
	flag.StringVar(&email, "email", "", "email para login/registro")
	flag.StringVar(&password, "password", "", "senha para login/registro")
	flag.BoolVar(&register, "register", false, "registra um novo usuário em vez de logar")
	flag.BoolVar(&logout, "logout", false, "descarta a sessão local")
	flag.Parse()

	client := api.NewClient(baseURL)
	store := session.NewStore(sessionPath())

	if logout {
		store.Clear()
		fmt.Println("Sessão local descartada.")
		return
	}

	ctx := context.Background()

	// Guard de rotas: uma transição Unknown → Authenticated | Unauthenticated.
	guard := session.NewGuard(store, client)
	state := guard.Resolve(ctx, "/profile")

	if state != session.Authenticated {
		if email == "" || password == "" {
			log.Fatalf("sessão inválida ou ausente: informe -email e -password (destino pendente: %s)", guard.Destination())
		}

		if register {
			fmt.Print("Primeiro nome: ")
			var first, last string
			fmt.Scanln(&first)
			fmt.Print("Sobrenome: ")
			fmt.Scanln(&last)

			result, err := client.Register(ctx, domain.UserRegistration{
				FirstName: first,
				LastName:  last,
				Email:     email,
				Password:  password,
			})
			if err != nil {
				log.Fatalf("falha no registro: %v", err)
			}
			store.SetSession(result.Token, &result.User)
		} else {
			result, err := client.Login(ctx, email, password)
			if err != nil {
				log.Fatalf("falha no login: %v", err)
			}
			store.SetSession(result.Token, &result.User)
		}
	}

	// Busca o perfil autoritativo e atualiza o snapshot local.
	user, err := client.GetProfile(ctx, store.Token())
	if err != nil {
		store.Clear()
		log.Fatalf("falha ao buscar o perfil: %v", err)
	}
	store.UpdateProfile(&user)

	fmt.Printf("Perfil de %s %s <%s>\n", user.FirstName, user.LastName, user.Email)
	fmt.Printf("  Papel:    %s\n", user.Role)
	fmt.Printf("  Local:    %s, %s\n", user.City, user.Country)
	if user.ProfileImage != nil {
		fmt.Printf("  Imagem:   %s\n", *user.ProfileImage)
	}
	fmt.Printf("  Completude do perfil: %d%%\n", validation.ComputeCompletion(user))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func sessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hireme-session.json"
	}
	return filepath.Join(home, ".hireme", "session.json")
}
