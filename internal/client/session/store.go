// Package session gerencia o estado de sessão do cliente: o token de sessão,
// o snapshot local do perfil (cache não-autoritativo do registro do usuário)
// e o guard de rotas protegidas.
//
// O estado é um contêiner tipado e explícito, com ações de atualização e
// assinaturas declaradas. Não há variáveis globais nem notificações em
// broadcast: cada consumidor se inscreve no Store e declara sua dependência.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"hireme/internal/domain"
)

// Snapshot é a visão imutável do estado de sessão entregue aos assinantes.
type Snapshot struct {
	Token   string       `json:"token"`
	Profile *domain.User `json:"profile"`
}

// Subscriber é a função chamada a cada mudança de estado.
type Subscriber func(Snapshot)

// Store é o contêiner tipado do estado de sessão do cliente.
// Persiste token + snapshot em armazenamento local durável (arquivo JSON),
// invalidando ambos em falha de verificação ou logout explícito.
type Store struct {
	mu          sync.RWMutex
	path        string
	state       Snapshot
	subscribers []Subscriber
}

// NewStore cria um Store persistido no caminho informado e carrega o estado
// salvo de uma sessão anterior, se existir. Arquivo ausente ou corrompido
// resulta em estado vazio (nunca em erro: a sessão apenas recomeça).
func NewStore(path string) *Store {
	s := &Store{path: path}
	s.load()
	return s
}

// load tenta recuperar o estado salvo da sessão anterior.
func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var state Snapshot
	if json.Unmarshal(data, &state) != nil {
		return
	}
	s.state = state
}

// persist grava o estado atual no arquivo. Deve ser chamada com o lock tomado.
func (s *Store) persist() {
	data, err := json.Marshal(s.state)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return
	}
	// Melhor esforço: falha de escrita não derruba a sessão em memória.
	_ = os.WriteFile(s.path, data, 0o600)
}

// notify entrega o snapshot atual a todos os assinantes.
// Deve ser chamada com o lock tomado.
func (s *Store) notify() {
	snap := s.state
	for _, sub := range s.subscribers {
		sub(snap)
	}
}

// Subscribe registra um assinante para mudanças de estado e o chama
// imediatamente com o estado atual.
func (s *Store) Subscribe(sub Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, sub)
	sub(s.state)
}

// SetSession registra uma nova sessão (login/registro bem-sucedido).
func (s *Store) SetSession(token string, profile *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Snapshot{Token: token, Profile: profile}
	s.persist()
	s.notify()
}

// UpdateProfile substitui o snapshot do perfil (após o servidor confirmar uma
// mutação). O token permanece intocado.
func (s *Store) UpdateProfile(profile *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Profile = profile
	s.persist()
	s.notify()
}

// Clear descarta token e snapshot (logout ou falha de verificação) e remove
// a cópia durável.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Snapshot{}
	_ = os.Remove(s.path)
	s.notify()
}

// Token retorna o token de sessão corrente ("" quando não autenticado).
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// Profile retorna o snapshot corrente do perfil (nil quando ausente).
func (s *Store) Profile() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Profile
}
