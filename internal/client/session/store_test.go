package session_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"hireme/internal/client/session"
	"hireme/internal/domain"
)

func tempSessionPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.json")
}

// TestStore_PersistsAcrossInstances testa que uma sessão sobrevive ao reinício
// do cliente.
func TestStore_PersistsAcrossInstances(t *testing.T) {
	path := tempSessionPath(t)

	first := session.NewStore(path)
	first.SetSession("token-abc", &domain.User{ID: "user-1", FirstName: "Jane"})

	// Um novo Store no mesmo caminho recupera o estado salvo
	second := session.NewStore(path)
	assert.Equal(t, "token-abc", second.Token())
	assert.NotNil(t, second.Profile())
	assert.Equal(t, "Jane", second.Profile().FirstName)
}

// TestStore_ClearRemovesDurableCopy testa o descarte completo no logout.
func TestStore_ClearRemovesDurableCopy(t *testing.T) {
	path := tempSessionPath(t)

	store := session.NewStore(path)
	store.SetSession("token-abc", &domain.User{ID: "user-1"})
	store.Clear()

	assert.Empty(t, store.Token())
	assert.Nil(t, store.Profile())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Reinício após logout parte de sessão vazia
	again := session.NewStore(path)
	assert.Empty(t, again.Token())
}

// TestStore_CorruptFileStartsEmpty testa que um arquivo corrompido reinicia a
// sessão em vez de falhar.
func TestStore_CorruptFileStartsEmpty(t *testing.T) {
	path := tempSessionPath(t)
	assert.NoError(t, os.WriteFile(path, []byte("{nao é json"), 0o600))

	store := session.NewStore(path)
	assert.Empty(t, store.Token())
	assert.Nil(t, store.Profile())
}

// TestStore_SubscribersAreNotified testa a entrega de snapshots aos assinantes,
// incluindo a chamada imediata na inscrição.
func TestStore_SubscribersAreNotified(t *testing.T) {
	store := session.NewStore(tempSessionPath(t))

	var snapshots []session.Snapshot
	store.Subscribe(func(s session.Snapshot) {
		snapshots = append(snapshots, s)
	})

	// Chamada imediata com o estado vazio atual
	assert.Len(t, snapshots, 1)
	assert.Empty(t, snapshots[0].Token)

	store.SetSession("token-abc", &domain.User{ID: "user-1"})
	store.UpdateProfile(&domain.User{ID: "user-1", City: "Mumbai"})
	store.Clear()

	assert.Len(t, snapshots, 4)
	assert.Equal(t, "token-abc", snapshots[1].Token)
	assert.Equal(t, "Mumbai", snapshots[2].Profile.City)
	assert.Empty(t, snapshots[3].Token)
}

// TestStore_UpdateProfileKeepsToken testa que a atualização de perfil não toca
// o token.
func TestStore_UpdateProfileKeepsToken(t *testing.T) {
	store := session.NewStore(tempSessionPath(t))
	store.SetSession("token-abc", &domain.User{ID: "user-1"})

	store.UpdateProfile(&domain.User{ID: "user-1", City: "Delhi"})

	assert.Equal(t, "token-abc", store.Token())
	assert.Equal(t, "Delhi", store.Profile().City)
}

// fakeVerifier registra chamadas e responde com um erro fixo.
type fakeVerifier struct {
	err   error
	calls int
}

func (f *fakeVerifier) Verify(ctx context.Context, token string) error {
	f.calls++
	return f.err
}

// TestGuard_NoToken testa a transição direta para Unauthenticated sem consultar
// o servidor.
func TestGuard_NoToken(t *testing.T) {
	store := session.NewStore(tempSessionPath(t))
	verifier := &fakeVerifier{}
	guard := session.NewGuard(store, verifier)

	assert.Equal(t, session.Unknown, guard.State())

	state := guard.Resolve(context.Background(), "/profile")

	assert.Equal(t, session.Unauthenticated, state)
	assert.Equal(t, "/profile", guard.Destination())
	assert.Zero(t, verifier.calls)
}

// TestGuard_ValidToken testa a transição para Authenticated.
func TestGuard_ValidToken(t *testing.T) {
	store := session.NewStore(tempSessionPath(t))
	store.SetSession("token-abc", &domain.User{ID: "user-1"})
	verifier := &fakeVerifier{}
	guard := session.NewGuard(store, verifier)

	state := guard.Resolve(context.Background(), "/profile")

	assert.Equal(t, session.Authenticated, state)
	assert.Equal(t, 1, verifier.calls)
	// Navegação nunca foi barrada: sem destino pendente
	assert.Empty(t, guard.Destination())
	// O cache local permanece intacto
	assert.Equal(t, "token-abc", store.Token())
}

// TestGuard_RejectedTokenClearsCache testa que a falha de verificação descarta
// token e snapshot e preserva o destino pedido.
func TestGuard_RejectedTokenClearsCache(t *testing.T) {
	path := tempSessionPath(t)
	store := session.NewStore(path)
	store.SetSession("token-expirado", &domain.User{ID: "user-1"})
	verifier := &fakeVerifier{err: errors.New("token inválido")}
	guard := session.NewGuard(store, verifier)

	state := guard.Resolve(context.Background(), "/profile/edit")

	assert.Equal(t, session.Unauthenticated, state)
	assert.Equal(t, "/profile/edit", guard.Destination())
	assert.Empty(t, store.Token())
	assert.Nil(t, store.Profile())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

// TestGuard_SingleTransition testa que o estado resolvido é terminal: chamadas
// subsequentes não reverificam.
func TestGuard_SingleTransition(t *testing.T) {
	store := session.NewStore(tempSessionPath(t))
	store.SetSession("token-abc", &domain.User{ID: "user-1"})
	verifier := &fakeVerifier{}
	guard := session.NewGuard(store, verifier)

	first := guard.Resolve(context.Background(), "/profile")
	second := guard.Resolve(context.Background(), "/outra-rota")

	assert.Equal(t, session.Authenticated, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, verifier.calls)
}

// TestGuard_StateString cobre a representação textual dos estados.
func TestGuard_StateString(t *testing.T) {
	assert.Equal(t, "unknown", session.Unknown.String())
	assert.Equal(t, "authenticated", session.Authenticated.String())
	assert.Equal(t, "unauthenticated", session.Unauthenticated.String())
}
