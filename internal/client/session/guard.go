package session

import "context"

// State é o estado do guard de rotas protegidas.
type State int

const (
	// Unknown é o estado inicial: presença/validade do token ainda não checada.
	Unknown State = iota
	// Authenticated indica que a verificação do token junto ao servidor passou.
	Authenticated
	// Unauthenticated indica token ausente ou verificação falhada.
	Unauthenticated
)

// String implementa fmt.Stringer para logs e testes.
func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

// Verifier é o contrato mínimo que o guard exige do serviço de autenticação.
type Verifier interface {
	Verify(ctx context.Context, token string) error
}

// Guard protege o acesso a visões autenticadas. Máquina de três estados:
// Unknown → Authenticated | Unauthenticated, com exatamente uma transição
// por navegação em área protegida. Na falha, o guard também descarta o token
// e o snapshot em cache, e preserva o destino originalmente pedido para que
// o login possa devolver o usuário até lá.
type Guard struct {
	store       *Store
	verifier    Verifier
	state       State
	destination string
}

// NewGuard cria um Guard no estado Unknown.
func NewGuard(store *Store, verifier Verifier) *Guard {
	return &Guard{
		store:    store,
		verifier: verifier,
		state:    Unknown,
	}
}

// Resolve executa a única transição para fora de Unknown, verificando o token
// em cache junto ao serviço de autenticação. destination é a rota protegida
// originalmente pedida. Chamadas subsequentes retornam o estado já resolvido.
func (g *Guard) Resolve(ctx context.Context, destination string) State {
	if g.state != Unknown {
		return g.state
	}

	token := g.store.Token()
	if token == "" {
		g.destination = destination
		g.state = Unauthenticated
		return g.state
	}

	if err := g.verifier.Verify(ctx, token); err != nil {
		// Token rejeitado: invalida o cache local inteiro.
		g.store.Clear()
		g.destination = destination
		g.state = Unauthenticated
		return g.state
	}

	g.state = Authenticated
	return g.state
}

// State retorna o estado corrente sem disparar transição.
func (g *Guard) State() State {
	return g.state
}

// Destination retorna a rota protegida pedida antes do redirecionamento ao
// login ("" quando a navegação nunca foi barrada).
func (g *Guard) Destination() string {
	return g.destination
}
