package cart

import "sync"

// Store - registro de carrinhos em memória, um por usuário logado.
// Substitui persistência: carrinho não sobrevive ao restart do servidor,
// só o pedido gerado no checkout é durável.
type Store struct {
	mu    sync.Mutex
	carts map[uint]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[uint]*Cart)}
}

// Get - carrinho do usuário, criado sob demanda. Cada usuário é o único
// escritor do próprio carrinho.
func (s *Store) Get(userID uint) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		c = New()
		s.carts[userID] = c
	}
	return c
}

// Replace - troca o carrinho do usuário (restauração após checkout que
// falhou na gravação).
func (s *Store) Replace(userID uint, c *Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[userID] = c
}

// Reset - descarta o carrinho do usuário (após checkout bem-sucedido).
func (s *Store) Reset(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}
