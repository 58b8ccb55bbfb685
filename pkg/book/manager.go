package book

import "sync"

// ManagerConfig seeds per-symbol books. Defaults apply to symbols without an
// explicit entry; books are created lazily on first use.
type ManagerConfig struct {
	Defaults Config   `yaml:"defaults"`
	Books    []Config `yaml:"books"`
}

// Manager routes operations to per-symbol books, creating them on demand.
type Manager struct {
	mu    sync.Mutex
	books map[string]*Book
	cfg   ManagerConfig
}

func NewManager(cfg ManagerConfig) *Manager {
	return &Manager{
		books: make(map[string]*Book),
		cfg:   cfg,
	}
}

// Book returns the book for symbol, creating it with the configured or
// default settings on first use.
func (m *Manager) Book(symbol string) *Book {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b, ok := m.books[symbol]; ok {
		return b
	}

	cfg := m.cfg.Defaults
	cfg.Symbol = symbol
	for _, c := range m.cfg.Books {
		if c.Symbol == symbol {
			cfg = c
			break
		}
	}

	b := NewBook(cfg)
	m.books[symbol] = b
	return b
}

func (m *Manager) AddOrder(symbol string, order *Order) []Trade {
	return m.Book(symbol).AddOrder(order)
}

func (m *Manager) CancelOrder(symbol string, id OrderID) {
	m.Book(symbol).CancelOrder(id)
}

func (m *Manager) ModifyOrder(symbol string, mod Modify) []Trade {
	return m.Book(symbol).ModifyOrder(mod)
}

// Close stops every book's background task.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.books {
		b.Close()
	}
}
