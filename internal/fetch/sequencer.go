package fetch

import "sync"

// Sequencer защищает представление от устаревших ответов: токены выдаются монотонно,
// а применить можно только ответ, новее уже примененного.
// Нулевое значение готово к использованию.
type Sequencer struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
}

// Next выдает токен для нового запроса
func (s *Sequencer) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Commit фиксирует ответ с токеном token. false — ответ устарел и должен быть отброшен.
func (s *Sequencer) Commit(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token <= s.applied || token > s.issued {
		return false
	}
	s.applied = token
	return true
}

// Latest возвращает последний выданный токен
func (s *Sequencer) Latest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issued
}
