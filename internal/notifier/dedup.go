package notifier

// dedupSet ограниченное FIFO-множество идентификаторов записей
// При переполнении вытесняется самый старый идентификатор
type dedupSet struct {
	limit int
	order []int64
	seen  map[int64]struct{}
}

func newDedupSet(limit int) *dedupSet {
	return &dedupSet{
		limit: limit,
		order: make([]int64, 0, limit),
		seen:  make(map[int64]struct{}, limit),
	}
}

// Add добавляет идентификатор в множество
// Возвращает true, если идентификатор новый (уведомление ещё не отправлялось)
func (s *dedupSet) Add(id int64) bool {
	if _, ok := s.seen[id]; ok {
		return false
	}
	if len(s.order) >= s.limit {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.seen, oldest)
	}
	s.order = append(s.order, id)
	s.seen[id] = struct{}{}
	return true
}

// Contains проверяет наличие идентификатора в множестве
func (s *dedupSet) Contains(id int64) bool {
	_, ok := s.seen[id]
	return ok
}

// Len возвращает текущий размер множества
func (s *dedupSet) Len() int {
	return len(s.order)
}
