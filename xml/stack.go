package xml

// stack holds the names of the open elements, the innermost element on top.
type stack struct {
	items []string
}

func (s *stack) Push(name string) {
	s.items = append(s.items, name)
}

func (s *stack) Pop() (string, bool) {
	if len(s.items) == 0 {
		return "", false
	}
	i := len(s.items) - 1
	name := s.items[i]
	s.items = s.items[:i]
	return name, true
}

func (s *stack) Peek() (string, bool) {
	if len(s.items) == 0 {
		return "", false
	}
	return s.items[len(s.items)-1], true
}

func (s *stack) IsEmpty() bool {
	return len(s.items) == 0
}

func (s *stack) Size() int {
	return len(s.items)
}
