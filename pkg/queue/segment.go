package queue

// segment is a fixed-capacity run of task slots. Tasks are written at write
// and consumed at read; 0 <= read <= write <= len(slots).
type segment struct {
	slots []Task
	read  int
	write int
	next  *segment
}

func newSegment(capacity int) *segment {
	return &segment{slots: make([]Task, capacity)}
}

func (s *segment) writable() bool {
	return s.write < len(s.slots)
}

func (s *segment) readable() bool {
	return s.read < s.write
}

// drained reports whether every slot has been written and consumed
func (s *segment) drained() bool {
	return s.read == len(s.slots) && s.write == len(s.slots)
}

func (s *segment) push(t Task) {
	s.slots[s.write] = t
	s.write++
}

func (s *segment) pop() Task {
	t := s.slots[s.read]
	s.slots[s.read] = Task{}
	s.read++
	return t
}

// pending returns the unread tasks and clears their slots
func (s *segment) pending() []Task {
	if !s.readable() {
		return nil
	}
	out := make([]Task, s.write-s.read)
	copy(out, s.slots[s.read:s.write])
	clear(s.slots[s.read:s.write])
	s.read = s.write
	return out
}

// reset prepares a drained segment for reuse
func (s *segment) reset() {
	clear(s.slots)
	s.read = 0
	s.write = 0
	s.next = nil
}
