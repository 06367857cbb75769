// Package timers содержит планировщик отложенных вызовов, который
// продвигается игровым циклом на прошедшее время кадра.
package timers

import (
	"container/heap"
	"time"
)

// ID идентифицирует запланированный вызов
type ID uint64

type timer struct {
	id       ID
	deadline time.Duration
	seq      uint64
	fn       func()
	index    int
}

// Scheduler хранит пары (срок, вызов) одной игровой сессии.
// Не потокобезопасен: вызывается из игрового цикла.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	queue timerQueue
	byID  map[ID]*timer
}

// NewScheduler создаёт пустой планировщик
func NewScheduler() *Scheduler {
	return &Scheduler{byID: make(map[ID]*timer)}
}

// Now возвращает суммарное время, на которое продвинут планировщик
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Len возвращает количество ожидающих вызовов
func (s *Scheduler) Len() int {
	return len(s.queue)
}

// After планирует fn через delay игрового времени
func (s *Scheduler) After(delay time.Duration, fn func()) ID {
	if delay < 0 {
		delay = 0
	}
	s.seq++
	t := &timer{
		id:       ID(s.seq),
		deadline: s.now + delay,
		seq:      s.seq,
		fn:       fn,
	}
	heap.Push(&s.queue, t)
	s.byID[t.id] = t
	return t.id
}

// Cancel отменяет вызов. Возвращает false, если он уже выполнен или отменён.
func (s *Scheduler) Cancel(id ID) bool {
	t, ok := s.byID[id]
	if !ok {
		return false
	}
	heap.Remove(&s.queue, t.index)
	delete(s.byID, id)
	return true
}

// Advance продвигает время на dt и выполняет наступившие вызовы в порядке
// сроков; при равных сроках в порядке планирования. Вызовы, запланированные
// внутри callback'а, ждут следующего Advance, даже если их срок уже наступил.
// Возвращает количество выполненных вызовов.
func (s *Scheduler) Advance(dt time.Duration) int {
	if dt > 0 {
		s.now += dt
	}

	// Новые таймеры имеют срок не раньше now и больший seq, поэтому
	// в куче они стоят после всех старых наступивших.
	last := s.seq
	fired := 0
	for len(s.queue) > 0 && s.queue[0].deadline <= s.now && s.queue[0].seq <= last {
		t := heap.Pop(&s.queue).(*timer)
		delete(s.byID, t.id)
		t.fn()
		fired++
	}
	return fired
}

// timerQueue: min-куча по (deadline, seq)
type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].deadline != q[j].deadline {
		return q[i].deadline < q[j].deadline
	}
	return q[i].seq < q[j].seq
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
