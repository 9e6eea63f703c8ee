package service

import (
	"context"
	"sync"
	"time"

	"doctor_signage/internal/models"
)

// Board holds the current DisplayView. The poll loop is the only writer of
// state; readers get copies.
type Board struct {
	mu    sync.RWMutex
	state models.DisplayState
	view  models.DisplayView
	now   func() time.Time

	subs   map[int]chan models.DisplayView
	nextID int
}

func NewBoard() *Board {
	b := &Board{
		state: models.Pairing{},
		now:   time.Now,
		subs:  make(map[int]chan models.DisplayView),
	}
	b.view = models.DisplayView{
		Phase:     models.PhaseUninitialized,
		State:     models.Envelope(b.state),
		UpdatedAt: b.now().UTC(),
	}
	return b
}

// View returns a snapshot of the board.
func (b *Board) View() models.DisplayView {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.view
}

// GetDisplay satisfies the Display interface.
func (b *Board) GetDisplay(_ context.Context) (models.DisplayView, error) {
	return b.View(), nil
}

func (b *Board) State() models.DisplayState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Subscribe returns a channel that receives the latest view after every
// change. Slow readers only ever see the most recent view.
func (b *Board) Subscribe() (<-chan models.DisplayView, func()) {
	ch := make(chan models.DisplayView, 1)
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

func (b *Board) SetPhase(p models.Phase) {
	b.update(func(v *models.DisplayView) bool {
		if v.Phase == p {
			return false
		}
		v.Phase = p
		return true
	})
}

func (b *Board) SetDevice(id string) {
	b.update(func(v *models.DisplayView) bool {
		if v.DeviceID == id {
			return false
		}
		v.DeviceID = id
		v.Digits = models.DeviceIdentity{ID: id}.Digits()
		return true
	})
}

func (b *Board) SetHospital(h models.HospitalDetails) {
	b.update(func(v *models.DisplayView) bool {
		if v.Hospital == h {
			return false
		}
		v.Hospital = h
		return true
	})
}

func (b *Board) SetOnline(online bool) {
	b.update(func(v *models.DisplayView) bool {
		if v.Online != nil && *v.Online == online {
			return false
		}
		v.Online = &online
		return true
	})
}

// SetState records the reducer output and the outcome label that produced it.
func (b *Board) SetState(s models.DisplayState, outcome string) {
	b.mu.Lock()
	if s == b.state && outcome == b.view.LastOutcome {
		b.mu.Unlock()
		return
	}
	b.state = s
	b.view.State = models.Envelope(s)
	b.view.LastOutcome = outcome
	b.commitLocked()
}

func (b *Board) update(apply func(v *models.DisplayView) bool) {
	b.mu.Lock()
	if !apply(&b.view) {
		b.mu.Unlock()
		return
	}
	b.commitLocked()
}

// commitLocked bumps the version, fans out, and releases the lock.
func (b *Board) commitLocked() {
	b.view.Version++
	b.view.UpdatedAt = b.now().UTC()
	view := b.view
	for _, ch := range b.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- view:
		default:
		}
	}
	b.mu.Unlock()
}
