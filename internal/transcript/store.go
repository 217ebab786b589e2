package transcript

import (
	"encoding/json"
	"log"
	"sync"
)

// KV is the minimal key-value persistence boundary for a transcript. Put has
// overwrite semantics; last write wins. Get returns an error when the key is
// absent or the backend is unreachable.
type KV interface {
	Get(key string) ([]byte, error)
	Put(key string, data []byte) error
}

// ChangeListener is notified with a copy of the transcript after every
// mutation. It runs while the store's lock is held so snapshots always arrive
// in mutation order; listeners must not call back into the store.
type ChangeListener func(messages []Message)

// Store owns the ordered transcript for one conversation identity and keeps a
// persisted mirror in sync with every mutation. Only final messages are
// serialized; pending ones exist for rendering alone.
type Store struct {
	identity string
	kv       KV
	onChange ChangeListener

	mu   sync.Mutex
	msgs []Message
}

// storageKey mirrors the browser client's localStorage slot naming.
func storageKey(identity string) string { return "chat_" + identity }

// NewStore loads any persisted transcript for identity from kv. Missing or
// undecodable data yields an empty transcript; load failures are not surfaced.
func NewStore(identity string, kv KV, onChange ChangeListener) *Store {
	s := &Store{identity: identity, kv: kv, onChange: onChange}
	if kv == nil {
		return s
	}
	raw, err := kv.Get(storageKey(identity))
	if err != nil {
		return s
	}
	var saved []Message
	if err := json.Unmarshal(raw, &saved); err != nil {
		log.Printf("transcript: discarding undecodable history for %s: %v", identity, err)
		return s
	}
	for i := range saved {
		saved[i].Kind = KindFinal
	}
	s.msgs = saved
	return s
}

// Append adds a message at the end of the transcript, flushes the persisted
// mirror and notifies the change listener.
func (s *Store) Append(m Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, m)
	s.persistLocked()
	s.notifyLocked()
}

// RemoveLast drops the final entry. It is a no-op on an empty transcript.
func (s *Store) RemoveLast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.msgs) == 0 {
		return
	}
	s.msgs = s.msgs[:len(s.msgs)-1]
	s.persistLocked()
	s.notifyLocked()
}

// ReplaceLast swaps the final entry for m as one step: consumers observe a
// single change, never an intermediate shorter transcript. On an empty
// transcript it behaves like Append.
func (s *Store) ReplaceLast(m Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.msgs) == 0 {
		s.msgs = append(s.msgs, m)
	} else {
		s.msgs[len(s.msgs)-1] = m
	}
	s.persistLocked()
	s.notifyLocked()
}

// Messages returns a copy of the current transcript.
func (s *Store) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// Len reports the current transcript length, pending entries included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.msgs)
}

func (s *Store) copyLocked() []Message {
	return append([]Message(nil), s.msgs...)
}

// persistLocked serializes the durable subset of the transcript and overwrites
// the identity's storage slot. Write failures are logged, not propagated: the
// in-memory transcript stays authoritative for the session.
func (s *Store) persistLocked() {
	if s.kv == nil {
		return
	}
	durable := make([]Message, 0, len(s.msgs))
	for _, m := range s.msgs {
		if m.Kind == KindFinal {
			durable = append(durable, m)
		}
	}
	data, err := json.Marshal(durable)
	if err != nil {
		log.Printf("transcript: marshal failed: %v", err)
		return
	}
	if err := s.kv.Put(storageKey(s.identity), data); err != nil {
		log.Printf("transcript: persist failed for %s: %v", s.identity, err)
	}
}

// notifyLocked dispatches under the lock; that keeps concurrent mutators from
// delivering their snapshots to the listener out of order.
func (s *Store) notifyLocked() {
	if s.onChange != nil {
		s.onChange(s.copyLocked())
	}
}
