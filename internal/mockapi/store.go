package mockapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/mrsinham/triagewizard/internal/intake"
)

var (
	// ErrNotFound is returned for unknown identifiers.
	ErrNotFound = errors.New("not found")
	// ErrReplayMismatch is returned when a replay key comes back with a
	// different payload than the one it was first used with.
	ErrReplayMismatch = errors.New("idempotency key reused with a different payload")
)

type replay struct {
	id          string
	fingerprint string
}

// Fingerprint hashes the JSON encoding of v.
func Fingerprint(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Store keeps patients and consultations in memory.
type Store struct {
	mu            sync.Mutex
	patients      map[string]intake.Patient
	consultations map[string]intake.Consultation
	replays       map[string]replay
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		patients:      make(map[string]intake.Patient),
		consultations: make(map[string]intake.Consultation),
		replays:       make(map[string]replay),
	}
}

// lookupReplay returns the ID stored for key. A known key sent with another
// fingerprint yields ErrReplayMismatch.
func (s *Store) lookupReplay(key, fingerprint string) (string, error) {
	if key == "" {
		return "", nil
	}
	r, ok := s.replays[key]
	if !ok {
		return "", nil
	}
	if r.fingerprint != fingerprint {
		return "", ErrReplayMismatch
	}
	return r.id, nil
}

// AddPatient stores p under a fresh ID. A repeated replay key with the same
// fingerprint returns the patient stored by the first call.
func (s *Store) AddPatient(replayKey, fingerprint string, p intake.Patient) (intake.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.lookupReplay(replayKey, fingerprint)
	if err != nil {
		return intake.Patient{}, err
	}
	if existing, ok := s.patients[id]; ok {
		return existing.Clone(), nil
	}
	p = p.Clone()
	p.ID = uuid.NewString()
	s.patients[p.ID] = p
	if replayKey != "" {
		s.replays[replayKey] = replay{id: p.ID, fingerprint: fingerprint}
	}
	return p.Clone(), nil
}

// Patient returns the patient stored under id.
func (s *Store) Patient(id string) (intake.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[id]
	if !ok {
		return intake.Patient{}, ErrNotFound
	}
	return p.Clone(), nil
}

// AddConsultation stores c under a fresh ID, honouring replayKey like
// AddPatient. The second result reports whether c was newly stored.
func (s *Store) AddConsultation(replayKey, fingerprint string, c intake.Consultation) (intake.Consultation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.lookupReplay(replayKey, fingerprint)
	if err != nil {
		return intake.Consultation{}, false, err
	}
	if existing, ok := s.consultations[id]; ok {
		return existing, false, nil
	}
	c.ID = uuid.NewString()
	s.consultations[c.ID] = c
	if replayKey != "" {
		s.replays[replayKey] = replay{id: c.ID, fingerprint: fingerprint}
	}
	return c, true, nil
}

// Consultation returns the consultation stored under id.
func (s *Store) Consultation(id string) (intake.Consultation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.consultations[id]
	if !ok {
		return intake.Consultation{}, ErrNotFound
	}
	return c, nil
}

// UpdateConsultation replaces the consultation stored under c.ID.
func (s *Store) UpdateConsultation(c intake.Consultation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.consultations[c.ID]; !ok {
		return ErrNotFound
	}
	s.consultations[c.ID] = c
	return nil
}

// Counts returns the number of stored patients and consultations.
func (s *Store) Counts() (patients, consultations int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.patients), len(s.consultations)
}
