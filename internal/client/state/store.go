// Package state holds the canonical in-memory snapshot of the data
// presented to the user: projects, modules, and both kinds of test cases.
//
// The store has exactly two writers, the subscription manager (replacing a
// whole collection per snapshot) and the active-project selection, and
// both always replace rather than patch, so a single mutex is enough.
package state

import (
	"sync"

	"github.com/zentesthq/zentest/internal/models"
)

type Store struct {
	mu              sync.RWMutex
	projects        []models.Project
	modules         []models.Module
	cases           []models.TestCase
	apiCases        []models.APITestCase
	activeProjectID string

	// onChange, when set, is called after every mutation (outside the
	// lock). Used by the UI to re-render.
	onChange func()
}

func NewStore() *Store {
	return &Store{}
}

// OnChange registers a notification hook. Must be called before the store
// is shared.
func (s *Store) OnChange(fn func()) { s.onChange = fn }

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Reset clears every collection and the active selection. Called when the
// identity changes.
func (s *Store) Reset() {
	s.mu.Lock()
	s.projects = nil
	s.modules = nil
	s.cases = nil
	s.apiCases = nil
	s.activeProjectID = ""
	s.mu.Unlock()
	s.notify()
}

// --- setters (whole-collection replace, last snapshot wins) ---

func (s *Store) SetProjects(projects []models.Project) {
	s.mu.Lock()
	s.projects = projects
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SetModules(modules []models.Module) {
	s.mu.Lock()
	s.modules = modules
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SetCases(cases []models.TestCase) {
	s.mu.Lock()
	s.cases = cases
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SetAPICases(cases []models.APITestCase) {
	s.mu.Lock()
	s.apiCases = cases
	s.mu.Unlock()
	s.notify()
}

// ClearProjectScope drops the project-scoped collections. Called on every
// project switch so records of the previous project are never visible,
// even transiently, while the new subscriptions spin up.
func (s *Store) ClearProjectScope() {
	s.mu.Lock()
	s.modules = nil
	s.cases = nil
	s.apiCases = nil
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SetActiveProject(id string) {
	s.mu.Lock()
	s.activeProjectID = id
	s.mu.Unlock()
	s.notify()
}

// --- readers (copies, insertion order preserved) ---

func (s *Store) Projects() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

func (s *Store) Modules() []models.Module {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Module, len(s.modules))
	copy(out, s.modules)
	return out
}

func (s *Store) Cases() []models.TestCase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.TestCase, len(s.cases))
	copy(out, s.cases)
	return out
}

func (s *Store) APICases() []models.APITestCase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.APITestCase, len(s.apiCases))
	copy(out, s.apiCases)
	return out
}

func (s *Store) ActiveProjectID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeProjectID
}

// ActiveProject resolves the active id against the visible project list.
func (s *Store) ActiveProject() (models.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.projects {
		if p.ID == s.activeProjectID {
			return p, true
		}
	}
	return models.Project{}, false
}

// CaseByID looks a functional case up in the canonical collection.
func (s *Store) CaseByID(id string) (models.TestCase, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.cases {
		if c.ID == id {
			return c, true
		}
	}
	return models.TestCase{}, false
}

// APICaseByID looks an API case up in the canonical collection.
func (s *Store) APICaseByID(id string) (models.APITestCase, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.apiCases {
		if c.ID == id {
			return c, true
		}
	}
	return models.APITestCase{}, false
}
