// Package memstore implementa los puertos de persistencia en memoria.
// Su TxRunner serializa las transacciones y restaura una instantánea del
// estado cuando el callback falla, de modo que el todo-o-nada es observable
// en los tests sin una base de datos.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/obras-api/internal/application/ports"
	"github.com/jhoicas/obras-api/internal/domain/entity"
)

var _ ports.TxRunner = (*Store)(nil)

type state struct {
	seq           int64
	order         map[string]int64
	users         map[string]entity.User
	members       map[string]map[string]bool // projectID -> userID
	projects      map[string]entity.Project
	milestones    map[string]entity.Milestone
	tasks         map[string]entity.Task
	materials     map[string]entity.Material
	suppliers     map[string]entity.Supplier
	categories    map[string]entity.Category
	units         map[string]entity.Unit
	requests      map[string]entity.MaterialRequest
	items         map[string]entity.MaterialRequestItem
	actions       []entity.MaterialRequestAction
	deliveries    []entity.MaterialDelivery
	verifications []entity.MaterialVerification
	movements     []entity.InventoryMovement
	assets        map[string]entity.Asset
	logs          []entity.AuditLog
}

func newState() *state {
	return &state{
		order:      map[string]int64{},
		users:      map[string]entity.User{},
		members:    map[string]map[string]bool{},
		projects:   map[string]entity.Project{},
		milestones: map[string]entity.Milestone{},
		tasks:      map[string]entity.Task{},
		materials:  map[string]entity.Material{},
		suppliers:  map[string]entity.Supplier{},
		categories: map[string]entity.Category{},
		units:      map[string]entity.Unit{},
		requests:   map[string]entity.MaterialRequest{},
		items:      map[string]entity.MaterialRequestItem{},
		assets:     map[string]entity.Asset{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *state) clone() *state {
	members := make(map[string]map[string]bool, len(s.members))
	for p, set := range s.members {
		members[p] = cloneMap(set)
	}
	return &state{
		seq:           s.seq,
		order:         cloneMap(s.order),
		users:         cloneMap(s.users),
		members:       members,
		projects:      cloneMap(s.projects),
		milestones:    cloneMap(s.milestones),
		tasks:         cloneMap(s.tasks),
		materials:     cloneMap(s.materials),
		suppliers:     cloneMap(s.suppliers),
		categories:    cloneMap(s.categories),
		units:         cloneMap(s.units),
		requests:      cloneMap(s.requests),
		items:         cloneMap(s.items),
		actions:       append([]entity.MaterialRequestAction(nil), s.actions...),
		deliveries:    append([]entity.MaterialDelivery(nil), s.deliveries...),
		verifications: append([]entity.MaterialVerification(nil), s.verifications...),
		movements:     append([]entity.InventoryMovement(nil), s.movements...),
		assets:        cloneMap(s.assets),
		logs:          append([]entity.AuditLog(nil), s.logs...),
	}
}

// touch asigna un número de inserción a id para ordenar listados.
func (s *state) touch(id string) {
	if _, ok := s.order[id]; ok {
		return
	}
	s.seq++
	s.order[id] = s.seq
}

// Store almacenamiento en memoria seguro para uso concurrente.
type Store struct {
	txMu     sync.Mutex
	mu       sync.RWMutex
	data     *state
	failures map[string]error
}

// New construye un almacenamiento vacío.
func New() *Store {
	return &Store{data: newState(), failures: map[string]error{}}
}

// FailOn hace que la operación op ("movements.append", "logs.append", ...) devuelva err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// ClearFailures elimina los fallos inyectados.
func (s *Store) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]error{}
}

// fail debe llamarse con s.mu tomado.
func (s *Store) fail(op string) error {
	return s.failures[op]
}

// Run ejecuta fn con los repositorios del store. Si fn falla restaura el
// estado previo a la llamada.
func (s *Store) Run(ctx context.Context, fn func(r ports.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(s.Repos()); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// Repos devuelve los repositorios respaldados por este store.
func (s *Store) Repos() ports.Repos {
	return ports.Repos{
		Users:         &userRepo{s},
		Projects:      &projectRepo{s},
		Milestones:    &milestoneRepo{s},
		Tasks:         &taskRepo{s},
		Materials:     &materialRepo{s},
		Suppliers:     &supplierRepo{s},
		Categories:    &categoryRepo{s},
		Units:         &unitRepo{s},
		Requests:      &requestRepo{s},
		Actions:       &actionRepo{s},
		Deliveries:    &deliveryRepo{s},
		Verifications: &verificationRepo{s},
		Movements:     &movementRepo{s},
		Assets:        &assetRepo{s},
		Logs:          &logRepo{s},
	}
}

// sortByOrder ordena ids por orden de inserción; desc invierte el orden.
func (s *state) sortByOrder(ids []string, desc bool) {
	sort.SliceStable(ids, func(i, j int) bool {
		if desc {
			return s.order[ids[i]] > s.order[ids[j]]
		}
		return s.order[ids[i]] < s.order[ids[j]]
	})
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func ptr[T any](v T) *T { return &v }
