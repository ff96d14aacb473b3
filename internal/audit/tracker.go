package audit

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"ledgerpay/internal/domain"
)

// Entity is implemented by every aggregate whose changes are audited.
type Entity interface {
	AuditEntity() string
	AuditID() uint
	AuditFields() map[string]any
}

// Change is the before and after value of one field. The JSON names are part
// of the stored diff format.
type Change struct {
	OldValue any `json:"OldValue"`
	NewValue any `json:"NewValue"`
}

type state int

const (
	stateLoaded state = iota
	stateAdded
	stateModified
	stateDeleted
)

type entry struct {
	entity Entity
	before map[string]any
	state  state
	seq    int
}

// Tracker records the entities touched by one unit of work. It is not safe
// for concurrent use; each scope owns its own tracker.
type Tracker struct {
	tracked map[string]*entry
	seq     int
}

func NewTracker() *Tracker {
	return &Tracker{tracked: make(map[string]*entry)}
}

func key(e Entity) string {
	return fmt.Sprintf("%s/%d", e.AuditEntity(), e.AuditID())
}

// Loaded snapshots e as it came from the store. Later loads of the same entity
// keep the first snapshot.
func (t *Tracker) Loaded(e Entity) {
	k := key(e)
	if _, ok := t.tracked[k]; ok {
		return
	}
	t.seq++
	t.tracked[k] = &entry{entity: e, before: e.AuditFields(), state: stateLoaded, seq: t.seq}
}

// Added marks e as created in this scope. Call it after the store assigned
// the id.
func (t *Tracker) Added(e Entity) {
	t.seq++
	t.tracked[key(e)] = &entry{entity: e, state: stateAdded, seq: t.seq}
}

// Modified marks e as updated. Entities never loaded through the tracker are
// recorded without a diff.
func (t *Tracker) Modified(e Entity) {
	en, ok := t.tracked[key(e)]
	if !ok {
		t.seq++
		t.tracked[key(e)] = &entry{entity: e, state: stateModified, seq: t.seq}
		return
	}
	en.entity = e
	if en.state == stateLoaded {
		en.state = stateModified
	}
}

// Removed marks e as deleted.
func (t *Tracker) Removed(e Entity) {
	en, ok := t.tracked[key(e)]
	if !ok {
		t.seq++
		t.tracked[key(e)] = &entry{entity: e, state: stateDeleted, seq: t.seq}
		return
	}
	en.state = stateDeleted
}

// Entries builds one AuditLog per added, modified or removed entity, in the
// order they were first touched. Updates with no field change produce no
// entry.
func (t *Tracker) Entries(actor Actor) ([]*domain.AuditLog, error) {
	ordered := make([]*entry, 0, len(t.tracked))
	for _, en := range t.tracked {
		ordered = append(ordered, en)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].seq < ordered[j].seq })

	logs := make([]*domain.AuditLog, 0, len(ordered))
	for _, en := range ordered {
		var (
			action  domain.AuditAction
			changes string
		)
		switch en.state {
		case stateLoaded:
			continue
		case stateAdded:
			action = domain.AuditActionCreated
		case stateDeleted:
			action = domain.AuditActionDeleted
		case stateModified:
			action = domain.AuditActionUpdated
			if en.before != nil {
				diff := Diff(en.before, en.entity.AuditFields())
				if len(diff) == 0 {
					continue
				}
				raw, err := json.Marshal(diff)
				if err != nil {
					return nil, fmt.Errorf("encode %s diff: %w", en.entity.AuditEntity(), err)
				}
				changes = string(raw)
			}
		}
		log, err := domain.NewAuditLog(en.entity.AuditEntity(), en.entity.AuditID(), action, changes,
			actor.UserID, actor.Email, actor.IPAddress)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, nil
}

// EntityRef names one entity written by a scope.
type EntityRef struct {
	Name string
	ID   uint
}

// Touched lists the entities added, modified or removed in this scope, in the
// order they were first touched. Unlike Entries it includes updates that left
// every audited field unchanged and never fails.
func (t *Tracker) Touched() []EntityRef {
	ordered := make([]*entry, 0, len(t.tracked))
	for _, en := range t.tracked {
		if en.state != stateLoaded {
			ordered = append(ordered, en)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].seq < ordered[j].seq })

	refs := make([]EntityRef, 0, len(ordered))
	for _, en := range ordered {
		refs = append(refs, EntityRef{Name: en.entity.AuditEntity(), ID: en.entity.AuditID()})
	}
	return refs
}

// Reset forgets everything tracked so far.
func (t *Tracker) Reset() {
	t.tracked = make(map[string]*entry)
	t.seq = 0
}

// Diff returns the fields whose value differs between before and after.
func Diff(before, after map[string]any) map[string]Change {
	diff := make(map[string]Change)
	for field, nv := range after {
		ov, ok := before[field]
		if ok && reflect.DeepEqual(ov, nv) {
			continue
		}
		diff[field] = Change{OldValue: ov, NewValue: nv}
	}
	for field, ov := range before {
		if _, ok := after[field]; !ok {
			diff[field] = Change{OldValue: ov}
		}
	}
	return diff
}
