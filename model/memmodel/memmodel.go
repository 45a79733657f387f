// Package memmodel provides an in-memory model layer.
//
// It is the reference model.Layer implementation: per-model tables guarded
// by one RWMutex, sequential identities that make persistence order
// observable in tests, and snapshot/restore for carrying generated datasets
// between runs. Nothing survives the process; use sqlmodel for real
// storage.
//
//	layer := memmodel.New()
//	layer.Register(
//	    model.Type{Name: "Post", Relations: []model.Relation{
//	        {Name: "comments", Type: "Comment", Field: "post"},
//	    }},
//	    model.Type{Name: "Comment"},
//	)
//	client := fabrica.NewClient(layer)
package memmodel

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/fabrica/model"
)

// table holds the persisted instances of one model, in insertion order.
type table struct {
	rows []model.Instance
	byID map[any]model.Instance
}

// Layer is an in-memory model.Layer. The zero value is not usable; call New.
type Layer struct {
	mu      sync.RWMutex
	types   map[string]model.Type
	tables  map[string]*table
	seq     int64
	useUUID bool
}

// Option configures the Layer.
type Option func(*Layer)

// WithUUIDs assigns UUID string identities instead of sequential integers.
func WithUUIDs() Option {
	return func(l *Layer) {
		l.useUUID = true
	}
}

// New returns an empty layer. Models must be registered before instances
// of them can be constructed.
func New(opts ...Option) *Layer {
	l := &Layer{
		types:  make(map[string]model.Type),
		tables: make(map[string]*table),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Register declares models and their reverse relations. Registering a name
// again replaces its metadata but keeps any persisted rows.
func (l *Layer) Register(types ...model.Type) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range types {
		l.types[t.Name] = t
		if _, ok := l.tables[t.Name]; !ok {
			l.tables[t.Name] = &table{byID: make(map[any]model.Instance)}
		}
	}
}

// New constructs a transient record of the named model.
func (l *Layer) New(name string, fields []model.Field) (model.Instance, error) {
	l.mu.RLock()
	_, ok := l.types[name]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("memmodel: unknown model %q", name)
	}
	return model.NewRecord(name, fields), nil
}

// Save assigns the record identity and stores it. Saving an instance whose
// relation fields reference unsaved instances fails: dependencies persist
// before dependents.
func (l *Layer) Save(ctx context.Context, inst model.Instance) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rec, ok := inst.(*model.Record)
	if !ok {
		return fmt.Errorf("memmodel: unsupported instance type %T", inst)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	tbl, ok := l.tables[rec.ModelName()]
	if !ok {
		return fmt.Errorf("memmodel: unknown model %q", rec.ModelName())
	}
	for _, f := range rec.Fields() {
		if child, ok := f.Value.(model.Instance); ok && child.ID() == nil {
			return fmt.Errorf("memmodel: field %q of model %q references an unsaved %s instance",
				f.Name, rec.ModelName(), child.ModelName())
		}
	}
	if rec.ID() == nil {
		rec.SetID(l.nextID())
		tbl.rows = append(tbl.rows, rec)
		tbl.byID[rec.ID()] = rec
		return nil
	}
	if _, exists := tbl.byID[rec.ID()]; !exists {
		tbl.rows = append(tbl.rows, rec)
	}
	tbl.byID[rec.ID()] = rec
	return nil
}

// nextID allocates the next identity. The sequence is shared across models
// so persistence order stays comparable between parents and children.
func (l *Layer) nextID() any {
	if l.useUUID {
		return uuid.NewString()
	}
	l.seq++
	return l.seq
}

// Relation resolves a reverse relation declared on the given model.
func (l *Layer) Relation(name, relation string) (*model.Relation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.types[name]
	if !ok {
		return nil, fmt.Errorf("memmodel: unknown model %q", name)
	}
	rel, ok := t.Relation(relation)
	if !ok {
		return nil, model.NewRelationNotFoundError(name, relation)
	}
	return rel, nil
}

// All returns the persisted instances of the model in insertion order.
func (l *Layer) All(name string) []model.Instance {
	l.mu.RLock()
	defer l.mu.RUnlock()
	tbl, ok := l.tables[name]
	if !ok {
		return nil
	}
	return slices.Clone(tbl.rows)
}

// Count returns the number of persisted instances of the model.
func (l *Layer) Count(name string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	tbl, ok := l.tables[name]
	if !ok {
		return 0
	}
	return len(tbl.rows)
}

// Get returns the persisted instance with the given identity.
func (l *Layer) Get(name string, id any) (model.Instance, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	tbl, ok := l.tables[name]
	if !ok {
		return nil, false
	}
	inst, ok := tbl.byID[id]
	return inst, ok
}

// Reset drops all rows and restarts the identity sequence. Registered
// models are kept.
func (l *Layer) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for name := range l.tables {
		l.tables[name] = &table{byID: make(map[any]model.Instance)}
	}
	l.seq = 0
}

// snapshotField is the serialized form of one field value. Instance-valued
// fields flatten to the referenced identity, with Ref naming the model.
type snapshotField struct {
	Name  string `msgpack:"name"`
	Value any    `msgpack:"value"`
	Ref   string `msgpack:"ref,omitempty"`
}

// snapshotRecord is the serialized form of one persisted instance.
type snapshotRecord struct {
	ID     any             `msgpack:"id"`
	Fields []snapshotField `msgpack:"fields"`
}

// snapshot is the serialized form of the whole layer.
type snapshot struct {
	Seq    int64                       `msgpack:"seq"`
	Tables map[string][]snapshotRecord `msgpack:"tables"`
}

// Snapshot serializes every persisted row to msgpack. Instance-valued
// fields are flattened to their identities; Restore re-links them.
func (l *Layer) Snapshot() ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	snap := snapshot{
		Seq:    l.seq,
		Tables: make(map[string][]snapshotRecord, len(l.tables)),
	}
	for name, tbl := range l.tables {
		records := make([]snapshotRecord, 0, len(tbl.rows))
		for _, inst := range tbl.rows {
			sr := snapshotRecord{ID: inst.ID()}
			for _, f := range inst.Fields() {
				sf := snapshotField{Name: f.Name, Value: f.Value}
				if child, ok := f.Value.(model.Instance); ok {
					sf.Value = child.ID()
					sf.Ref = child.ModelName()
				}
				sr.Fields = append(sr.Fields, sf)
			}
			records = append(records, sr)
		}
		snap.Tables[name] = records
	}
	return msgpack.Marshal(snap)
}

// Restore replaces the layer contents with a previously captured snapshot
// and re-links flattened references. Integer values restore as int64.
func (l *Layer) Restore(data []byte) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.UseLooseInterfaceDecoding(true)
	var snap snapshot
	if err := dec.Decode(&snap); err != nil {
		return fmt.Errorf("memmodel: decoding snapshot: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	type link struct {
		rec   *model.Record
		field string
		ref   string
		id    any
	}
	var (
		tables  = make(map[string]*table, len(snap.Tables))
		pending []link
	)
	for name, records := range snap.Tables {
		if _, ok := l.types[name]; !ok {
			return fmt.Errorf("memmodel: snapshot contains unregistered model %q", name)
		}
		tbl := &table{byID: make(map[any]model.Instance, len(records))}
		for _, sr := range records {
			fields := make([]model.Field, 0, len(sr.Fields))
			for _, sf := range sr.Fields {
				if sf.Ref != "" {
					// Linked after all rows exist.
					fields = append(fields, model.Field{Name: sf.Name})
					continue
				}
				fields = append(fields, model.Field{Name: sf.Name, Value: sf.Value})
			}
			rec := model.NewRecord(name, fields)
			rec.SetID(sr.ID)
			for _, sf := range sr.Fields {
				if sf.Ref != "" {
					pending = append(pending, link{rec: rec, field: sf.Name, ref: sf.Ref, id: sf.Value})
				}
			}
			tbl.rows = append(tbl.rows, rec)
			tbl.byID[rec.ID()] = rec
		}
		tables[name] = tbl
	}
	for _, ln := range pending {
		tbl, ok := tables[ln.ref]
		if !ok {
			return fmt.Errorf("memmodel: snapshot reference to missing model %q", ln.ref)
		}
		child, ok := tbl.byID[ln.id]
		if !ok {
			return fmt.Errorf("memmodel: snapshot reference to missing %s id %v", ln.ref, ln.id)
		}
		ln.rec.SetField(ln.field, child)
	}
	for name := range l.tables {
		if _, ok := tables[name]; !ok {
			tables[name] = &table{byID: make(map[any]model.Instance)}
		}
	}
	l.tables = tables
	l.seq = snap.Seq
	return nil
}

var _ model.Layer = (*Layer)(nil)
