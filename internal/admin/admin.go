// Package admin registers the blog entities for administration: which columns
// a listing shows, which of them may be edited in place and which fields are
// derived from others. It has no UI; the CLI drives it.
package admin

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"
	"sync"

	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/slug"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// StrColumn is the list column rendering the record itself.
const StrColumn = "__str__"

const defaultListLimit = 100

// ModelAdmin describes how one entity is administered.
type ModelAdmin struct {
	Name         string              `yaml:"name"`
	Plural       string              `yaml:"plural"`
	ListDisplay  []string            `yaml:"list_display"`
	ListEditable []string            `yaml:"list_editable,omitempty"`
	Prepopulated map[string][]string `yaml:"prepopulated_fields,omitempty"`
	Ordering     string              `yaml:"ordering"`
	// Hidden columns are never shown nor edited.
	Hidden []string `yaml:"hidden,omitempty"`
	// Preload names the associations the listing needs to render rows.
	Preload []string `yaml:"preload,omitempty"`

	// Model is a pointer to a zero value of the entity.
	Model any `yaml:"-"`
	// SaveFunc and DeleteFunc route writes through the entity's lifecycle
	// rules. Plain gorm calls are used when nil.
	SaveFunc   func(ctx context.Context, record any) error `yaml:"-"`
	DeleteFunc func(ctx context.Context, id uint) error    `yaml:"-"`
}

func (ma *ModelAdmin) hidden(column string) bool {
	return slices.Contains(ma.Hidden, column)
}

// Row is one line of a listing: the record ID and one value per ListDisplay
// column.
type Row struct {
	ID     uint
	Values []string
}

// Field is a column of a single record.
type Field struct {
	Name  string
	Value string
}

// Site is a registry of ModelAdmins over one database.
type Site struct {
	db      *gorm.DB
	mu      sync.RWMutex
	models  []*ModelAdmin
	byName  map[string]*ModelAdmin
	schemas sync.Map
}

func NewSite(db *gorm.DB) *Site {
	return &Site{db: db, byName: make(map[string]*ModelAdmin)}
}

// Register adds ma to the site, filling the defaults: plural is the name plus
// "s", the listing shows StrColumn and records are ordered by id.
func (s *Site) Register(ma *ModelAdmin) error {
	if ma == nil || ma.Model == nil || ma.Name == "" {
		return fmt.Errorf("admin: model admin needs a name and a model")
	}
	if reflect.TypeOf(ma.Model).Kind() != reflect.Ptr {
		return fmt.Errorf("admin: model of %q must be a pointer, got %T", ma.Name, ma.Model)
	}
	ma.Name = strings.ToLower(ma.Name)
	if ma.Plural == "" {
		ma.Plural = ma.Name + "s"
	}
	if len(ma.ListDisplay) == 0 {
		ma.ListDisplay = []string{StrColumn}
	}
	if ma.Ordering == "" {
		ma.Ordering = "id"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[ma.Name]; ok {
		return fmt.Errorf("admin: %q is already registered", ma.Name)
	}
	s.byName[ma.Name] = ma
	s.byName[strings.ToLower(ma.Plural)] = ma
	s.models = append(s.models, ma)
	return nil
}

// Lookup finds a registered entity by name or plural, ignoring case.
func (s *Site) Lookup(name string) (*ModelAdmin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ma, ok := s.byName[strings.ToLower(name)]
	if !ok {
		return nil, models.NewNotFoundError("ModelAdmin", name)
	}
	return ma, nil
}

// Models returns the registered entities in registration order.
func (s *Site) Models() []*ModelAdmin {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.models)
}

func (s *Site) schema(ma *ModelAdmin) (*schema.Schema, error) {
	sch, err := schema.Parse(ma.Model, &s.schemas, s.db.NamingStrategy)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return sch, nil
}

func (s *Site) newRecord(ma *ModelAdmin) any {
	return reflect.New(reflect.TypeOf(ma.Model).Elem()).Interface()
}

// List returns one Row per record, in the entity's ordering.
func (s *Site) List(ctx context.Context, name string, limit, offset int) ([]Row, error) {
	ma, err := s.Lookup(name)
	if err != nil {
		return nil, err
	}
	sch, err := s.schema(ma)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	records := reflect.New(reflect.SliceOf(reflect.TypeOf(ma.Model)))
	query := s.db.WithContext(ctx)
	for _, assoc := range ma.Preload {
		query = query.Preload(assoc)
	}
	err = query.Order(ma.Ordering).Limit(limit).Offset(offset).Find(records.Interface()).Error
	if err != nil {
		return nil, repository.TranslateError(sch.Name, nil, err)
	}

	list := records.Elem()
	rows := make([]Row, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		rv := list.Index(i).Elem()
		row := Row{ID: recordID(ctx, sch, rv)}
		for _, col := range ma.ListDisplay {
			v, err := s.display(ctx, sch, list.Index(i).Interface(), rv, col)
			if err != nil {
				return nil, err
			}
			row.Values = append(row.Values, v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Get loads a record by primary key.
func (s *Site) Get(ctx context.Context, name string, id uint) (any, error) {
	ma, err := s.Lookup(name)
	if err != nil {
		return nil, err
	}
	return s.get(ctx, ma, id)
}

func (s *Site) get(ctx context.Context, ma *ModelAdmin, id uint) (any, error) {
	sch, err := s.schema(ma)
	if err != nil {
		return nil, err
	}
	record := s.newRecord(ma)
	if err := s.db.WithContext(ctx).First(record, id).Error; err != nil {
		return nil, repository.TranslateError(sch.Name, id, err)
	}
	return record, nil
}

// Fields lists every visible column of record with its value.
func (s *Site) Fields(ctx context.Context, name string, record any) ([]Field, error) {
	ma, err := s.Lookup(name)
	if err != nil {
		return nil, err
	}
	sch, err := s.schema(ma)
	if err != nil {
		return nil, err
	}
	rv := reflect.Indirect(reflect.ValueOf(record))
	fields := make([]Field, 0, len(sch.DBNames))
	for _, dbName := range sch.DBNames {
		if ma.hidden(dbName) {
			continue
		}
		f := sch.FieldsByDBName[dbName]
		fields = append(fields, Field{Name: dbName, Value: formatValue(f.ReflectValueOf(ctx, rv))})
	}
	return fields, nil
}

// UpdateEditable sets columns from values and saves the record. Only columns
// listed in ListEditable are accepted.
func (s *Site) UpdateEditable(ctx context.Context, name string, id uint, values map[string]string) (any, error) {
	return s.update(ctx, name, id, values, true)
}

// Update sets any updatable, visible column from values and saves the record.
func (s *Site) Update(ctx context.Context, name string, id uint, values map[string]string) (any, error) {
	return s.update(ctx, name, id, values, false)
}

func (s *Site) update(ctx context.Context, name string, id uint, values map[string]string, editableOnly bool) (any, error) {
	ma, err := s.Lookup(name)
	if err != nil {
		return nil, err
	}
	sch, err := s.schema(ma)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, models.NewValidationError("no fields to update")
	}

	columns := make([]string, 0, len(values))
	for col := range values {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	targets := make(map[string]*schema.Field, len(columns))
	for _, col := range columns {
		f := sch.LookUpField(col)
		if f == nil || f.DBName == "" || ma.hidden(f.DBName) {
			return nil, models.NewValidationError(fmt.Sprintf("%s has no field %q", ma.Name, col))
		}
		if f.PrimaryKey || !f.Updatable {
			return nil, models.NewValidationError(fmt.Sprintf("%s.%s cannot be edited", ma.Name, f.DBName))
		}
		if editableOnly && !slices.Contains(ma.ListEditable, f.DBName) {
			return nil, models.NewValidationError(fmt.Sprintf("%s.%s is not editable from the list", ma.Name, f.DBName))
		}
		targets[col] = f
	}

	record, err := s.get(ctx, ma, id)
	if err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(record).Elem()
	for _, col := range columns {
		f := targets[col]
		if err := assign(f.ReflectValueOf(ctx, rv), values[col]); err != nil {
			return nil, models.NewValidationError(fmt.Sprintf("%s.%s: %v", ma.Name, f.DBName, err))
		}
	}
	if err := s.Prepopulate(ctx, ma, record); err != nil {
		return nil, err
	}
	if err := s.save(ctx, ma, sch, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Site) save(ctx context.Context, ma *ModelAdmin, sch *schema.Schema, record any) error {
	if ma.SaveFunc != nil {
		return ma.SaveFunc(ctx, record)
	}
	err := s.db.WithContext(ctx).Omit(clause.Associations).Save(record).Error
	return repository.TranslateError(sch.Name, nil, err)
}

// Delete removes a record, with its dependents when a DeleteFunc is set.
func (s *Site) Delete(ctx context.Context, name string, id uint) error {
	ma, err := s.Lookup(name)
	if err != nil {
		return err
	}
	if ma.DeleteFunc != nil {
		return ma.DeleteFunc(ctx, id)
	}
	sch, err := s.schema(ma)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Delete(s.newRecord(ma), id)
	if res.Error != nil {
		return repository.TranslateError(sch.Name, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError(sch.Name, id)
	}
	return nil
}

// Prepopulate fills each empty prepopulated field of record with the slug of
// its source fields joined by spaces.
func (s *Site) Prepopulate(ctx context.Context, ma *ModelAdmin, record any) error {
	if len(ma.Prepopulated) == 0 {
		return nil
	}
	sch, err := s.schema(ma)
	if err != nil {
		return err
	}
	rv := reflect.Indirect(reflect.ValueOf(record))

	targets := make([]string, 0, len(ma.Prepopulated))
	for target := range ma.Prepopulated {
		targets = append(targets, target)
	}
	sort.Strings(targets)

	for _, target := range targets {
		tf := sch.LookUpField(target)
		if tf == nil {
			return models.NewInternalError(fmt.Errorf("admin: %s has no field %q", ma.Name, target))
		}
		tv := tf.ReflectValueOf(ctx, rv)
		if tv.Kind() != reflect.String || tv.String() != "" {
			continue
		}
		parts := make([]string, 0, len(ma.Prepopulated[target]))
		for _, source := range ma.Prepopulated[target] {
			sf := sch.LookUpField(source)
			if sf == nil {
				return models.NewInternalError(fmt.Errorf("admin: %s has no field %q", ma.Name, source))
			}
			parts = append(parts, formatValue(sf.ReflectValueOf(ctx, rv)))
		}
		tv.SetString(slug.Make(strings.Join(parts, " ")))
	}
	return nil
}

// Describe renders the registry as YAML.
func (s *Site) Describe() ([]byte, error) {
	return yaml.Marshal(struct {
		Models []*ModelAdmin `yaml:"models"`
	}{Models: s.Models()})
}

func (s *Site) display(ctx context.Context, sch *schema.Schema, record any, rv reflect.Value, column string) (string, error) {
	if column == StrColumn {
		if str, ok := record.(fmt.Stringer); ok && str.String() != "" {
			return str.String(), nil
		}
		return fmt.Sprintf("%s object (%d)", sch.Name, recordID(ctx, sch, rv)), nil
	}
	f := sch.LookUpField(column)
	if f == nil {
		return "", models.NewInternalError(fmt.Errorf("admin: %s has no column %q", sch.Name, column))
	}
	return formatValue(f.ReflectValueOf(ctx, rv)), nil
}

func recordID(ctx context.Context, sch *schema.Schema, rv reflect.Value) uint {
	if sch.PrioritizedPrimaryField == nil {
		return 0
	}
	v := reflect.Indirect(sch.PrioritizedPrimaryField.ReflectValueOf(ctx, rv))
	if v.CanUint() {
		return uint(v.Uint())
	}
	return 0
}
