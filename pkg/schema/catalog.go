package schema

import (
	"fmt"
	"os"

	"github.com/go-openapi/inflect"
	"github.com/leapstack-labs/querygraph/pkg/core"
	"gopkg.in/yaml.v3"
)

// Catalog is a named set of table descriptors, typically loaded from YAML.
type Catalog struct {
	tables []*Table
	byName map[string]*Table
}

// NewCatalog validates the tables and indexes them by name.
func NewCatalog(tables ...*Table) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byName[t.Name]; dup {
			return nil, core.NewConfigurationError(core.CodeInvalidSchema, "table %s declared twice", t.Name)
		}
		c.tables = append(c.tables, t)
		c.byName[t.Name] = t
	}
	for _, t := range c.tables {
		for _, fk := range t.ForeignKeys {
			target, ok := c.byName[fk.Table]
			if !ok {
				return nil, core.NewConfigurationError(core.CodeInvalidSchema,
					"foreign key %s.%s references unknown table %s", t.Name, fk.Column, fk.Table)
			}
			if target.Column(fk.References) == nil {
				return nil, core.NewConfigurationError(core.CodeInvalidSchema,
					"foreign key %s.%s references unknown column %s.%s", t.Name, fk.Column, fk.Table, fk.References)
			}
		}
	}
	return c, nil
}

// Table returns a copy of the named table.
func (c *Catalog) Table(name string) (*Table, bool) {
	t, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	return t.Copy(), true
}

// Tables returns copies of every table in declaration order.
func (c *Catalog) Tables() []*Table {
	out := make([]*Table, len(c.tables))
	for i, t := range c.tables {
		out[i] = t.Copy()
	}
	return out
}

// Names returns the table names in declaration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.tables))
	for i, t := range c.tables {
		out[i] = t.Name
	}
	return out
}

// schemaFile is the YAML layout of a catalog.
type schemaFile struct {
	Tables []tableSpec `yaml:"tables"`
}

type tableSpec struct {
	// Type is a descriptive type name; Name defaults to its snake_case form.
	Type          string       `yaml:"type,omitempty"`
	Name          string       `yaml:"name"`
	PrimaryKey    string       `yaml:"primary_key,omitempty"`
	AutoIncrement bool         `yaml:"auto_increment,omitempty"`
	Columns       []columnSpec `yaml:"columns"`
	ForeignKeys   []fkSpec     `yaml:"foreign_keys,omitempty"`
}

type columnSpec struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type,omitempty"`
	Excluded bool   `yaml:"excluded,omitempty"`
}

type fkSpec struct {
	Column     string `yaml:"column"`
	References string `yaml:"references"`
	// Column of the referenced table; defaults to its primary key.
	ReferencesColumn string `yaml:"references_column,omitempty"`
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var file schemaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	tables := make([]*Table, 0, len(file.Tables))
	for _, spec := range file.Tables {
		t, err := spec.table()
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}

	// Foreign keys default to the referenced table's primary key.
	byName := make(map[string]*Table, len(tables))
	for _, t := range tables {
		byName[t.Name] = t
	}
	for _, t := range tables {
		for i, fk := range t.ForeignKeys {
			if fk.References != "" {
				continue
			}
			if target, ok := byName[fk.Table]; ok {
				t.ForeignKeys[i].References = target.PrimaryKey
			}
		}
	}

	return NewCatalog(tables...)
}

func (s tableSpec) table() (*Table, error) {
	name := s.Name
	if name == "" {
		name = inflect.Underscore(s.Type)
	}
	t := &Table{Name: name, PrimaryKey: s.PrimaryKey, AutoIncrement: s.AutoIncrement}
	for _, cs := range s.Columns {
		typ, err := core.ParseSemanticType(cs.Type)
		if err != nil {
			return nil, core.NewConfigurationError(core.CodeInvalidSchema, "column %s.%s: %v", name, cs.Name, err)
		}
		col := NewColumn(cs.Name, typ)
		col.Excluded = cs.Excluded
		t.Columns = append(t.Columns, col)
	}
	for _, fk := range s.ForeignKeys {
		t.ForeignKeys = append(t.ForeignKeys, ForeignKey{
			Column:     fk.Column,
			Table:      fk.References,
			References: fk.ReferencesColumn,
		})
	}
	return t, nil
}

// Marshal encodes tables in the layout Parse reads. Column predicates and
// aliases are not part of the layout.
func Marshal(tables ...*Table) ([]byte, error) {
	file := schemaFile{Tables: make([]tableSpec, 0, len(tables))}
	for _, t := range tables {
		spec := tableSpec{Name: t.Name, PrimaryKey: t.PrimaryKey, AutoIncrement: t.AutoIncrement}
		for _, c := range t.Columns {
			spec.Columns = append(spec.Columns, columnSpec{Name: c.Name, Type: c.Type.String(), Excluded: c.Excluded})
		}
		for _, fk := range t.ForeignKeys {
			spec.ForeignKeys = append(spec.ForeignKeys, fkSpec{Column: fk.Column, References: fk.Table, ReferencesColumn: fk.References})
		}
		file.Tables = append(file.Tables, spec)
	}
	return yaml.Marshal(file)
}
