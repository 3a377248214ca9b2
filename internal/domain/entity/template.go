package entity

import "time"

// Template a versioned, immutable document template. At most one template is active per
// (DocumentType, FundID) scope; FundID nil means global.
type Template struct {
	ID           string
	DocumentType DocumentType
	Version      string
	Content      TemplateContent
	IsActive     bool
	FundID       *string
	CreatedBy    string
	CreatedAt    time.Time
}

// IsBundled reports whether the template comes from the defaults shipped with the binary.
func (t *Template) IsBundled() bool { return t.ID == "" }

// TemplateContent structured body of a template. Strings may contain {{path}} placeholders.
type TemplateContent struct {
	Title    string            `json:"title" yaml:"title"`
	Subtitle string            `json:"subtitle,omitempty" yaml:"subtitle"`
	Sections []TemplateSection `json:"sections" yaml:"sections"`
	Footer   string            `json:"footer,omitempty" yaml:"footer"`
}

// TemplateSection one article or block of the document.
type TemplateSection struct {
	ID    string         `json:"id" yaml:"id"`
	Title string         `json:"title,omitempty" yaml:"title"`
	Body  string         `json:"body,omitempty" yaml:"body"`
	Table *TemplateTable `json:"table,omitempty" yaml:"table"`
}

// TemplateTable a table materialised from a list in the context (e.g. "members").
type TemplateTable struct {
	Source  string        `json:"source" yaml:"source"`
	Columns []TableColumn `json:"columns" yaml:"columns"`
}

// TableColumn one column of a template table; Key is looked up in each source row.
type TableColumn struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}
