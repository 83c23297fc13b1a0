package types

// ExtractionBackend identifies the tool that pulls text lines out of a PDF.
type ExtractionBackend string

const (
	// BackendNative reads the text layer in-process with ledongthuc/pdf.
	BackendNative ExtractionBackend = "native"
	// BackendTabula reads the text layer in-process with tsawler/tabula.
	BackendTabula ExtractionBackend = "tabula"
	// BackendPdftotext pipes the PDF through poppler's pdftotext in a container.
	BackendPdftotext ExtractionBackend = "pdftotext"
)

// ParseConfig holds settings for the parse stage.
type ParseConfig struct {
	// Backend selects the text extraction tool: native, tabula, or pdftotext.
	Backend ExtractionBackend `json:"backend" yaml:"backend"`

	// Teams optionally names the page 1 and page 2 teams, overriding
	// filename and header inference.
	Teams []string `json:"teams,omitempty" yaml:"teams,omitempty"`
}

// Store defaults applied when a StoreConfig field is zero.
const (
	DefaultDataDir    = "data"
	DefaultMaxResults = 50
)

// StoreConfig holds settings for the lineup database.
type StoreConfig struct {
	// DataDir is the directory holding lineups.db.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default maximum number of query results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ExportConfig holds settings for writing tables.
type ExportConfig struct {
	// Format is the output format: table, csv, json, yaml, or xlsx.
	Format string `json:"format" yaml:"format"`

	// Output is the destination file. Empty means stdout.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Parse  ParseConfig  `json:"parse" yaml:"parse"`
	Store  StoreConfig  `json:"store" yaml:"store"`
	Export ExportConfig `json:"export" yaml:"export"`
}
