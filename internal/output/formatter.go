package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Formatter renders a Report in one output format
type Formatter interface {
	Name() string
	Format(r *Report) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(r *Report) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(r *Report) ([]byte, error) { return f.F(r) }

var formatters = map[string]Formatter{}

var formatAliases = map[string]string{
	"table": "console",
	"text":  "console",
	"excel": "xlsx",
}

// RegisterFormatter adds a formatter to the registry under its name
func RegisterFormatter(f Formatter) {
	formatters[f.Name()] = f
}

func init() {
	RegisterFormatter(ConsoleFormatter{})
	RegisterFormatter(CSVFormatter{})
	RegisterFormatter(JSONFormatter{})
	RegisterFormatter(XLSXFormatter{})
}

// GetFormatterByName returns the formatter for a name or alias, or nil
func GetFormatterByName(name string) Formatter {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := formatAliases[key]; ok {
		key = alias
	}
	return formatters[key]
}

// AvailableFormats lists the registered formatter names
func AvailableFormats() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists the accepted alternative names
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for alias := range formatAliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// WriteFormatted renders the report and writes it to a timestamped file in the working directory
func WriteFormatted(f Formatter, r *Report, ext string) (string, error) {
	return WriteFormattedTo(".", f, r, ext)
}

// WriteFormattedTo renders the report into a timestamped file under dir
func WriteFormattedTo(dir string, f Formatter, r *Report, ext string) (string, error) {
	data, err := f.Format(r)
	if err != nil {
		return "", err
	}
	filename := filepath.Join(dir, fmt.Sprintf("revimpact_report_%s.%s", time.Now().Format("20060102_150405"), ext))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}
