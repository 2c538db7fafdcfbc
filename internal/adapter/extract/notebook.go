package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotExtractable signals content that could not be converted to plain
// text (malformed notebook JSON, or one with nothing to extract). The
// caller counts it as a per-file failure and moves on.
var ErrNotExtractable = errors.New("content not extractable")

// sourceText is a notebook field that may be either a single string or
// an array of strings; the array form is concatenated with no separator.
type sourceText struct {
	value string
	set   bool
}

func (s *sourceText) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		s.value = single
		s.set = true
		return nil
	}
	var parts []string
	if err := json.Unmarshal(data, &parts); err == nil {
		s.value = strings.Join(parts, "")
		s.set = true
		return nil
	}
	// Tolerate unexpected shapes; the field just contributes nothing.
	return nil
}

type notebook struct {
	Cells []notebookCell `json:"cells"`
}

type notebookCell struct {
	CellType string           `json:"cell_type"`
	Source   sourceText       `json:"source"`
	Outputs  []notebookOutput `json:"outputs"`
}

type notebookOutput struct {
	Text sourceText                 `json:"text"`
	Data map[string]json.RawMessage `json:"data"`
}

// Notebook flattens a Jupyter notebook into a single text stream:
// markdown and code cells in document order, each under a header naming
// its type and 1-based position, with code outputs appended under their
// own sub-headers.
func Notebook(raw []byte) (string, error) {
	var nb notebook
	if err := json.Unmarshal(raw, &nb); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotExtractable, err)
	}

	var b strings.Builder
	for i, cell := range nb.Cells {
		switch cell.CellType {
		case "markdown":
			if cell.Source.value == "" {
				continue
			}
			fmt.Fprintf(&b, "\n## Markdown Cell %d\n", i+1)
			b.WriteString(cell.Source.value)
			b.WriteString("\n")
		case "code":
			if cell.Source.value == "" {
				continue
			}
			fmt.Fprintf(&b, "\n## Code Cell %d\n", i+1)
			b.WriteString(cell.Source.value)
			b.WriteString("\n")

			for j, out := range cell.Outputs {
				if out.Text.value == "" && out.Data == nil {
					continue
				}
				fmt.Fprintf(&b, "\n### Output %d\n", j+1)
				b.WriteString(out.Text.value)
				if plain, ok := out.Data["text/plain"]; ok {
					var text sourceText
					if err := text.UnmarshalJSON(plain); err == nil {
						b.WriteString(text.value)
					}
				}
				b.WriteString("\n")
			}
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrNotExtractable
	}
	return text, nil
}
