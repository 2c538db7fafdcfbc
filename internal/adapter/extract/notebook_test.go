package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestNotebookMarkdownAndCode(t *testing.T) {
	raw := `{
		"cells": [
			{"cell_type": "markdown", "source": "# Title\n"},
			{"cell_type": "code", "source": ["print(", "'hi')"], "outputs": [
				{"text": ["hi", "!"]}
			]}
		]
	}`

	text, err := Notebook([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(text, "## Markdown Cell 1") {
		t.Errorf("missing markdown header:\n%s", text)
	}
	if !strings.Contains(text, "# Title") {
		t.Errorf("missing markdown body:\n%s", text)
	}
	if !strings.Contains(text, "## Code Cell 2") {
		t.Errorf("missing code header:\n%s", text)
	}
	// Array-of-strings source is concatenated with no separator.
	if !strings.Contains(text, "print('hi')") {
		t.Errorf("source parts not concatenated:\n%s", text)
	}
	if !strings.Contains(text, "### Output 1") {
		t.Errorf("missing output header:\n%s", text)
	}
	if !strings.Contains(text, "hi!") {
		t.Errorf("output parts not concatenated:\n%s", text)
	}
}

func TestNotebookTextPlainOutput(t *testing.T) {
	raw := `{
		"cells": [
			{"cell_type": "code", "source": "df.head()", "outputs": [
				{"data": {"text/plain": ["   a  b\n", "0  1  2"]}}
			]}
		]
	}`

	text, err := Notebook([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "   a  b\n0  1  2") {
		t.Errorf("missing text/plain output:\n%s", text)
	}
}

func TestNotebookCellOrderPreserved(t *testing.T) {
	raw := `{
		"cells": [
			{"cell_type": "code", "source": "first"},
			{"cell_type": "markdown", "source": "second"},
			{"cell_type": "code", "source": "third"}
		]
	}`

	text, err := Notebook([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	a := strings.Index(text, "first")
	b := strings.Index(text, "second")
	c := strings.Index(text, "third")
	if a < 0 || b < 0 || c < 0 || a > b || b > c {
		t.Errorf("cells out of order:\n%s", text)
	}
	// Headers are numbered by document position, not by emitted count.
	if !strings.Contains(text, "## Markdown Cell 2") {
		t.Errorf("expected position-based numbering:\n%s", text)
	}
	if !strings.Contains(text, "## Code Cell 3") {
		t.Errorf("expected position-based numbering:\n%s", text)
	}
}

func TestNotebookMalformedJSON(t *testing.T) {
	_, err := Notebook([]byte("{not json"))
	if !errors.Is(err, ErrNotExtractable) {
		t.Errorf("expected ErrNotExtractable, got %v", err)
	}
}

func TestNotebookMissingCells(t *testing.T) {
	_, err := Notebook([]byte(`{"metadata": {}}`))
	if !errors.Is(err, ErrNotExtractable) {
		t.Errorf("expected ErrNotExtractable, got %v", err)
	}
}

func TestNotebookEmptySourceSkipped(t *testing.T) {
	raw := `{"cells": [{"cell_type": "code", "source": ""}]}`
	_, err := Notebook([]byte(raw))
	if !errors.Is(err, ErrNotExtractable) {
		t.Errorf("expected ErrNotExtractable for empty notebook, got %v", err)
	}
}
