package bdc

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Filler writes field values into the AcroForm purchase order template.
type Filler struct {
	conf *model.Configuration
}

// NewFiller creates a form filler. Validation is relaxed for the same reason
// as on the reading side: templates edited by hand in assorted PDF tools
// rarely pass strict validation.
func NewFiller() *Filler {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Filler{conf: conf}
}

// formJSON is the payload shape pdfcpu's form fill expects.
type formJSON struct {
	Forms []formEntry `json:"forms"`
}

type formEntry struct {
	TextFields []textField `json:"textfield,omitempty"`
	Checkboxes []checkBox  `json:"checkbox,omitempty"`
}

type textField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type checkBox struct {
	Name  string `json:"name"`
	Value bool   `json:"value"`
}

// Fill writes the given values into templatePath and saves the result at
// outputPath, creating parent directories as needed.
func (f *Filler) Fill(templatePath string, values FieldValues, outputPath string) error {
	if templatePath == "" {
		return fmt.Errorf("template path cannot be empty")
	}
	if outputPath == "" {
		return fmt.Errorf("output path cannot be empty")
	}
	if _, err := os.Stat(templatePath); err != nil {
		return fmt.Errorf("cannot access template: %w", err)
	}

	payload, err := marshalForm(values)
	if err != nil {
		return err
	}

	// pdfcpu's fill API consumes the field values as a form JSON file.
	tmp, err := os.CreateTemp("", "bdc-form-*.json")
	if err != nil {
		return fmt.Errorf("failed to create form payload: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write form payload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write form payload: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := api.FillFormFile(templatePath, tmp.Name(), outputPath, f.conf); err != nil {
		return fmt.Errorf("failed to fill form: %w", err)
	}

	return nil
}

// marshalForm renders field values as pdfcpu form JSON. Order inside each
// widget list does not matter to pdfcpu; fields are matched by name.
func marshalForm(values FieldValues) ([]byte, error) {
	entry := formEntry{}
	for name, value := range values.Text {
		entry.TextFields = append(entry.TextFields, textField{Name: name, Value: value})
	}
	for name, checked := range values.Checkbox {
		entry.Checkboxes = append(entry.Checkboxes, checkBox{Name: name, Value: checked})
	}

	data, err := json.Marshal(formJSON{Forms: []formEntry{entry}})
	if err != nil {
		return nil, fmt.Errorf("failed to encode form payload: %w", err)
	}
	return data, nil
}
