package evidence

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed bundle.schema.json
var bundleSchema []byte

var (
	compiledSchema *gojsonschema.Schema
	schemaErr      error
	schemaOnce     sync.Once
)

func schema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(bundleSchema))
	})
	return compiledSchema, schemaErr
}

// LintError lists every schema violation found in a bundle.
type LintError struct {
	Problems []string
}

func (e *LintError) Error() string {
	return fmt.Sprintf("evidence bundle does not match schema: %s", strings.Join(e.Problems, "; "))
}

// Lint checks raw bundle bytes against the bundle schema. It is an operator
// aid only; the site keeps serving bundles that fail it.
func Lint(raw []byte) error {
	sch, err := schema()
	if err != nil {
		return fmt.Errorf("compile bundle schema: %w", err)
	}
	result, err := sch.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("validate bundle: %w", err)
	}
	if result.Valid() {
		return nil
	}
	lintErr := &LintError{}
	for _, re := range result.Errors() {
		lintErr.Problems = append(lintErr.Problems, re.String())
	}
	return lintErr
}
