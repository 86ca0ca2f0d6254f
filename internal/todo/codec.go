package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/ticklist/internal/utils"
)

//go:embed task.schema.json
var taskListSchema []byte

const schemaURL = "task-list.schema.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, bytes.NewReader(taskListSchema)); err != nil {
		return nil, fmt.Errorf("add task list schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile task list schema: %w", err)
	}
	return schema, nil
})

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dotted path to the error location, e.g. [0].dueDate
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Encode serializes tasks as a compact JSON array. A nil slice encodes as [].
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return data, nil
}

// Decode parses and validates a JSON task array.
// Any mismatch with the expected shape is an error; the caller decides
// whether to fall back to an empty list.
func Decode(data []byte) ([]Task, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}

	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(raw); err != nil {
		return nil, schemaError(err)
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	for i := range tasks {
		if err := validateTaskMinimal(&tasks[i], fmt.Sprintf("[%d]", i)); err != nil {
			return nil, err
		}
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// validateTaskMinimal performs the checks the schema cannot express.
func validateTaskMinimal(task *Task, path string) *ValidationError {
	if task.ID == "" {
		return &ValidationError{
			Path: path + ".id",
			Err:  fmt.Errorf("missing required field"),
		}
	}
	if task.DueDate != nil && task.DueDate.IsZero() {
		return &ValidationError{
			Path: path + ".dueDate",
			Err:  fmt.Errorf("zero time"),
		}
	}
	return nil
}

// schemaError flattens a jsonschema error into the first leaf cause.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &ValidationError{
		Path: utils.JSONPointerToPath(ve.InstanceLocation),
		Err:  fmt.Errorf("%s", ve.Message),
	}
}

// dueOrNil returns a copy of the due date pointer so callers cannot alias it.
func dueOrNil(due *time.Time) *time.Time {
	if due == nil {
		return nil
	}
	d := *due
	return &d
}
