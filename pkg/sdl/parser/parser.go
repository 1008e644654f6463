package parser

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"scenario-hq/criterion/pkg/condition"
	"scenario-hq/criterion/pkg/entity"
	"scenario-hq/criterion/pkg/expression"
	"scenario-hq/criterion/pkg/intersection"
	"scenario-hq/criterion/pkg/sdl/ast"
	sdlerrors "scenario-hq/criterion/pkg/sdl/errors"
	"scenario-hq/criterion/pkg/simulator"
)

// Scenario is the runtime form of a scenario document: the declared
// collaborators plus the success and failure criteria trees. An
// omitted Success or Failure block leaves an empty tree, which never
// becomes true.
type Scenario struct {
	Entities      *entity.Registry
	Intersections *intersection.Registry
	Success       expression.Expression
	Failure       expression.Expression
}

// Context builds the evaluation context the criteria trees run
// against.
func (s *Scenario) Context(api simulator.API) *expression.Context {
	return expression.NewContext(api, s.Entities, s.Intersections)
}

// Parser parses scenario files into Scenario values. It handles YAML
// parsing, tree construction, module dispatch and configuration, and
// collaborator validation.
type Parser struct {
	registry *condition.Registry
	api      simulator.API
	logger   *slog.Logger

	maxFileSize int64 // maximum file size in bytes (default: 1MB)
	maxDepth    int   // maximum criteria nesting depth (default: 16)
}

// NewParser creates a parser with default limits. Procedure leaves are
// dispatched through the given module registry and configured against
// the given simulator connection.
func NewParser(registry *condition.Registry, api simulator.API, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		registry:    registry,
		api:         api,
		logger:      logger,
		maxFileSize: 1 * 1024 * 1024, // 1MB
		maxDepth:    16,
	}
}

// WithMaxFileSize sets the maximum file size limit.
func (p *Parser) WithMaxFileSize(size int64) *Parser {
	p.maxFileSize = size
	return p
}

// WithMaxDepth sets the maximum criteria nesting depth.
func (p *Parser) WithMaxDepth(depth int) *Parser {
	p.maxDepth = depth
	return p
}

// Parse parses the scenario file at the given path. It returns an
// error if the file cannot be read, has invalid YAML syntax, or
// declares anything the builder cannot construct.
func (p *Parser) Parse(path string) (*Scenario, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, &sdlerrors.Error{
			Type:     sdlerrors.ErrorTypeIO,
			Message:  fmt.Sprintf("Failed to access file: %v", err),
			Location: ast.Location{File: path},
		}
	}

	if fileInfo.Size() > p.maxFileSize {
		return nil, &sdlerrors.Error{
			Type:     sdlerrors.ErrorTypeIO,
			Message:  fmt.Sprintf("File size %d exceeds maximum %d bytes", fileInfo.Size(), p.maxFileSize),
			Location: ast.Location{File: path},
		}
	}

	root, err := parseYAMLFile(path)
	if err != nil {
		return nil, &sdlerrors.Error{
			Type:       sdlerrors.ErrorTypeSyntax,
			Message:    fmt.Sprintf("YAML parsing failed: %v", err),
			Location:   ast.Location{File: path, Line: 1},
			Suggestion: "Check YAML syntax (indentation, colons, quotes)",
		}
	}

	return p.build(root, path)
}

// ParseBytes parses scenario YAML from a byte slice. This is useful
// for testing or parsing scenarios held in memory.
func (p *Parser) ParseBytes(data []byte, sourcePath string) (*Scenario, error) {
	if int64(len(data)) > p.maxFileSize {
		return nil, &sdlerrors.Error{
			Type:     sdlerrors.ErrorTypeIO,
			Message:  fmt.Sprintf("Data size %d exceeds maximum %d bytes", len(data), p.maxFileSize),
			Location: ast.Location{File: sourcePath},
		}
	}

	root, err := parseYAMLBytes(data)
	if err != nil {
		return nil, &sdlerrors.Error{
			Type:       sdlerrors.ErrorTypeSyntax,
			Message:    fmt.Sprintf("YAML parsing failed: %v", err),
			Location:   ast.Location{File: sourcePath, Line: 1, Column: 1},
			Suggestion: "Check YAML syntax (indentation, colons, quotes)",
		}
	}

	return p.build(root, sourcePath)
}

func (p *Parser) build(root *yaml.Node, sourcePath string) (*Scenario, error) {
	b := newBuilder(sourcePath, p.registry, p.api, p.logger, p.maxDepth)
	scenario, err := b.build(root)
	if err != nil {
		// Attach source-line context so error output shows the
		// offending fragment.
		if errList, ok := err.(*sdlerrors.ErrorList); ok {
			for i, e := range errList.Errors {
				errList.Errors[i] = sdlerrors.AddContextToError(e)
			}
		}
		return nil, err
	}
	return scenario, nil
}
