package parser

import (
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"scenario-hq/criterion/pkg/condition"
	"scenario-hq/criterion/pkg/entity"
	"scenario-hq/criterion/pkg/expression"
	"scenario-hq/criterion/pkg/intersection"
	sdlerrors "scenario-hq/criterion/pkg/sdl/errors"
	"scenario-hq/criterion/pkg/simulator"
)

// builder walks a scenario yaml.Node tree and assembles the runtime
// objects: entity registry, intersection controllers, and the success
// and failure criteria trees. All problems are collected into an
// ErrorList so a single pass reports everything wrong with a file.
type builder struct {
	sourcePath string
	registry   *condition.Registry
	api        simulator.API
	logger     *slog.Logger
	maxDepth   int
	errors     *sdlerrors.ErrorList

	entities      *entity.Registry
	intersections *intersection.Registry
}

func newBuilder(sourcePath string, registry *condition.Registry, api simulator.API, logger *slog.Logger, maxDepth int) *builder {
	return &builder{
		sourcePath:    sourcePath,
		registry:      registry,
		api:           api,
		logger:        logger,
		maxDepth:      maxDepth,
		errors:        sdlerrors.NewErrorList(),
		intersections: intersection.NewRegistry(),
	}
}

// build assembles a Scenario from the document root.
func (b *builder) build(root *yaml.Node) (*Scenario, error) {
	scenarioNode := mapValue(root, "Scenario")
	if scenarioNode == nil {
		b.errors.AddErrorWithSuggestion(
			sdlerrors.ErrorTypeStructural,
			"document must have a top-level 'Scenario' key",
			location(root, b.sourcePath),
			sdlerrors.SuggestMissingKey("Scenario", "{...}"),
		)
		return nil, b.errors.ToError()
	}

	if entityNode := mapValue(scenarioNode, "Entity"); entityNode != nil {
		b.buildEntities(entityNode)
	}
	if intersectionNode := mapValue(scenarioNode, "Intersection"); intersectionNode != nil {
		b.buildIntersections(intersectionNode)
	}

	sc := &Scenario{
		Entities:      b.entities,
		Intersections: b.intersections,
	}

	if conditionNode := mapValue(scenarioNode, "Condition"); conditionNode != nil {
		if successNode := mapValue(conditionNode, "Success"); successNode != nil {
			sc.Success = b.buildExpression(successNode, 0)
		}
		if failureNode := mapValue(conditionNode, "Failure"); failureNode != nil {
			sc.Failure = b.buildExpression(failureNode, 0)
		}
	}

	if b.errors.HasErrors() {
		return nil, b.errors.ToError()
	}
	return sc, nil
}

// buildEntities populates the entity registry from the optional
// Entity block (Ego: <name>, Npcs: [<name>*]).
func (b *builder) buildEntities(node *yaml.Node) {
	b.entities = entity.NewRegistry()

	if egoNode := mapValue(node, "Ego"); egoNode != nil {
		name, err := scalarString(egoNode)
		if err != nil {
			b.errors.AddError(sdlerrors.ErrorTypeStructural,
				"'Ego' must be an entity name", location(egoNode, b.sourcePath))
		} else if addErr := b.entities.Add(entity.Entity{Name: name, Kind: entity.KindEgo}); addErr != nil {
			b.errors.AddError(sdlerrors.ErrorTypeConfiguration,
				addErr.Error(), location(egoNode, b.sourcePath))
		}
	}

	if npcNode := mapValue(node, "Npcs"); npcNode != nil {
		items, ok := sequence(npcNode)
		if !ok {
			b.errors.AddError(sdlerrors.ErrorTypeStructural,
				"'Npcs' must be a sequence of entity names", location(npcNode, b.sourcePath))
			return
		}
		for _, item := range items {
			name, err := scalarString(item)
			if err != nil {
				b.errors.AddError(sdlerrors.ErrorTypeStructural,
					"NPC entry must be an entity name", location(item, b.sourcePath))
				continue
			}
			if addErr := b.entities.Add(entity.Entity{Name: name, Kind: entity.KindNPC}); addErr != nil {
				b.errors.AddError(sdlerrors.ErrorTypeConfiguration,
					addErr.Error(), location(item, b.sourcePath))
			}
		}
	}
}

// buildIntersections constructs one controller per Intersection entry.
func (b *builder) buildIntersections(node *yaml.Node) {
	items, ok := sequence(node)
	if !ok {
		b.errors.AddError(sdlerrors.ErrorTypeStructural,
			"'Intersection' must be a sequence of intersection declarations",
			location(node, b.sourcePath))
		return
	}

	for _, item := range items {
		cfg, ok := b.buildIntersectionConfig(item)
		if !ok {
			continue
		}
		controller, err := intersection.NewController(cfg, b.api, b.logger)
		if err != nil {
			b.errors.AddError(sdlerrors.ErrorTypeConfiguration,
				err.Error(), location(item, b.sourcePath))
			continue
		}
		if err := b.intersections.Add(controller); err != nil {
			b.errors.AddError(sdlerrors.ErrorTypeConfiguration,
				err.Error(), location(item, b.sourcePath))
		}
	}
}

func (b *builder) buildIntersectionConfig(node *yaml.Node) (intersection.Config, bool) {
	var cfg intersection.Config
	ok := true

	nameNode := mapValue(node, "Name")
	if nameNode == nil {
		b.errors.AddErrorWithSuggestion(sdlerrors.ErrorTypeStructural,
			"intersection declaration missing 'Name'",
			location(node, b.sourcePath),
			sdlerrors.SuggestMissingKey("Name", "crossing"))
		ok = false
	} else if name, err := scalarString(nameNode); err != nil {
		b.errors.AddError(sdlerrors.ErrorTypeStructural,
			"'Name' must be a string", location(nameNode, b.sourcePath))
		ok = false
	} else {
		cfg.Name = name
	}

	if initialNode := mapValue(node, "Initial"); initialNode != nil {
		initial, err := scalarString(initialNode)
		if err != nil {
			b.errors.AddError(sdlerrors.ErrorTypeStructural,
				"'Initial' must be a state name", location(initialNode, b.sourcePath))
			ok = false
		} else {
			cfg.Initial = initial
		}
	}

	controlNode := mapValue(node, "Control")
	if controlNode == nil {
		b.errors.AddErrorWithSuggestion(sdlerrors.ErrorTypeStructural,
			fmt.Sprintf("intersection %q missing 'Control' states", cfg.Name),
			location(node, b.sourcePath),
			sdlerrors.SuggestMissingKey("Control", "[{State: ..., TrafficLight: [...]}]"))
		return cfg, false
	}

	states, sok := sequence(controlNode)
	if !sok {
		b.errors.AddError(sdlerrors.ErrorTypeStructural,
			"'Control' must be a sequence of state declarations",
			location(controlNode, b.sourcePath))
		return cfg, false
	}

	cfg.States = make(map[string][]intersection.Signal, len(states))
	for _, stateNode := range states {
		name, signals, stok := b.buildControlState(stateNode)
		if !stok {
			ok = false
			continue
		}
		if _, dup := cfg.States[name]; dup {
			b.errors.AddError(sdlerrors.ErrorTypeConfiguration,
				fmt.Sprintf("state %q declared more than once", name),
				location(stateNode, b.sourcePath))
			ok = false
			continue
		}
		cfg.States[name] = signals
	}
	return cfg, ok
}

func (b *builder) buildControlState(node *yaml.Node) (string, []intersection.Signal, bool) {
	stateNode := mapValue(node, "State")
	if stateNode == nil {
		b.errors.AddError(sdlerrors.ErrorTypeStructural,
			"control entry missing 'State'", location(node, b.sourcePath))
		return "", nil, false
	}
	name, err := scalarString(stateNode)
	if err != nil {
		b.errors.AddError(sdlerrors.ErrorTypeStructural,
			"'State' must be a string", location(stateNode, b.sourcePath))
		return "", nil, false
	}

	lightsNode := mapValue(node, "TrafficLight")
	if lightsNode == nil {
		// A state with no signal assignments is legal: every signal
		// goes blank when it is entered.
		return name, nil, true
	}
	lights, ok := sequence(lightsNode)
	if !ok {
		b.errors.AddError(sdlerrors.ErrorTypeStructural,
			"'TrafficLight' must be a sequence", location(lightsNode, b.sourcePath))
		return name, nil, false
	}

	signals := make([]intersection.Signal, 0, len(lights))
	good := true
	for _, lightNode := range lights {
		signal, sok := b.buildSignal(lightNode)
		if !sok {
			good = false
			continue
		}
		signals = append(signals, signal)
	}
	return name, signals, good
}

func (b *builder) buildSignal(node *yaml.Node) (intersection.Signal, bool) {
	var signal intersection.Signal

	idNode := mapValue(node, "Id")
	if idNode == nil {
		b.errors.AddError(sdlerrors.ErrorTypeStructural,
			"traffic light entry missing 'Id'", location(node, b.sourcePath))
		return signal, false
	}
	id, err := scalarInt(idNode)
	if err != nil {
		b.errors.AddError(sdlerrors.ErrorTypeStructural,
			"'Id' must be an integer signal ID", location(idNode, b.sourcePath))
		return signal, false
	}
	signal.ID = id

	if colorNode := mapValue(node, "Color"); colorNode != nil {
		raw, err := scalarString(colorNode)
		if err != nil {
			b.errors.AddError(sdlerrors.ErrorTypeStructural,
				"'Color' must be a string", location(colorNode, b.sourcePath))
			return signal, false
		}
		color, err := intersection.ParseColor(raw)
		if err != nil {
			b.errors.AddError(sdlerrors.ErrorTypeConfiguration,
				err.Error(), location(colorNode, b.sourcePath))
			return signal, false
		}
		signal.Color = color
	}

	arrowsNode := mapValue(node, "Arrows")
	if arrowsNode == nil {
		if arrowNode := mapValue(node, "Arrow"); arrowNode != nil {
			// Singular form kept for older scenario files.
			b.logger.Warn("'Arrow' is deprecated, use 'Arrows'",
				slog.String("file", b.sourcePath),
				slog.Int("line", arrowNode.Line))
			arrowsNode = arrowNode
		}
	}
	if arrowsNode != nil {
		raws, ok := arrowStrings(arrowsNode)
		if !ok {
			b.errors.AddError(sdlerrors.ErrorTypeStructural,
				"'Arrows' must be an arrow name or a sequence of arrow names",
				location(arrowsNode, b.sourcePath))
			return signal, false
		}
		for _, raw := range raws {
			arrow, err := intersection.ParseArrow(raw)
			if err != nil {
				b.errors.AddError(sdlerrors.ErrorTypeConfiguration,
					err.Error(), location(arrowsNode, b.sourcePath))
				return signal, false
			}
			if arrow != intersection.ArrowBlank {
				signal.Arrows = append(signal.Arrows, arrow)
			}
		}
	}
	return signal, true
}

// arrowStrings accepts both a bare scalar and a sequence of scalars.
func arrowStrings(node *yaml.Node) ([]string, bool) {
	if items, ok := sequence(node); ok {
		raws := make([]string, 0, len(items))
		for _, item := range items {
			raw, err := scalarString(item)
			if err != nil {
				return nil, false
			}
			raws = append(raws, raw)
		}
		return raws, true
	}
	raw, err := scalarString(node)
	if err != nil {
		return nil, false
	}
	return []string{raw}, true
}

// buildExpression recursively constructs a criteria tree. Combinator
// keys (All, Any, Not) recurse; any other mapping is a procedure leaf
// dispatched through the module registry by its Type key. A bare
// scalar boolean becomes a literal, and a bare sequence is an
// implicit All.
func (b *builder) buildExpression(node *yaml.Node, depth int) expression.Expression {
	if depth > b.maxDepth {
		b.errors.AddError(sdlerrors.ErrorTypeStructural,
			fmt.Sprintf("criteria tree exceeds maximum nesting depth %d", b.maxDepth),
			location(node, b.sourcePath))
		return expression.Expression{}
	}

	node = deref(node)
	switch node.Kind {
	case yaml.ScalarNode:
		var value bool
		if err := node.Decode(&value); err != nil {
			b.errors.AddError(sdlerrors.ErrorTypeStructural,
				"criteria leaf must be a boolean or a mapping",
				location(node, b.sourcePath))
			return expression.Expression{}
		}
		return expression.Boolean(value)

	case yaml.SequenceNode:
		return expression.NewAll(b.buildOperands(node, depth)...)

	case yaml.MappingNode:
		keys := mapKeys(node)
		if len(keys) == 1 {
			switch keys[0] {
			case "All":
				return expression.NewAll(b.buildOperands(mapValue(node, "All"), depth)...)
			case "Any":
				return expression.NewAny(b.buildOperands(mapValue(node, "Any"), depth)...)
			case "Not":
				return b.buildNot(mapValue(node, "Not"), depth)
			}
		}
		return b.buildProcedure(node)

	default:
		b.errors.AddError(sdlerrors.ErrorTypeStructural,
			"unsupported criteria node", location(node, b.sourcePath))
		return expression.Expression{}
	}
}

func (b *builder) buildOperands(node *yaml.Node, depth int) []expression.Expression {
	items, ok := sequence(node)
	if !ok {
		b.errors.AddError(sdlerrors.ErrorTypeStructural,
			"combinator operands must be a sequence", location(node, b.sourcePath))
		return nil
	}
	operands := make([]expression.Expression, 0, len(items))
	for _, item := range items {
		operands = append(operands, b.buildExpression(item, depth+1))
	}
	return operands
}

func (b *builder) buildNot(node *yaml.Node, depth int) expression.Expression {
	if items, ok := sequence(node); ok {
		if len(items) != 1 {
			b.errors.AddError(sdlerrors.ErrorTypeStructural,
				fmt.Sprintf("'Not' takes exactly one operand, got %d", len(items)),
				location(node, b.sourcePath))
			return expression.Expression{}
		}
		return expression.NewNot(b.buildExpression(items[0], depth+1))
	}
	return expression.NewNot(b.buildExpression(node, depth+1))
}

// buildProcedure resolves a Type leaf through the module registry,
// configures the module from the mapping payload, and validates any
// collaborator references against what the scenario declares.
func (b *builder) buildProcedure(node *yaml.Node) expression.Expression {
	typeNode := mapValue(node, "Type")
	if typeNode == nil {
		b.errors.AddErrorWithSuggestion(sdlerrors.ErrorTypeStructural,
			"criteria leaf missing 'Type'",
			location(node, b.sourcePath),
			sdlerrors.SuggestMissingKey("Type", "Timeout"))
		return expression.Expression{}
	}
	typeName, err := scalarString(typeNode)
	if err != nil {
		b.errors.AddError(sdlerrors.ErrorTypeStructural,
			"'Type' must be a string", location(typeNode, b.sourcePath))
		return expression.Expression{}
	}

	module, err := b.registry.ResolveType(typeName)
	if err != nil {
		b.errors.AddErrorWithSuggestion(sdlerrors.ErrorTypeConfiguration,
			err.Error(),
			location(typeNode, b.sourcePath),
			sdlerrors.SuggestTypeName(typeName, b.registry.DeclaredNames()))
		return expression.Expression{}
	}

	payload, err := decodePayload(node)
	if err != nil {
		b.errors.AddError(sdlerrors.ErrorTypeStructural,
			err.Error(), location(node, b.sourcePath))
		return expression.Expression{}
	}
	if err := module.Configure(payload, b.api); err != nil {
		b.errors.AddError(sdlerrors.ErrorTypeConfiguration,
			fmt.Sprintf("%s: %v", typeName, err), location(node, b.sourcePath))
		return expression.Expression{}
	}

	if validator, ok := module.(condition.Validator); ok {
		ctx := expression.NewContext(b.api, b.entities, b.intersections)
		if err := validator.Validate(ctx); err != nil {
			b.errors.AddError(sdlerrors.ErrorTypeConfiguration,
				fmt.Sprintf("%s: %v", typeName, err), location(node, b.sourcePath))
			return expression.Expression{}
		}
	}

	return expression.NewProcedure(module)
}
