package cel

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"
)

// OperandVar is the name under which operand values are exposed to conditions
const OperandVar = "op"

// Evaluator compiles CEL conditions over operand values
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates a new CEL evaluator
func NewEvaluator() *Evaluator {
	env, err := cel.NewEnv(
		cel.Variable(OperandVar, cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		panic(fmt.Sprintf("failed to create CEL environment: %v", err))
	}

	return &Evaluator{env: env}
}

// Condition is a compiled boolean condition, safe for concurrent use
type Condition struct {
	expression string
	program    cel.Program
}

// Compile parses and checks expression. Its result type must be bool, or
// dyn when it only reads operand values.
func (e *Evaluator) Compile(expression string) (*Condition, error) {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("parse error: %w", issues.Err())
	}

	out := ast.OutputType()
	if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("condition %q has type %s, want bool", expression, out)
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program generation error: %w", err)
	}

	return &Condition{expression: expression, program: program}, nil
}

// String returns the condition source
func (c *Condition) String() string {
	return c.expression
}

// Eval evaluates the condition with vars bound to the operand variable
func (c *Condition) Eval(ctx context.Context, vars map[string]interface{}) (bool, error) {
	out, _, err := c.program.ContextEval(ctx, map[string]interface{}{OperandVar: vars})
	if err != nil {
		return false, fmt.Errorf("evaluation failed: %w", err)
	}

	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("condition %q returned %T, not bool", c.expression, out.Value())
	}
	return matched, nil
}
