package kinds

import (
	"fmt"
	"sync"

	"github.com/arthur-debert/gffrules/pkg/rules"
	"github.com/arthur-debert/gffrules/pkg/types"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ValidIf accepts a record when its condition holds. The condition is an
// expr expression over tag, attrs and captures; a false result or an
// evaluation error marks the record invalid.
type ValidIf struct {
	base
	mu       sync.Mutex
	programs map[string]*vm.Program
}

func NewValidIf() *ValidIf {
	return &ValidIf{
		base:     base{name: ValidIfName},
		programs: make(map[string]*vm.Program),
	}
}

func conditionEnv(rec *types.Record, caps rules.Captures) map[string]interface{} {
	if caps == nil {
		caps = rules.Captures{}
	}
	return map[string]interface{}{
		"tag":      rec.Tag(),
		"attrs":    rec.Attrs(),
		"captures": map[string]string(caps),
	}
}

// compile caches one program per condition text
func (k *ValidIf) compile(cond string) (*vm.Program, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if prg, ok := k.programs[cond]; ok {
		return prg, nil
	}
	env := map[string]interface{}{
		"tag":      "",
		"attrs":    map[string]string{},
		"captures": map[string]string{},
	}
	prg, err := expr.Compile(cond, expr.Env(env), expr.AsBool())
	if err != nil {
		return nil, err
	}
	k.programs[cond] = prg
	return prg, nil
}

func (k *ValidIf) Apply(rec *types.Record, rule rules.Definition, caps rules.Captures) error {
	note(rec, rule)

	cond := rule.Blob()
	if cond == "" {
		rec.MarkInvalid(fmt.Sprintf("validif at line %d has no condition", rule.Line))
		return nil
	}

	prg, err := k.compile(cond)
	if err != nil {
		rec.MarkInvalid(fmt.Sprintf("validif at line %d: %v", rule.Line, err))
		return nil
	}

	out, err := expr.Run(prg, conditionEnv(rec, caps))
	if err != nil {
		rec.MarkInvalid(fmt.Sprintf("validif at line %d: %v", rule.Line, err))
		return nil
	}
	if ok, _ := out.(bool); ok {
		rec.MarkValid()
		return nil
	}
	rec.MarkInvalid(fmt.Sprintf("condition %q at line %d does not hold", cond, rule.Line))
	return nil
}
