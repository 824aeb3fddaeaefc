package history

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aescanero/scicalc/internal/calcerr"
	"github.com/aescanero/scicalc/internal/engine"
)

func TestEntryFor(t *testing.T) {
	res := engine.Result{Operator: "+", Kind: engine.ResultNumber, Number: 5}
	assert.Equal(t, Entry{Operation: "2 + 3", Operator: "+", Outcome: OutcomeOK, Result: "5"},
		EntryFor("2 + 3", res, nil))

	err := calcerr.New(calcerr.KindDivisionByZero, "/", "division by zero")
	assert.Equal(t, Entry{Operation: "1 / 0", Outcome: "DivisionByZeroError", Result: "/: division by zero"},
		EntryFor("1 / 0", engine.Result{}, err))

	assert.Equal(t, Entry{Operation: "x", Outcome: "UnexpectedError", Result: "boom"},
		EntryFor("x", engine.Result{}, errors.New("boom")))
}
