package history

import (
	"github.com/aescanero/scicalc/internal/calcerr"
	"github.com/aescanero/scicalc/internal/engine"
)

// EntryFor builds the entry recording one evaluation of operation. A failed
// evaluation stores the error kind as its outcome and the message as its result.
func EntryFor(operation string, res engine.Result, err error) Entry {
	if err != nil {
		return Entry{
			Operation: operation,
			Operator:  res.Operator,
			Outcome:   calcerr.KindOf(err).String(),
			Result:    err.Error(),
		}
	}
	return Entry{
		Operation: operation,
		Operator:  res.Operator,
		Outcome:   OutcomeOK,
		Result:    res.String(),
	}
}
