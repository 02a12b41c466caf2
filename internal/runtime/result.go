package runtime

import (
	"encoding/json"
	"fmt"
)

// ResultKind enumerates how an action handler concluded.
type ResultKind string

const (
	ResultSuccess      ResultKind = "Success"
	ResultError        ResultKind = "Error"
	ResultNeedsInput   ResultKind = "NeedsInput"
	ResultOpenSettings ResultKind = "OpenSettings"
	ResultQuit         ResultKind = "Quit"
)

// Result is what an action handler reports back to the embedding host.
type Result struct {
	Kind    ResultKind
	Message string
}

func Success() Result { return Result{Kind: ResultSuccess} }

func Errorf(format string, args ...any) Result {
	return Result{Kind: ResultError, Message: fmt.Sprintf(format, args...)}
}

func NeedsInput(prompt string) Result { return Result{Kind: ResultNeedsInput, Message: prompt} }

func OpenSettings() Result { return Result{Kind: ResultOpenSettings} }

func Quit() Result { return Result{Kind: ResultQuit} }

type resultWire struct {
	Result  ResultKind `json:"result"`
	Message string     `json:"message,omitempty"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	kind := r.Kind
	if kind == "" {
		kind = ResultSuccess
	}
	return json.Marshal(resultWire{Result: kind, Message: r.Message})
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var w resultWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Result {
	case ResultSuccess, ResultError, ResultNeedsInput, ResultOpenSettings, ResultQuit:
	default:
		return fmt.Errorf("unknown result kind %q", w.Result)
	}
	r.Kind = w.Result
	r.Message = w.Message
	return nil
}
