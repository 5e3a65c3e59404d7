package quiz

import "fmt"

// MalformedError means the candidate text could not be parsed as a JSON
// array of objects even after normalization. Raw carries the original model
// output for diagnosis.
type MalformedError struct {
	Raw string
	Err error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("quiz: malformed model output: %v", e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// InvalidQuestionError means one element of the parsed array violates the
// Question constraints. The whole batch is rejected; bad questions are never
// silently dropped.
type InvalidQuestionError struct {
	Index  int
	Reason string
}

func (e *InvalidQuestionError) Error() string {
	return fmt.Sprintf("quiz: question %d is invalid: %s", e.Index, e.Reason)
}
