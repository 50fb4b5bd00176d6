package results

// OperationResult carries either a success payload or a domain failure.
// Infrastructure errors travel separately as a plain error.
type OperationResult[S any, F any] struct {
	Success *S
	Failure *F
}

// SuccessResult wraps a success payload.
func SuccessResult[S any, F any](success S) OperationResult[S, F] {
	return OperationResult[S, F]{Success: &success}
}

// FailureResult wraps a domain failure.
func FailureResult[S any, F any](failure F) OperationResult[S, F] {
	return OperationResult[S, F]{Failure: &failure}
}

func (r OperationResult[S, F]) IsSuccess() bool {
	return r.Success != nil
}

func (r OperationResult[S, F]) IsFailure() bool {
	return r.Failure != nil
}
