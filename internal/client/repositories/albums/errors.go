package albums

// StoreError reports a failed local read or write.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "failed to " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
