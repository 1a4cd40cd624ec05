package blog

import "fmt"

// StorageError reports a failed storage call: the database could not be
// opened, the posts table is missing, a statement failed, or a row could not
// be decoded.
type StorageError struct {
	Op  string // "insert" or "list"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("blog storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// DecodeError reports a row that does not have the shape of a Post.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode post row: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
