package exception

import "fmt"

type MalformedChangesetError struct {
	*AppError
}

func NewMalformedChangesetError(message string) *MalformedChangesetError {
	return &MalformedChangesetError{
		AppError: &AppError{
			Code:    "MALFORMED_CHANGESET",
			Message: message,
		},
	}
}

type UnsupportedFormatError struct {
	*AppError
	Version int
}

func NewUnsupportedFormatError(version int) *UnsupportedFormatError {
	return &UnsupportedFormatError{
		AppError: &AppError{
			Code:    "UNSUPPORTED_FORMAT",
			Message: fmt.Sprintf("no codec for format version %d", version),
		},
		Version: version,
	}
}

type RevisionNotFoundError struct {
	*AppError
	Revision string
}

func NewRevisionNotFoundError(revision string) *RevisionNotFoundError {
	return &RevisionNotFoundError{
		AppError: &AppError{
			Code:    "REVISION_NOT_FOUND",
			Message: fmt.Sprintf("revision '%s' does not exist", revision),
		},
		Revision: revision,
	}
}
