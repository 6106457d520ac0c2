package services

import "errors"

var (
	ErrNotFound = errors.New("document not found")

	ErrNotMember   = errors.New("user is not a member of this shared project")
	ErrNotOwner    = errors.New("only the owner can do this")
	ErrUnavailable = errors.New("operation not supported by this store")
)

// validationError marks failures caused by caller input. They are reported
// before any write happens.
type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }

func newValidation(msg string) error { return &validationError{msg: msg} }

var (
	ErrTitleRequired        = newValidation("title is required")
	ErrNameRequired         = newValidation("display name is required")
	ErrOwnerMustHandOff     = newValidation("the owner must choose a new owner or delete the shared project")
	ErrMembersRemain        = newValidation("other members remain; hand off ownership instead")
	ErrNoOtherMembers       = newValidation("no other member can take over ownership")
	ErrNewOwnerRequired     = newValidation("select a new owner")
	ErrNewOwnerNotMember    = newValidation("the selected member was not found")
	ErrConfirmationRequired = newValidation("this action must be confirmed")
	ErrGoalNotFound         = newValidation("goal not found")
	ErrTaskNotFound         = newValidation("task not found")
	ErrIssueNotFound        = newValidation("issue not found")
	ErrRoutineNotFound      = newValidation("routine not found")
	ErrInvalidStatus        = newValidation("invalid issue status")
	ErrInvalidHours         = newValidation("hours must be a finite number >= 0")
	ErrSharedShortcut       = newValidation("this project is a shortcut; edit the shared project instead")
	ErrUnsupportedAvatar    = newValidation("avatar must be a png, jpeg, gif or webp image up to 5 MiB")
)

// IsValidation reports whether err was caused by invalid input.
func IsValidation(err error) bool {
	var v *validationError
	return errors.As(err, &v)
}
