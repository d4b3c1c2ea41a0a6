package jira

import "errors"

var (
	ErrTransitionNotFound = errors.New("no transition with that name")
	ErrUserNotFound       = errors.New("no user matched the search")
)
