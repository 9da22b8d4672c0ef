package rules

import "errors"

var (
	ErrInvalidRuleFile = errors.New("invalid rule file")
	ErrBadPattern      = errors.New("pattern does not compile")
)
