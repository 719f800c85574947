package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixShape   = "shape"
	PrefixSession = "draw"
	PrefixUser    = "user"
	PrefixOp      = "op"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewShapeID() string   { return New(PrefixShape) }
func NewSessionID() string { return New(PrefixSession) }
func NewUserID() string    { return New(PrefixUser) }
func NewOpID() string      { return New(PrefixOp) }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
