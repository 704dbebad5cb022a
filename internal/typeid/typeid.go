package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixBoard    = "board"
	PrefixShape    = "shape"
	PrefixSnapshot = "snap"
	PrefixOp       = "op"
	PrefixAsset    = "asset"
	PrefixClient   = "client"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewBoardID() string    { return New(PrefixBoard) }
func NewShapeID() string    { return New(PrefixShape) }
func NewSnapshotID() string { return New(PrefixSnapshot) }
func NewOpID() string       { return New(PrefixOp) }
func NewAssetID() string    { return New(PrefixAsset) }
func NewClientID() string   { return New(PrefixClient) }

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
