package structure

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// InputKind classifies a command line input
type InputKind uint8

const (
	KindOBJ       InputKind = iota // ready-made wireframe
	KindStructure                  // local .pdb/.cif or other path, needs export
	KindID                         // PDB ID, needs download and export
)

// Classify decides how an input is resolved
func Classify(input string) InputKind {
	lower := strings.ToLower(input)
	switch {
	case strings.HasSuffix(lower, ".obj"):
		return KindOBJ
	case strings.HasSuffix(lower, ".pdb"), strings.HasSuffix(lower, ".cif"),
		strings.ContainsAny(input, `/\`):
		return KindStructure
	default:
		return KindID
	}
}

// Resolve returns the path of an OBJ wireframe for input, producing it if needed
// Chain, when set, restricts the cartoon to that chain
func (c *Client) Resolve(ctx context.Context, input, chain string) (string, error) {
	switch Classify(input) {
	case KindOBJ:
		if _, err := os.Stat(input); err != nil {
			return "", fmt.Errorf("model file: %w", err)
		}
		return input, nil

	case KindStructure:
		return c.ExportCartoon(ctx, input, chain)
	}

	if !IsPDBID(input) {
		return "", fmt.Errorf("%w: %q is neither a file nor a 4 character ID", ErrInvalidID, input)
	}
	id := strings.ToUpper(input)

	cached := filepath.Join(c.CacheDir, cartoonName(id, chain))
	if fi, err := os.Stat(cached); err == nil && fi.Size() > 0 {
		c.logf("using cached structure %s", cached)
		return cached, nil
	}

	cif, err := c.Download(ctx, id)
	if err != nil {
		return "", err
	}
	return c.export(ctx, cif, id, chain)
}
