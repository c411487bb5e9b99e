package structure

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// cartoonSampling is PyMOL's cartoon_sampling, higher gives smoother ribbons and more edges
const cartoonSampling = 3

// cartoonName returns the cache file name for a structure stem and optional chain
func cartoonName(stem, chain string) string {
	if chain == "" {
		return stem + ".obj"
	}
	return stem + "_" + strings.ToUpper(chain) + ".obj"
}

// pymolPath quotes a path for a PyMOL command argument
// PyMOL has no escape syntax, so a path holding a double quote gets single quotes
func pymolPath(p string) string {
	p = filepath.ToSlash(p)
	if strings.Contains(p, `"`) {
		return "'" + p + "'"
	}
	return `"` + p + `"`
}

// cartoonScript builds the PyMOL command script that loads src and saves its cartoon to out
func cartoonScript(src, chain, out string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "load %s\n", pymolPath(src))
	if chain != "" {
		fmt.Fprintf(&b, "select sel, chain %s\n", strings.ToUpper(chain))
		b.WriteString("hide everything\n")
		b.WriteString("show cartoon, sel\n")
	} else {
		b.WriteString("hide everything\n")
		b.WriteString("show cartoon\n")
	}
	fmt.Fprintf(&b, "set cartoon_sampling, %d\n", cartoonSampling)
	fmt.Fprintf(&b, "save %s\n", pymolPath(out))
	b.WriteString("quit\n")
	return b.String()
}

// localStem names the cache entry of a local structure file
// The hash of the absolute path keeps same-named files from different directories apart
func localStem(abs string) string {
	sum := sha256.Sum256([]byte(abs))
	base := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	return "local_" + base + "_" + hex.EncodeToString(sum[:4])
}

// ExportCartoon runs PyMOL headless over a structure file and returns the written OBJ path
// Local files are prefixed "local_" in the cache so they never collide with PDB IDs
func (c *Client) ExportCartoon(ctx context.Context, src, chain string) (string, error) {
	abs, err := filepath.Abs(src)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", src, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("structure file: %w", err)
	}
	return c.export(ctx, abs, localStem(abs), chain)
}

// export produces the cartoon for stem, the caller picks the cache stem
// Concurrent exports of the same output share one PyMOL run
func (c *Client) export(ctx context.Context, src, stem, chain string) (string, error) {
	out := filepath.Join(c.CacheDir, cartoonName(stem, chain))
	v, err, _ := c.flight.Do("export:"+out, func() (any, error) {
		return c.runPyMOL(ctx, src, chain, out)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// runPyMOL writes a private script and output, then renames the output into place
func (c *Client) runPyMOL(ctx context.Context, src, chain, out string) (string, error) {
	bin, err := exec.LookPath(c.PyMOL)
	if err != nil {
		return "", ErrPyMOLMissing
	}
	if err := c.ensureCache(); err != nil {
		return "", err
	}

	tmpOut, err := os.CreateTemp(c.CacheDir, "export_*.obj")
	if err != nil {
		return "", fmt.Errorf("create temp cartoon: %w", err)
	}
	tmpOut.Close()
	defer os.Remove(tmpOut.Name())

	script, err := os.CreateTemp(c.CacheDir, "export_*.pml")
	if err != nil {
		return "", fmt.Errorf("create PyMOL script: %w", err)
	}
	defer os.Remove(script.Name())
	_, werr := script.WriteString(cartoonScript(src, chain, tmpOut.Name()))
	if cerr := script.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return "", fmt.Errorf("write PyMOL script: %w", werr)
	}

	c.logf("generating cartoon for %s with PyMOL", filepath.Base(src))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-cq", script.Name())
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("PyMOL failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	if fi, err := os.Stat(tmpOut.Name()); err != nil || fi.Size() == 0 {
		return "", fmt.Errorf("%w for %s (check the ID or chain)", ErrNoCartoon, filepath.Base(src))
	}
	if err := os.Rename(tmpOut.Name(), out); err != nil {
		return "", fmt.Errorf("finalize cartoon: %w", err)
	}
	return out, nil
}
