package structure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c := NewClient(t.TempDir())
	c.Progress = false
	if srv != nil {
		c.HTTP = srv.Client()
		c.SearchURL = srv.URL + "/search"
		c.EntryURL = srv.URL + "/entry/"
		c.DownloadURL = srv.URL + "/download/"
	}
	return c
}

func TestIsPDBID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1ABC", true},
		{"4hhb", true},
		{"1AB", false},
		{"1ABCD", false},
		{"1A-C", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsPDBID(tt.in); got != tt.want {
			t.Errorf("IsPDBID(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		in   string
		want InputKind
	}{
		{"model.obj", KindOBJ},
		{"MODEL.OBJ", KindOBJ},
		{"protein.pdb", KindStructure},
		{"protein.cif", KindStructure},
		{"dir/protein", KindStructure},
		{`dir\protein`, KindStructure},
		{"1ABC", KindID},
	}
	for _, tt := range tests {
		if got := Classify(tt.in); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCartoonScript(t *testing.T) {
	if got := cartoonName("1ABC", ""); got != "1ABC.obj" {
		t.Errorf("cartoonName no chain = %q", got)
	}
	if got := cartoonName("1ABC", "b"); got != "1ABC_B.obj" {
		t.Errorf("cartoonName chain = %q", got)
	}

	s := cartoonScript("/tmp/x.cif", "a", "/cache/X_A.obj")
	want := "load \"/tmp/x.cif\"\nselect sel, chain A\nhide everything\nshow cartoon, sel\n" +
		"set cartoon_sampling, 3\nsave \"/cache/X_A.obj\"\nquit\n"
	if s != want {
		t.Errorf("cartoonScript =\n%s\nwant\n%s", s, want)
	}
	if s := cartoonScript("in.pdb", "", "out.obj"); !strings.Contains(s, "show cartoon\n") || strings.Contains(s, "select") {
		t.Errorf("cartoonScript without chain =\n%s", s)
	}

	tests := []struct {
		path, want string
	}{
		{"/my data/a b.pdb", `"/my data/a b.pdb"`},
		{`/odd/say "hi".pdb`, `'/odd/say "hi".pdb'`},
	}
	for _, tt := range tests {
		if got := pymolPath(tt.path); got != tt.want {
			t.Errorf("pymolPath(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestLocalStem(t *testing.T) {
	a := localStem("/one/protein.pdb")
	b := localStem("/two/protein.pdb")
	if a == b {
		t.Fatalf("same stem %q for different directories", a)
	}
	if !strings.HasPrefix(a, "local_protein_") || a != localStem("/one/protein.pdb") {
		t.Errorf("stem %q not stable or missing prefix", a)
	}
}

func TestCacheInfoAndClear(t *testing.T) {
	c := newTestClient(t, nil)

	// Missing directory is an empty cache
	c.CacheDir = filepath.Join(c.CacheDir, "missing")
	info, err := c.Info()
	if err != nil || info.Files != 0 {
		t.Fatalf("Info on missing dir = %+v, %v", info, err)
	}
	if n, err := c.Clear(); err != nil || n != 0 {
		t.Fatalf("Clear on missing dir = %d, %v", n, err)
	}

	if err := c.ensureCache(); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(c.CacheDir, "a.obj"), make([]byte, 100), 0o644)
	os.WriteFile(filepath.Join(c.CacheDir, "b.cif"), make([]byte, 50), 0o644)
	os.Mkdir(filepath.Join(c.CacheDir, "sub"), 0o755)

	info, err = c.Info()
	if err != nil {
		t.Fatal(err)
	}
	if info.Files != 2 || info.Bytes != 150 || info.Dir != c.CacheDir {
		t.Errorf("Info = %+v, want 2 files 150 bytes", info)
	}

	n, err := c.Clear()
	if err != nil || n != 2 {
		t.Errorf("Clear = %d, %v, want 2", n, err)
	}
	if _, err := os.Stat(filepath.Join(c.CacheDir, "sub")); err != nil {
		t.Errorf("Clear removed subdirectory: %v", err)
	}
	if info, _ := c.Info(); info.Files != 0 {
		t.Errorf("Info after Clear = %+v", info)
	}
}

func TestDownload(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/download/1ABC.cif" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("data_1ABC\n"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	path, err := c.Download(context.Background(), "1abc")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if filepath.Base(path) != "1ABC.cif" {
		t.Errorf("path = %s", path)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "data_1ABC\n" {
		t.Errorf("content = %q", data)
	}

	// Second call is served from cache
	if _, err := c.Download(context.Background(), "1ABC"); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1", hits.Load())
	}

	// No temp files left behind
	entries, _ := os.ReadDir(c.CacheDir)
	if len(entries) != 1 {
		t.Errorf("cache holds %d entries, want 1", len(entries))
	}
}

func TestDownloadErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	if _, err := c.Download(context.Background(), "9ZZZ"); !errors.Is(err, ErrBadStatus) {
		t.Errorf("404 err = %v, want ErrBadStatus", err)
	}
	if _, err := c.Download(context.Background(), "toolong"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("invalid id err = %v, want ErrInvalidID", err)
	}
	if _, err := os.Stat(filepath.Join(c.CacheDir, "9ZZZ.cif")); !os.IsNotExist(err) {
		t.Errorf("failed download left a cache file")
	}
}

func TestSearch(t *testing.T) {
	var gotQuery searchQuery
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/search":
			if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			json.NewDecoder(r.Body).Decode(&gotQuery)
			w.Write([]byte(`{"result_set":[{"identifier":"4HHB","score":1},{"identifier":"1abc","score":0.9},{"identifier":"BAD_ID","score":0.5}]}`))
		case r.URL.Path == "/entry/4HHB":
			w.Write([]byte(`{"struct":{"title":"HEMOGLOBIN"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	results, err := c.Search(context.Background(), `insulin "human"`)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotQuery.Query.Parameters.Value != `insulin "human"` {
		t.Errorf("query value = %q", gotQuery.Query.Parameters.Value)
	}
	if gotQuery.Query.Service != "full_text" || gotQuery.RequestOptions.Paginate.Rows != 10 {
		t.Errorf("query = %+v", gotQuery)
	}

	want := []Result{{"4HHB", "HEMOGLOBIN"}, {"1ABC", ""}}
	if len(results) != len(want) {
		t.Fatalf("results = %+v, want %+v", results, want)
	}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("results[%d] = %+v, want %+v", i, results[i], want[i])
		}
	}
}

func TestSearchEmptyAndFailure(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusNoContent)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	results, err := c.Search(context.Background(), "nothing")
	if err != nil || len(results) != 0 {
		t.Errorf("204 Search = %v, %v", results, err)
	}

	status.Store(http.StatusInternalServerError)
	if _, err := c.Search(context.Background(), "broken"); !errors.Is(err, ErrBadStatus) {
		t.Errorf("500 err = %v, want ErrBadStatus", err)
	}
}

func TestResolveOBJAndInvalid(t *testing.T) {
	c := newTestClient(t, nil)
	obj := filepath.Join(t.TempDir(), "m.obj")
	os.WriteFile(obj, []byte("v 0 0 0\n"), 0o644)

	got, err := c.Resolve(context.Background(), obj, "")
	if err != nil || got != obj {
		t.Errorf("Resolve(obj) = %q, %v", got, err)
	}
	if _, err := c.Resolve(context.Background(), "missing.obj", ""); err == nil {
		t.Error("Resolve(missing.obj) succeeded")
	}
	if _, err := c.Resolve(context.Background(), "notanid", ""); !errors.Is(err, ErrInvalidID) {
		t.Errorf("Resolve(notanid) err = %v, want ErrInvalidID", err)
	}
}

func TestResolveCachedCartoon(t *testing.T) {
	c := newTestClient(t, nil)
	c.ensureCache()
	cached := filepath.Join(c.CacheDir, "1ABC_A.obj")
	os.WriteFile(cached, []byte("v 0 0 0\n"), 0o644)

	// No server and no PyMOL: must come straight from cache
	c.PyMOL = filepath.Join(t.TempDir(), "nopymol")
	got, err := c.Resolve(context.Background(), "1abc", "a")
	if err != nil || got != cached {
		t.Errorf("Resolve cached = %q, %v, want %q", got, err, cached)
	}
}

// fakePyMOL writes a shell script that saves a one-edge OBJ to the path named by "save"
// The OBJ starts with a comment naming the loaded source
func fakePyMOL(t *testing.T) string {
	t.Helper()
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	path := filepath.Join(t.TempDir(), "pymol")
	script := `#!/bin/sh
src=$(sed -n 's/^load "\(.*\)"$/\1/p' "$2")
out=$(sed -n 's/^save "\(.*\)"$/\1/p' "$2")
sleep 0.2
printf '# %s\nv 0 0 0\nv 1 0 0\nf 1 2\n' "$src" > "$out"
`
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

// cacheEntries lists file names in the cache directory
func cacheEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestExportCartoon(t *testing.T) {
	c := newTestClient(t, nil)
	c.PyMOL = fakePyMOL(t)

	dir := filepath.Join(t.TempDir(), "my structures")
	os.MkdirAll(dir, 0o755)
	src := filepath.Join(dir, "protein.pdb")
	os.WriteFile(src, []byte("ATOM\n"), 0o644)

	out, err := c.ExportCartoon(context.Background(), src, "b")
	if err != nil {
		t.Fatalf("ExportCartoon: %v", err)
	}
	if want := localStem(src) + "_B.obj"; filepath.Base(out) != want {
		t.Errorf("out = %s, want %s", out, want)
	}
	data, _ := os.ReadFile(out)
	if string(data) != "# "+src+"\nv 0 0 0\nv 1 0 0\nf 1 2\n" {
		t.Errorf("cartoon content = %q", data)
	}
	if names := cacheEntries(t, c.CacheDir); len(names) != 1 {
		t.Errorf("cache holds %v, want only the cartoon", names)
	}
}

func TestExportSameBaseNameConcurrently(t *testing.T) {
	c := newTestClient(t, nil)
	c.PyMOL = fakePyMOL(t)

	root := t.TempDir()
	srcs := []string{filepath.Join(root, "a", "protein.pdb"), filepath.Join(root, "b", "protein.pdb")}
	for _, src := range srcs {
		os.MkdirAll(filepath.Dir(src), 0o755)
		os.WriteFile(src, []byte("ATOM\n"), 0o644)
	}

	outs := make([]string, len(srcs))
	errs := make([]error, len(srcs))
	var wg sync.WaitGroup
	for i, src := range srcs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outs[i], errs[i] = c.ExportCartoon(context.Background(), src, "")
		}()
	}
	wg.Wait()

	if outs[0] == outs[1] {
		t.Fatalf("both inputs exported to %s", outs[0])
	}
	for i, src := range srcs {
		if errs[i] != nil {
			t.Fatalf("ExportCartoon(%s): %v", src, errs[i])
		}
		data, _ := os.ReadFile(outs[i])
		if !strings.HasPrefix(string(data), "# "+src+"\n") {
			t.Errorf("cartoon for %s holds %q", src, data)
		}
	}
	if names := cacheEntries(t, c.CacheDir); len(names) != 2 {
		t.Errorf("cache holds %v, want two cartoons", names)
	}
}

func TestExportSameInputConcurrently(t *testing.T) {
	c := newTestClient(t, nil)
	c.PyMOL = fakePyMOL(t)

	src := filepath.Join(t.TempDir(), "protein.pdb")
	os.WriteFile(src, []byte("ATOM\n"), 0o644)

	const n = 4
	outs := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outs[i], errs[i] = c.ExportCartoon(context.Background(), src, "a")
		}()
	}
	wg.Wait()

	for i := range n {
		if errs[i] != nil {
			t.Fatalf("export %d: %v", i, errs[i])
		}
		if outs[i] != outs[0] {
			t.Errorf("export %d wrote %s, want %s", i, outs[i], outs[0])
		}
	}
	data, _ := os.ReadFile(outs[0])
	if !strings.HasPrefix(string(data), "# "+src+"\n") {
		t.Errorf("cartoon content = %q", data)
	}
	if names := cacheEntries(t, c.CacheDir); len(names) != 1 {
		t.Errorf("cache holds %v, want only the cartoon", names)
	}
}

func TestResolveDownloadsAndExports(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data_2XYZ\n"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	c.PyMOL = fakePyMOL(t)

	out, err := c.Resolve(context.Background(), "2xyz", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if filepath.Base(out) != "2XYZ.obj" {
		t.Errorf("out = %s", out)
	}
	if _, err := os.Stat(filepath.Join(c.CacheDir, "2XYZ.cif")); err != nil {
		t.Errorf("downloaded structure not cached: %v", err)
	}
}

func TestResolveSameIDConcurrently(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		time.Sleep(50 * time.Millisecond)
		w.Write([]byte("data_4HHB\n"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	c.PyMOL = fakePyMOL(t)

	outs := make([]string, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range outs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outs[i], errs[i] = c.Resolve(context.Background(), "4hhb", "")
		}()
	}
	wg.Wait()

	for i := range outs {
		if errs[i] != nil {
			t.Fatalf("Resolve %d: %v", i, errs[i])
		}
		if filepath.Base(outs[i]) != "4HHB.obj" {
			t.Errorf("Resolve %d = %s", i, outs[i])
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("downloaded %d times, want 1", n)
	}
	data, _ := os.ReadFile(outs[0])
	if !strings.Contains(string(data), "v 1 0 0") {
		t.Errorf("cartoon content = %q", data)
	}
}

func TestPyMOLMissing(t *testing.T) {
	c := newTestClient(t, nil)
	c.PyMOL = filepath.Join(t.TempDir(), "definitely-not-pymol")

	src := filepath.Join(t.TempDir(), "x.cif")
	os.WriteFile(src, nil, 0o644)
	if _, err := c.ExportCartoon(context.Background(), src, ""); !errors.Is(err, ErrPyMOLMissing) {
		t.Errorf("err = %v, want ErrPyMOLMissing", err)
	}
}
