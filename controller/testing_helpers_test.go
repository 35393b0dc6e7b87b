package controller

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/billingcat/clinvoice/fixtures"
	"github.com/billingcat/clinvoice/model"
)

const fakePDF = "%PDF-1.4 fake"

// fakeExporter records the rendered document instead of starting a browser.
type fakeExporter struct {
	mu       sync.Mutex
	calls    int
	html     string
	err      error
	onExport func()
}

func (f *fakeExporter) ExportPDF(_ context.Context, html string) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	f.html = html
	f.mu.Unlock()
	if f.onExport != nil {
		f.onExport()
	}
	if f.err != nil {
		return nil, f.err
	}
	return []byte(fakePDF), nil
}

type testEnv struct {
	ctrl     *controller
	store    *model.Store
	data     *fixtures.TestData
	exporter *fakeExporter
	out      *bytes.Buffer
}

// newTestEnv seeds Acme and Bob and returns a controller answering prompts
// from input.
func newTestEnv(t *testing.T, input string) *testEnv {
	t.Helper()
	store := fixtures.NewTestStore(t)
	data := fixtures.SeedTestData(t, store)
	var out, errOut bytes.Buffer
	ctrl := newController(store.Config, filepath.Join(t.TempDir(), "config.toml"), strings.NewReader(input), &out, &errOut)
	exporter := &fakeExporter{}
	ctrl.model = store
	ctrl.exporter = exporter
	ctrl.now = func() time.Time { return fixtures.FixedTime }
	return &testEnv{ctrl: ctrl, store: store, data: data, exporter: exporter, out: &out}
}

// run executes a command line. The app closes the store when it finishes,
// so the env store is reopened afterwards.
func (env *testEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	err := env.ctrl.app().RunContext(context.Background(), append([]string{"clinvoice"}, args...))
	store, openErr := model.InitDatabase(env.ctrl.cfg)
	if openErr != nil {
		t.Fatalf("cannot reopen store: %v", openErr)
	}
	t.Cleanup(func() { store.Close() })
	env.store = store
	env.ctrl.model = store
	return err
}

func (env *testEnv) generator(t *testing.T) *generator {
	t.Helper()
	g, err := env.ctrl.newGenerator()
	if err != nil {
		t.Fatalf("newGenerator failed: %v", err)
	}
	return g
}
