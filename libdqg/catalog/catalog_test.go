package catalog_test

import (
	"os"
	"path"
	"testing"

	"github.com/dqg-systems/dqg/godqg"
	"github.com/dqg-systems/dqg/libdqg/catalog"
)

func TestInMemory(t *testing.T) {
	ctx := godqg.NewCatalogContext()

	cat, err := catalog.OpenCatalog(ctx, godqg.CatalogOpts{})
	if err != nil {
		t.Fatal(err)
	}

	keyA := []byte("candidate-a")
	keyB := []byte("candidate-b")

	if _, found := cat.LookupVerdict(keyA); found {
		t.Fatal("empty catalog")
	}
	if !cat.TryAddVerdict(keyA, godqg.Descriptive) {
		t.Fatal("first add")
	}
	if cat.TryAddVerdict(keyA, godqg.NonDescriptive) {
		t.Fatal("dupe add")
	}
	if !cat.TryAddVerdict(keyB, godqg.NonDescriptive) {
		t.Fatal("second add")
	}

	verdict, found := cat.LookupVerdict(keyA)
	if !found || verdict != godqg.Descriptive {
		t.Fatalf("got %v", verdict)
	}
	if cat.NumVerdicts(godqg.Descriptive) != 1 || cat.NumVerdicts(godqg.NonDescriptive) != 1 {
		t.Fatal("counts")
	}

	ctx.Close()
	<-ctx.Done()
}

func TestReopen(t *testing.T) {
	dir, err := os.MkdirTemp("", "junk*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	opts := godqg.CatalogOpts{
		DbPathName: path.Join(dir, "TestReopen"),
	}
	key := []byte("persisted")

	{
		ctx := godqg.NewCatalogContext()
		cat, err := catalog.OpenCatalog(ctx, opts)
		if err != nil {
			t.Fatal(err)
		}
		if !cat.TryAddVerdict(key, godqg.NonDescriptive) {
			t.Fatal("add")
		}
		ctx.Close()
		<-ctx.Done()
	}

	{
		ctx := godqg.NewCatalogContext()
		cat, err := catalog.OpenCatalog(ctx, opts)
		if err != nil {
			t.Fatal(err)
		}
		verdict, found := cat.LookupVerdict(key)
		if !found || verdict != godqg.NonDescriptive {
			t.Fatal("verdict did not survive reopen")
		}
		if cat.NumVerdicts(godqg.NonDescriptive) != 1 {
			t.Fatal("counts did not survive reopen")
		}
		ctx.Close()
		<-ctx.Done()
	}
}

func TestReadOnlyNeedsPath(t *testing.T) {
	ctx := godqg.NewCatalogContext()
	defer func() {
		ctx.Close()
		<-ctx.Done()
	}()

	if _, err := catalog.OpenCatalog(ctx, godqg.CatalogOpts{ReadOnly: true}); err == nil {
		t.Fatal("read-only needs a db path")
	}
}
