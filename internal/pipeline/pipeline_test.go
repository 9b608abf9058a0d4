package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cbctcli/internal/config"
	"cbctcli/internal/files"
	"cbctcli/internal/header"
)

// recordSpec describes the fake header a test file parses into
type recordSpec struct {
	attrs map[string]header.Value
}

// fakeTree materializes a directory of dummy files and a parse function
// that returns canned records for them. Files without a spec parse as
// non-DICOM.
type fakeTree struct {
	root  string
	specs map[string]recordSpec // keyed by path relative to root
}

func newFakeTree(t *testing.T) *fakeTree {
	return &fakeTree{root: t.TempDir(), specs: make(map[string]recordSpec)}
}

func (ft *fakeTree) addDICOM(t *testing.T, rel string, attrs map[string]header.Value) {
	t.Helper()
	ft.addOpaque(t, rel)
	ft.specs[filepath.ToSlash(rel)] = recordSpec{attrs: attrs}
}

// addOpaque creates a file with no parseable header
func (ft *fakeTree) addOpaque(t *testing.T, rel string) {
	t.Helper()
	path := filepath.Join(ft.root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("raw"), 0644))
}

func (ft *fakeTree) parse(path string) (*header.Record, error) {
	rel, err := filepath.Rel(ft.root, path)
	if err != nil {
		return nil, err
	}
	spec, ok := ft.specs[filepath.ToSlash(rel)]
	if !ok {
		return nil, errors.New("not a dicom file")
	}
	rec := header.NewRecord(path)
	for name, v := range spec.attrs {
		rec.Set(name, v)
	}
	return rec, nil
}

func newTestRunner(ft *fakeTree, cfg config.ExtractConfig) *Runner {
	r := NewRunner(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r.parse = ft.parse
	r.counter = files.NewCounter()
	return r
}

func baseAttrs(uid, manufacturer string) map[string]header.Value {
	return map[string]header.Value{
		header.AttrSeriesInstanceUID: header.StringValue(uid),
		header.AttrManufacturer:      header.StringValue(manufacturer),
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = ';'
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestRunner_DeduplicatesBySeriesUID(t *testing.T) {
	ft := newFakeTree(t)
	// Walk order is lexical, so exam/001 is first seen for UID 1.2.3
	a1 := baseAttrs("1.2.3", "Sectra")
	a1["StationName"] = header.StringValue("first")
	a2 := baseAttrs("1.2.3", "Sectra")
	a2["StationName"] = header.StringValue("second")
	ft.addDICOM(t, "exam/001", a1)
	ft.addDICOM(t, "exam/002", a2)
	ft.addDICOM(t, "exam/003", baseAttrs("4.5.6", "Sectra"))

	out := filepath.Join(t.TempDir(), "out.csv")
	cfg := config.ExtractConfig{
		InputDir:   ft.root,
		OutputFile: out,
		Format:     "csv",
		Fields:     []string{"SeriesInstanceUID", "StationName"},
	}

	summary, err := newTestRunner(ft, cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.FilesScanned)
	assert.Equal(t, 3, summary.Parsed)
	assert.Equal(t, 1, summary.Duplicates)
	assert.Equal(t, 2, summary.Examinations)

	rows := readCSV(t, out)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"1.2.3", "first"}, rows[1], "first-seen record wins")
	assert.Equal(t, "4.5.6", rows[2][0])
}

func TestRunner_SkipsDerivedAndUnparseable(t *testing.T) {
	ft := newFakeTree(t)
	derived := baseAttrs("1.2.3", "Sectra")
	derived[header.AttrImageType] = header.StringsValue([]string{"DERIVED", "SECONDARY"})
	ft.addDICOM(t, "a_derived", derived)
	ft.addOpaque(t, "b_not_dicom")
	ft.addDICOM(t, "c_primary", baseAttrs("4.5.6", "Sectra"))

	out := filepath.Join(t.TempDir(), "out.csv")
	cfg := config.ExtractConfig{
		InputDir:   ft.root,
		OutputFile: out,
		Format:     "csv",
		Fields:     []string{"SeriesInstanceUID"},
	}

	summary, err := newTestRunner(ft, cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.FilesScanned)
	assert.Equal(t, 2, summary.Parsed)
	assert.Equal(t, 1, summary.DerivedSkipped)
	assert.Equal(t, 1, summary.Examinations)

	rows := readCSV(t, out)
	require.Len(t, rows, 2)
	assert.Equal(t, "4.5.6", rows[1][0], "no output row originates from a derived record")
}

func TestRunner_SkipsRecordsMissingRequiredAttributes(t *testing.T) {
	ft := newFakeTree(t)
	noUID := map[string]header.Value{
		header.AttrManufacturer: header.StringValue("Sectra"),
	}
	ft.addDICOM(t, "a_no_uid", noUID)
	noManufacturer := map[string]header.Value{
		header.AttrSeriesInstanceUID: header.StringValue("1.2.3"),
	}
	ft.addDICOM(t, "b_no_manufacturer", noManufacturer)
	ft.addDICOM(t, "c_ok", baseAttrs("4.5.6", "Sectra"))

	out := filepath.Join(t.TempDir(), "out.csv")
	cfg := config.ExtractConfig{
		InputDir:   ft.root,
		OutputFile: out,
		Format:     "csv",
		Fields:     []string{"SeriesInstanceUID"},
	}

	summary, err := newTestRunner(ft, cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.MissingAttribute)
	assert.Equal(t, 1, summary.Examinations)
}

func TestRunner_AppliesVendorCorrections(t *testing.T) {
	ft := newFakeTree(t)

	morita := baseAttrs("1.1.1", "J Morita Mfg Corp")
	morita[header.AttrImageComments] = header.StringValue("FOV:R100 DAP:123mGycm2")
	ft.addDICOM(t, "morita/slice", morita)

	planmeca := baseAttrs("2.2.2", "Planmeca ProMax Mid")
	planmeca[header.AttrDoseAreaProduct] = header.StringValue("50")
	ft.addDICOM(t, "planmeca/slice001", planmeca)
	// Sibling files in the Planmeca examination folder, counted as slices
	ft.addOpaque(t, "planmeca/slice002")
	ft.addOpaque(t, "planmeca/slice003")

	sectra := baseAttrs("3.3.3", "Sectra")
	sectra[header.AttrDoseAreaProduct] = header.StringValue("7")
	ft.addDICOM(t, "sectra/img", sectra)

	out := filepath.Join(t.TempDir(), "out.csv")
	cfg := config.ExtractConfig{
		InputDir:   ft.root,
		OutputFile: out,
		Format:     "csv",
		Fields: []string{
			"SeriesInstanceUID", "AcquiredImageAreaDoseProduct", "ImagesInAcquisition",
		},
	}

	_, err := newTestRunner(ft, cfg).Run(context.Background())
	require.NoError(t, err)

	rows := readCSV(t, out)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"1.1.1", "123", ""}, rows[1], "Morita dose extracted from comments")
	assert.Equal(t, []string{"2.2.2", "5000", "3"}, rows[2], "Planmeca dose scaled and slices counted")
	assert.Equal(t, []string{"3.3.3", "7", ""}, rows[3], "unknown vendor untouched")
}

func TestRunner_Idempotent(t *testing.T) {
	ft := newFakeTree(t)
	rec := baseAttrs("1.2.3", "Planmeca ProMax Mid")
	rec[header.AttrDoseAreaProduct] = header.StringValue("2.5")
	ft.addDICOM(t, "exam/001", rec)
	ft.addDICOM(t, "exam/002", baseAttrs("1.2.3", "Planmeca ProMax Mid"))
	ft.addDICOM(t, "other/001", baseAttrs("9.8.7", "Sectra"))

	outDir := t.TempDir()
	run := func(name string) []byte {
		out := filepath.Join(outDir, name)
		cfg := config.ExtractConfig{
			InputDir:   ft.root,
			OutputFile: out,
			Format:     "csv",
			Fields:     config.DefaultFields,
		}
		_, err := newTestRunner(ft, cfg).Run(context.Background())
		require.NoError(t, err)
		content, err := os.ReadFile(out)
		require.NoError(t, err)
		return content
	}

	assert.Equal(t, run("first.csv"), run("second.csv"),
		"two runs over unchanged input produce byte-identical output")
}

func TestRunner_MissingInputDirIsFatal(t *testing.T) {
	ft := newFakeTree(t)
	cfg := config.ExtractConfig{
		InputDir:   filepath.Join(ft.root, "nope"),
		OutputFile: filepath.Join(t.TempDir(), "out.csv"),
		Format:     "csv",
		Fields:     []string{"SeriesInstanceUID"},
	}

	_, err := newTestRunner(ft, cfg).Run(context.Background())
	assert.Error(t, err)
}

func TestRunner_ExportFailureIsFatal(t *testing.T) {
	ft := newFakeTree(t)
	ft.addDICOM(t, "f", baseAttrs("1.2.3", "Sectra"))

	// Output path under a regular file cannot be created
	blocker := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	cfg := config.ExtractConfig{
		InputDir:   ft.root,
		OutputFile: filepath.Join(blocker, "out.csv"),
		Format:     "csv",
		Fields:     []string{"SeriesInstanceUID"},
	}

	_, err := newTestRunner(ft, cfg).Run(context.Background())
	assert.Error(t, err)
}

func TestRunner_ContextCancellation(t *testing.T) {
	ft := newFakeTree(t)
	ft.addDICOM(t, "f", baseAttrs("1.2.3", "Sectra"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := config.ExtractConfig{
		InputDir:   ft.root,
		OutputFile: filepath.Join(t.TempDir(), "out.csv"),
		Format:     "csv",
		Fields:     []string{"SeriesInstanceUID"},
	}

	_, err := newTestRunner(ft, cfg).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_XLSXExport(t *testing.T) {
	ft := newFakeTree(t)
	ft.addDICOM(t, "f", baseAttrs("1.2.3", "Sectra"))

	out := filepath.Join(t.TempDir(), "out.xlsx")
	cfg := config.ExtractConfig{
		InputDir:   ft.root,
		OutputFile: out,
		Format:     "xlsx",
		Fields:     []string{"SeriesInstanceUID"},
	}

	summary, err := newTestRunner(ft, cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Examinations)

	_, err = os.Stat(out)
	assert.NoError(t, err)
}
