package documents

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

// ---- test doubles ----

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

type seqIDGen struct{ n int }

func (g *seqIDGen) NewULID(time.Time) string {
	g.n++
	return fmt.Sprintf("DOC%023d", g.n)
}

type fakeMetaStore struct {
	items map[string]Document
}

func newFakeMetaStore() *fakeMetaStore { return &fakeMetaStore{items: map[string]Document{}} }

func (f *fakeMetaStore) Insert(_ context.Context, m *Document) error {
	f.items[m.ID] = *m
	return nil
}

func (f *fakeMetaStore) GetByID(_ context.Context, id string) (*Document, error) {
	m, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &m, nil
}

func (f *fakeMetaStore) ListByEquipment(_ context.Context, equipmentID string) ([]Document, error) {
	var out []Document
	for _, m := range f.items {
		if m.EquipmentID == equipmentID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMetaStore) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := f.items[id]; !ok {
		return false, nil
	}
	delete(f.items, id)
	return true, nil
}

func newTestService(t *testing.T) (*Service, *fakeMetaStore, string) {
	t.Helper()
	dir := t.TempDir()
	blobs, err := NewDirBlobStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	store := newFakeMetaStore()
	clock := &fixedClock{t: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	svc := newService(store, blobs, clock, &seqIDGen{})
	return svc, store, dir
}

func pdfUpload(name string, body []byte) UploadInput {
	return UploadInput{
		Src:              bytes.NewReader(body),
		OriginalFilename: name,
		Size:             int64(len(body)),
		EquipmentID:      "EQ1",
	}
}

// ---- tests ----

func TestUploadWritesBlobAndMetadata(t *testing.T) {
	svc, store, dir := newTestService(t)
	ctx := context.Background()

	body := []byte("%PDF-1.7 dummy")
	res, err := svc.Upload(ctx, pdfUpload("nota_fiscal.pdf", body))
	assert.Equal(t, err, nil)
	assert.NotEqual(t, res.ID, "")
	assert.Equal(t, res.Filename, "nota_fiscal.pdf") // 応答は元の名前
	assert.Equal(t, res.FileSize, int64(len(body)))

	m := store.items[res.ID]
	assert.Equal(t, m.OriginalFilename, "nota_fiscal.pdf")
	assert.Equal(t, strings.HasSuffix(m.Filename, ".pdf"), true)
	assert.NotEqual(t, m.Filename, m.OriginalFilename) // 保存名は生成した別名

	saved, err := os.ReadFile(filepath.Join(dir, m.Filename))
	assert.Equal(t, err, nil)
	assert.Equal(t, saved, body)
}

func TestUploadRejectsNonPDF(t *testing.T) {
	svc, store, _ := newTestService(t)
	_, err := svc.Upload(context.Background(), pdfUpload("photo.png", []byte("x")))
	assertCode(t, err, CodeInvalidArgument)
	assert.Equal(t, len(store.items), 0)
}

func TestUploadRejectsOversize(t *testing.T) {
	svc, store, _ := newTestService(t)
	in := pdfUpload("big.pdf", []byte("x"))
	in.Size = MaxUploadBytes + 1 // 実体を確保せずサイズ申告だけ超過させる
	_, err := svc.Upload(context.Background(), in)
	assertCode(t, err, CodeInvalidArgument)
	assert.Equal(t, len(store.items), 0)
}

func TestUploadRequiresEquipmentID(t *testing.T) {
	svc, _, _ := newTestService(t)
	in := pdfUpload("a.pdf", []byte("x"))
	in.EquipmentID = " "
	_, err := svc.Upload(context.Background(), in)
	assertCode(t, err, CodeInvalidArgument)
}

func TestListForEquipment(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, pdfUpload("a.pdf", []byte("a")))
	assert.Equal(t, err, nil)
	other := pdfUpload("b.pdf", []byte("b"))
	other.EquipmentID = "EQ2"
	_, err = svc.Upload(ctx, other)
	assert.Equal(t, err, nil)

	res, err := svc.ListForEquipment(ctx, "EQ1")
	assert.Equal(t, err, nil)
	assert.Equal(t, len(res), 1)
	assert.Equal(t, res[0].EquipmentID, "EQ1")
}

func TestDownload(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.Upload(ctx, pdfUpload("manual.pdf", []byte("pdf")))
	assert.Equal(t, err, nil)

	path, name, err := svc.Download(ctx, res.ID)
	assert.Equal(t, err, nil)
	assert.Equal(t, name, "manual.pdf")
	assert.Equal(t, path, store.items[res.ID].FilePath)

	_, _, err = svc.Download(ctx, "missing")
	assertCode(t, err, CodeNotFound)
}

func TestDownloadBlobGoneIsNotFound(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.Upload(ctx, pdfUpload("manual.pdf", []byte("pdf")))
	assert.Equal(t, err, nil)

	// メタデータを残したまま実体だけ外から消す
	assert.Equal(t, os.Remove(store.items[res.ID].FilePath), nil)

	_, _, err = svc.Download(ctx, res.ID)
	assertCode(t, err, CodeNotFound)
}

func TestDeleteRemovesBlobAndMetadata(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.Upload(ctx, pdfUpload("old.pdf", []byte("pdf")))
	assert.Equal(t, err, nil)
	path := store.items[res.ID].FilePath

	assert.Equal(t, svc.Delete(ctx, res.ID), nil)
	assert.Equal(t, len(store.items), 0)
	_, err = os.Stat(path)
	assert.Equal(t, os.IsNotExist(err), true)

	assertCode(t, svc.Delete(ctx, res.ID), CodeNotFound)
}

func TestDeleteToleratesMissingBlob(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.Upload(ctx, pdfUpload("old.pdf", []byte("pdf")))
	assert.Equal(t, err, nil)
	assert.Equal(t, os.Remove(store.items[res.ID].FilePath), nil)

	// 実体が先に消えていても削除は成功する
	assert.Equal(t, svc.Delete(ctx, res.ID), nil)
	assert.Equal(t, len(store.items), 0)
}

// ---- helpers ----

func assertCode(t *testing.T, err error, want Code) {
	t.Helper()
	api, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %v", err)
	}
	assert.Equal(t, api.Code, want)
}
