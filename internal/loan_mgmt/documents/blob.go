package documents

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// BlobStore はアップロード実体の置き場。メタデータ（documents テーブル）とは別管理。
type BlobStore interface {
	// Save は生成済みのファイル名で書き込み、置き場上のパスと書き込んだバイト数を返す
	Save(name string, src io.Reader) (path string, size int64, err error)
	// Stat は実体の存在確認。見つからなければ os.ErrNotExist を返す
	Stat(path string) error
	// Remove は実体削除。存在しない場合もエラーにしない（削除はベストエフォート）
	Remove(path string) error
}

// ローカルディレクトリ実装
type dirBlobStore struct {
	dir string
}

func NewDirBlobStore(dir string) (BlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("アップロードディレクトリの作成失敗: %w", err)
	}
	return &dirBlobStore{dir: dir}, nil
}

func (b *dirBlobStore) Save(name string, src io.Reader) (string, int64, error) {
	path := filepath.Join(b.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", 0, err
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", 0, err
	}
	return path, n, nil
}

func (b *dirBlobStore) Stat(path string) error {
	_, err := os.Stat(path)
	return err
}

func (b *dirBlobStore) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
