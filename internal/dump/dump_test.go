package dump

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pierrec/lz4/v4"
)

func TestReadPlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crash.dmp")
	want := []byte("raw dump bytes, no frame")
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("got %q", got)
	}
}

func TestReadLZ4Frame(t *testing.T) {
	want := bytes.Repeat([]byte("dump segment "), 1000)

	var framed bytes.Buffer
	zw := lz4.NewWriter(&framed)
	if _, err := zw.Write(want); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "crash.dmp.lz4")
	if err := os.WriteFile(path, framed.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("decompressed %d bytes, want %d", len(got), len(want))
	}
}

func TestReadMissingFileIsFatal(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.dmp"))
	if !errors.Is(err, ErrOpenInput) {
		t.Errorf("err = %v, want ErrOpenInput", err)
	}
}
