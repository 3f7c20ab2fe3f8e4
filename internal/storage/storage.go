// Package storage keeps uploaded client files on local disk or in an
// S3-compatible bucket.
package storage

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// ErrNotExist is returned when a key has no stored object.
var ErrNotExist = errors.New("object does not exist")

// Storage is a flat key/value blob store.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Object describes a blob after upload.
type Object struct {
	Key      string
	Bytes    int64
	Checksum string
}

// Upload hashes r, rewinds it and stores it under key. The checksum is the hex
// BLAKE2b-256 of the content.
func Upload(ctx context.Context, s Storage, key string, r io.ReadSeeker, contentType string) (Object, error) {
	sum, n, err := Checksum(r)
	if err != nil {
		return Object{}, fmt.Errorf("checksum: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return Object{}, fmt.Errorf("rewind: %w", err)
	}
	if err := s.Put(ctx, key, r, n, contentType); err != nil {
		return Object{}, fmt.Errorf("put %s: %w", key, err)
	}
	return Object{Key: key, Bytes: n, Checksum: sum}, nil
}

// Checksum returns the hex BLAKE2b-256 digest of r and the number of bytes read.
func Checksum(r io.Reader) (string, int64, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", 0, err
	}
	n, err := io.Copy(h, r)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// SafeExt returns the lowercase alphanumeric extension of name without the dot,
// or "" when there is none. Dotfiles and trailing dots have no extension.
func SafeExt(name string) string {
	ix := strings.LastIndex(name, ".")
	if ix <= 0 || ix == len(name)-1 {
		return ""
	}
	return nonAlnum.ReplaceAllString(strings.ToLower(name[ix+1:]), "")
}

var contentTypes = map[string]string{
	"pdf":  "application/pdf",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"webp": "image/webp",
	"gif":  "image/gif",
	"txt":  "text/plain; charset=utf-8",
	"csv":  "text/csv",
	"json": "application/json",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ContentTypeForExt maps a known extension to its MIME type, defaulting to
// application/octet-stream.
func ContentTypeForExt(ext string) string {
	if ct, ok := contentTypes[strings.ToLower(ext)]; ok {
		return ct
	}
	return "application/octet-stream"
}

// StoredName is a fresh collision-free blob name keeping a sanitised extension.
func StoredName(ext string) string {
	e := nonAlnum.ReplaceAllString(strings.ToLower(ext), "")
	if e == "" {
		e = "bin"
	}
	return uuid.NewString() + "." + e
}

// FileKey is the key of an uploaded client file.
func FileKey(storedName string) string {
	return "files/" + storedName
}

// PhotoKey is the key of a client's profile photo.
func PhotoKey(clientID string) string {
	return "client-photos/" + clientID + ".jpg"
}
