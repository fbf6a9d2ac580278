package assetstore

import (
	"context"
	"errors"
)

// Kind selects what List returns.
type Kind string

const (
	KindFile   Kind = "file"
	KindFolder Kind = "folder"
)

// Asset is one entry in the store: a file (URL + opaque file id) or a
// folder (name only, FileID empty on backends without folder ids).
type Asset struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	FileID string `json:"fileId"`
}

// ErrNotFound is returned when a file id or folder path does not exist.
var ErrNotFound = errors.New("assetstore: not found")

// Store is the capability surface of the hosted asset service. The
// catalog is written entirely against this interface so the hosted media
// API, object storage, or an in-memory fake can sit behind it.
type Store interface {
	// Upload stores file content under folderPath and returns the
	// resulting reference. file may be raw text, a base64 payload, or a
	// remote URL; the backend infers the source type.
	Upload(ctx context.Context, file, fileName, folderPath string) (Asset, error)

	// DeleteFile removes exactly one file by its opaque identity.
	DeleteFile(ctx context.Context, fileID string) error

	// DeleteFolder removes the folder at path and all descendants.
	DeleteFolder(ctx context.Context, folderPath string) error

	// CreateFolder creates an empty folder under parentPath.
	CreateFolder(ctx context.Context, folderName, parentPath string) error

	// MoveFolder relocates a folder subtree, preserving descendants.
	MoveFolder(ctx context.Context, sourcePath, destinationPath string) error

	// List returns the entries of the given kind directly under
	// folderPath, in the store's native order.
	List(ctx context.Context, folderPath string, kind Kind) ([]Asset, error)
}
