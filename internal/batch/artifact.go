package batch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DownloadPrefix is prepended to the uploaded filename when materializing
// batch results.
const DownloadPrefix = "predictions_"

// DownloadName builds the filename offered for a batch result. When the
// original upload name is unknown it falls back to a generic name.
func DownloadName(original string) string {
	if original == "" {
		original = "data.csv"
	}
	return DownloadPrefix + filepath.Base(original)
}

// Artifact is an in-memory copy of a full batch response, held until the
// user saves it or the owning session replaces or discards it. The handle
// must be released exactly once.
type Artifact struct {
	id       uuid.UUID
	name     string
	data     []byte
	released bool
}

// NewArtifact creates an artifact for a batch response. name is the original
// uploaded filename, used to derive the download name.
func NewArtifact(name string, data []byte) *Artifact {
	return &Artifact{
		id:   uuid.New(),
		name: name,
		data: data,
	}
}

// ID returns the artifact's handle identifier.
func (a *Artifact) ID() uuid.UUID {
	return a.id
}

// DownloadName returns the filename the artifact should be saved as.
func (a *Artifact) DownloadName() string {
	return DownloadName(a.name)
}

// Size returns the artifact length in bytes, or 0 after release.
func (a *Artifact) Size() int {
	return len(a.data)
}

// Live reports whether the handle is still valid.
func (a *Artifact) Live() bool {
	return a != nil && !a.released
}

// Release revokes the handle and drops the buffer. Releasing twice is a
// no-op so replacement and teardown cannot double-free.
func (a *Artifact) Release() {
	if a == nil || a.released {
		return
	}
	a.released = true
	a.data = nil
}

// WriteTo materializes the artifact without re-fetching it.
func (a *Artifact) WriteTo(w io.Writer) (int64, error) {
	if !a.Live() {
		return 0, fmt.Errorf("artifact handle has been released")
	}
	n, err := w.Write(a.data)
	return int64(n), err
}

// SaveTo writes the artifact into dir under its download name and returns
// the written path.
func (a *Artifact) SaveTo(dir string) (string, error) {
	if !a.Live() {
		return "", fmt.Errorf("artifact handle has been released")
	}
	path := filepath.Join(dir, a.DownloadName())
	if err := os.WriteFile(path, a.data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save artifact: %w", err)
	}
	return path, nil
}

// Session owns at most one live artifact. Installing a new artifact
// releases the previous handle; closing the session releases the last one.
type Session struct {
	current *Artifact
}

// Install makes a the session's live artifact, releasing any prior handle.
func (s *Session) Install(a *Artifact) {
	if s.current != nil {
		s.current.Release()
	}
	s.current = a
}

// Current returns the live artifact, or nil when none is installed.
func (s *Session) Current() *Artifact {
	return s.current
}

// Clear releases and forgets the live artifact, used when an upload fails.
func (s *Session) Clear() {
	s.Install(nil)
}

// Close releases the live artifact on teardown.
func (s *Session) Close() {
	s.Clear()
}
