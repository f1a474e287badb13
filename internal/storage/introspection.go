package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/conradkoh/raggrep/internal/introspect"
)

func projectRecordPath(indexDir string) string {
	return filepath.Join(indexDir, "introspection", "_project.json")
}

func fileTagsPath(indexDir, relPath string) string {
	safe := strings.ReplaceAll(filepath.ToSlash(relPath), "/", "__")
	return filepath.Join(indexDir, "introspection", "files", safe+".json")
}

// WriteProject persists the project-level introspection record.
func WriteProject(indexDir string, proj *introspect.Project) error {
	return WriteJSON(projectRecordPath(indexDir), proj)
}

// ReadProject returns (nil, nil) if no introspection record is persisted.
func ReadProject(indexDir string) (*introspect.Project, error) {
	var proj introspect.Project
	if err := ReadJSON(projectRecordPath(indexDir), &proj); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return &proj, nil
}

// WriteFileTags persists one file's introspection tags.
func WriteFileTags(indexDir, relPath string, tags introspect.FileTags) error {
	return WriteJSON(fileTagsPath(indexDir, relPath), tags)
}

// ReadFileTags returns the zero value and false if no tags are persisted
// for relPath.
func ReadFileTags(indexDir, relPath string) (introspect.FileTags, bool) {
	var tags introspect.FileTags
	if err := ReadJSON(fileTagsPath(indexDir, relPath), &tags); err != nil {
		return introspect.FileTags{}, false
	}
	return tags, true
}
