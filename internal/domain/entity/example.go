package entity

import (
	"path/filepath"
	"strings"
)

// Example is one annotation file joined with its image by filename stem.
type Example struct {
	Stem           string
	AnnotationPath string
	ImagePath      string
}

// Stem strips the final extension from a filename.
func Stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
