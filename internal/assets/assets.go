// Package assets embeds the static resources shipped with the library:
// the device and quality catalogs and the capture-mode stylesheets.
package assets

import (
	"embed"
	"errors"
	"fmt"
)

//go:embed catalogs/*
var catalogs embed.FS

//go:embed styles/*
var styles embed.FS

// Sentinel errors for asset operations.
var (
	// ErrCatalogNotFound indicates the requested catalog does not exist.
	ErrCatalogNotFound = errors.New("catalog not found")

	// ErrStyleNotFound indicates the requested stylesheet does not exist.
	ErrStyleNotFound = errors.New("style not found")
)

// Catalog file names.
const (
	DeviceCatalogName  = "devices"
	QualityCatalogName = "qualities"
)

// Catalog returns the raw YAML bytes of an embedded catalog by name.
// The name should not include the .yaml extension.
func Catalog(name string) ([]byte, error) {
	content, err := catalogs.ReadFile("catalogs/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrCatalogNotFound, name)
	}
	return content, nil
}

// Style returns an embedded stylesheet by name.
// The name should not include the .css extension.
func Style(name string) (string, error) {
	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return string(content), nil
}
