package md2site

import (
	"path"
	"strings"
)

// AssetKind classifies a static asset by how the shell references it.
type AssetKind int

const (
	AssetOther AssetKind = iota
	AssetCSS
	AssetJS
)

func (k AssetKind) String() string {
	switch k {
	case AssetCSS:
		return "css"
	case AssetJS:
		return "js"
	default:
		return "other"
	}
}

// Asset is a static file copied into the output tree.
// Path is slash-separated and relative to the output root.
type Asset struct {
	Path string
	Kind AssetKind
}

// NewAsset creates an Asset whose kind is guessed from the path's extension.
func NewAsset(p string) Asset {
	return Asset{Path: p, Kind: GuessAssetKind(p)}
}

// GuessAssetKind derives the kind from the file extension.
// Files without a recognized extension are AssetOther: they are copied
// but never referenced from the document head.
func GuessAssetKind(p string) AssetKind {
	switch strings.ToLower(path.Ext(p)) {
	case ".css":
		return AssetCSS
	case ".js":
		return AssetJS
	default:
		return AssetOther
	}
}
