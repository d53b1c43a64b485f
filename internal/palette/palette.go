// Package palette describes the materials a world can paint with: an
// ordered catalog of up to 256 entries addressed by the 8-bit material
// index stored per voxel. The catalog carries only descriptive surface
// properties; resolving entries to GPU textures happens elsewhere.
package palette

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// MaxMaterials is the largest catalog a palette can hold: one entry per
// possible material index.
const MaxMaterials = 256

// Material is one palette entry.
type Material struct {
	ID   uint8  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	// BaseColor is the preview/albedo tint as "#rrggbb".
	BaseColor string `json:"baseColor" yaml:"baseColor"`
	Roughness float32 `json:"roughness" yaml:"roughness"`
	Metallic  float32 `json:"metallic" yaml:"metallic"`
	// TextureScale is the per-material UV tiling factor.
	TextureScale float32 `json:"textureScale" yaml:"textureScale"`
	// BlendSharpness steers how abruptly this material wins a blend in
	// the shader; carried through as data only.
	BlendSharpness float32 `json:"blendSharpness" yaml:"blendSharpness"`
}

// Palette is an immutable material catalog.
type Palette struct {
	materials []Material
	byID      [MaxMaterials]int // index+1 into materials, 0 = absent
}

// Document is the on-disk palette format.
type Document struct {
	Materials []Material `json:"materials" yaml:"materials"`
}

const schemaSource = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["materials"],
  "properties": {
    "materials": {
      "type": "array",
      "minItems": 1,
      "maxItems": 256,
      "items": {
        "type": "object",
        "required": ["id", "name"],
        "properties": {
          "id": {"type": "integer", "minimum": 0, "maximum": 255},
          "name": {"type": "string", "minLength": 1},
          "baseColor": {"type": "string", "pattern": "^#[0-9a-fA-F]{6}$"},
          "roughness": {"type": "number", "minimum": 0, "maximum": 1},
          "metallic": {"type": "number", "minimum": 0, "maximum": 1},
          "textureScale": {"type": "number", "exclusiveMinimum": 0},
          "blendSharpness": {"type": "number", "minimum": 0}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

var schema = jsonschema.MustCompileString("palette.schema.json", schemaSource)

// New builds a palette from a document, applying property defaults and
// enforcing catalog invariants: unique ids and a definition for material
// 0, the index every uninitialized voxel carries.
func New(doc Document) (*Palette, error) {
	if len(doc.Materials) == 0 {
		return nil, errors.New("palette: no materials defined")
	}
	if len(doc.Materials) > MaxMaterials {
		return nil, fmt.Errorf("palette: %d materials exceeds maximum %d", len(doc.Materials), MaxMaterials)
	}

	p := &Palette{materials: make([]Material, len(doc.Materials))}
	hasDefault := false
	for i, mat := range doc.Materials {
		if p.byID[mat.ID] != 0 {
			return nil, fmt.Errorf("palette: duplicate material id %d", mat.ID)
		}
		if mat.BaseColor == "" {
			mat.BaseColor = "#808080"
		}
		if _, err := parseColor(mat.BaseColor); err != nil {
			return nil, fmt.Errorf("palette: material %q: %w", mat.Name, err)
		}
		if mat.TextureScale == 0 {
			mat.TextureScale = 1
		}
		if mat.BlendSharpness == 0 {
			mat.BlendSharpness = 1
		}
		if mat.ID == 0 {
			hasDefault = true
		}
		p.materials[i] = mat
		p.byID[mat.ID] = i + 1
	}
	if !hasDefault {
		return nil, errors.New("palette: material id 0 (default) must be defined")
	}
	return p, nil
}

// Load reads a palette document from a YAML or JSON file, validates it
// against the embedded schema, and builds the catalog.
func Load(path string) (*Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read palette: %w", err)
	}

	// The schema validator wants generic JSON values; YAML documents are
	// normalized through an interface{} round trip first.
	var raw any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse palette yaml: %w", err)
		}
		normalized, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("normalize palette yaml: %w", err)
		}
		data = normalized
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("normalize palette yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse palette json: %w", err)
		}
	}

	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("validate palette: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode palette: %w", err)
	}
	return New(doc)
}

// Default returns the built-in terrain catalog used when no palette file
// is configured.
func Default() *Palette {
	p, err := New(Document{Materials: []Material{
		{ID: 0, Name: "stone", BaseColor: "#7d7d7d", Roughness: 0.9},
		{ID: 1, Name: "dirt", BaseColor: "#6b4a2b", Roughness: 0.95},
		{ID: 2, Name: "grass", BaseColor: "#4d8a3d", Roughness: 0.85},
		{ID: 3, Name: "snow", BaseColor: "#e8eef2", Roughness: 0.6},
		{ID: 4, Name: "rock", BaseColor: "#5a5550", Roughness: 0.92},
	}})
	if err != nil {
		panic(err) // built-in catalog is static
	}
	return p
}

// Material returns the entry for a material index.
func (p *Palette) Material(id uint8) (Material, bool) {
	i := p.byID[id]
	if i == 0 {
		return Material{}, false
	}
	return p.materials[i-1], true
}

// Materials returns the catalog in document order.
func (p *Palette) Materials() []Material {
	out := make([]Material, len(p.materials))
	copy(out, p.materials)
	return out
}

// Len returns the number of defined materials.
func (p *Palette) Len() int {
	return len(p.materials)
}

// Color returns the preview color for a material index, mid-gray for
// indices without a catalog entry.
func (p *Palette) Color(id uint8) color.NRGBA {
	mat, ok := p.Material(id)
	if !ok {
		return color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	}
	c, err := parseColor(mat.BaseColor)
	if err != nil {
		return color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	}
	return c
}

func parseColor(s string) (color.NRGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
