// Package load reads captured node graphs from documents and turns them
// into nodetree models the exporter consumes.
package load

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is the document format version written by Marshal.
const CurrentVersion = 1

// Document is a captured graph: the root tree, every tree it references
// and the images their attributes use.
type Document struct {
	Version int      `json:"version" yaml:"version"`
	Root    string   `json:"root" yaml:"root"`
	Trees   []*Tree  `json:"trees" yaml:"trees"`
	Images  []*Image `json:"images,omitempty" yaml:"images,omitempty"`
}

// Tree represents a nodetree.Tree in a document.
type Tree struct {
	Name        string          `json:"name" yaml:"name"`
	Domain      string          `json:"domain" yaml:"domain"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Color       string          `json:"color,omitempty" yaml:"color,omitempty"`
	Flags       map[string]bool `json:"flags,omitempty" yaml:"flags,omitempty"`
	Owner       *Owner          `json:"owner,omitempty" yaml:"owner,omitempty"`
	Interface   []*Item         `json:"interface,omitempty" yaml:"interface,omitempty"`
	Nodes       []*Node         `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Links       []*Link         `json:"links,omitempty" yaml:"links,omitempty"`
}

// Owner is the host container embedding a tree.
type Owner struct {
	Kind string `json:"kind" yaml:"kind"`
	Name string `json:"name" yaml:"name"`
}

// Item is an interface socket, or a panel when Panel is set.
type Item struct {
	Panel           bool     `json:"panel,omitempty" yaml:"panel,omitempty"`
	Name            string   `json:"name" yaml:"name"`
	Description     string   `json:"description,omitempty" yaml:"description,omitempty"`
	InOut           string   `json:"in_out,omitempty" yaml:"in_out,omitempty"`
	Type            string   `json:"type,omitempty" yaml:"type,omitempty"`
	Default         *Value   `json:"default,omitempty" yaml:"default,omitempty"`
	Min             *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max             *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	AttributeDomain string   `json:"attribute_domain,omitempty" yaml:"attribute_domain,omitempty"`
	HideValue       bool     `json:"hide_value,omitempty" yaml:"hide_value,omitempty"`
	DefaultClosed   bool     `json:"default_closed,omitempty" yaml:"default_closed,omitempty"`
	Items           []*Item  `json:"items,omitempty" yaml:"items,omitempty"`
}

// Node represents a nodetree.Node in a document. Parent, Paired and Tree
// refer to other nodes and trees by name.
type Node struct {
	Type           string            `json:"type" yaml:"type"`
	Name           string            `json:"name" yaml:"name"`
	Label          string            `json:"label,omitempty" yaml:"label,omitempty"`
	Location       [2]float64        `json:"location" yaml:"location,flow"`
	Width          float64           `json:"width,omitempty" yaml:"width,omitempty"`
	Height         float64           `json:"height,omitempty" yaml:"height,omitempty"`
	Parent         string            `json:"parent,omitempty" yaml:"parent,omitempty"`
	UseCustomColor bool              `json:"use_custom_color,omitempty" yaml:"use_custom_color,omitempty"`
	Color          []float64         `json:"color,omitempty" yaml:"color,omitempty,flow"`
	Mute           bool              `json:"mute,omitempty" yaml:"mute,omitempty"`
	Hide           bool              `json:"hide,omitempty" yaml:"hide,omitempty"`
	Inputs         []*Socket         `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs        []*Socket         `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Attrs          map[string]*Value `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Tree           string            `json:"tree,omitempty" yaml:"tree,omitempty"`
	Paired         string            `json:"paired,omitempty" yaml:"paired,omitempty"`
}

// Socket represents a node socket. Identifier is omitted when it equals
// Name.
type Socket struct {
	Name       string `json:"name" yaml:"name"`
	Identifier string `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Type       string `json:"type" yaml:"type"`
	Default    *Value `json:"default,omitempty" yaml:"default,omitempty"`
	Hide       bool   `json:"hide,omitempty" yaml:"hide,omitempty"`
	Disabled   bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	MultiInput bool   `json:"multi_input,omitempty" yaml:"multi_input,omitempty"`
}

// Link connects output Socket of node From to input Socket of node To.
type Link struct {
	From   Endpoint `json:"from" yaml:"from,flow"`
	To     Endpoint `json:"to" yaml:"to,flow"`
	SortID int      `json:"sort_id,omitempty" yaml:"sort_id,omitempty"`
}

// Endpoint locates a socket by node name and socket position.
type Endpoint struct {
	Node   string `json:"node" yaml:"node"`
	Socket int    `json:"socket" yaml:"socket"`
}

// Image is an image resource. Data holds the file bytes, base64 encoded.
type Image struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Format     string `json:"format,omitempty" yaml:"format,omitempty"`
	Source     string `json:"source,omitempty" yaml:"source,omitempty"`
	ColorSpace string `json:"color_space,omitempty" yaml:"color_space,omitempty"`
	AlphaMode  string `json:"alpha_mode,omitempty" yaml:"alpha_mode,omitempty"`
	Filepath   string `json:"filepath,omitempty" yaml:"filepath,omitempty"`
	Data       string `json:"data,omitempty" yaml:"data,omitempty"`
}

// Value is a tagged attribute or socket value. Kind names the nodetree
// value kind and selects which of the other fields is meaningful.
type Value struct {
	Kind   string      `json:"kind" yaml:"kind"`
	Bool   bool        `json:"bool,omitempty" yaml:"bool,omitempty"`
	Int    int64       `json:"int,omitempty" yaml:"int,omitempty"`
	Float  float64     `json:"float,omitempty" yaml:"float,omitempty"`
	Floats []float64   `json:"floats,omitempty" yaml:"floats,omitempty,flow"`
	Text   string      `json:"text,omitempty" yaml:"text,omitempty"`
	Tags   []string    `json:"tags,omitempty" yaml:"tags,omitempty,flow"`
	Asset  string      `json:"asset,omitempty" yaml:"asset,omitempty"`
	Ramp   *Ramp       `json:"ramp,omitempty" yaml:"ramp,omitempty"`
	Curves *Curves     `json:"curves,omitempty" yaml:"curves,omitempty"`
	Items  []*ListItem `json:"items,omitempty" yaml:"items,omitempty"`
}

// Ramp is the payload of a color_ramp value.
type Ramp struct {
	Interpolation    string     `json:"interpolation" yaml:"interpolation"`
	ColorMode        string     `json:"color_mode" yaml:"color_mode"`
	HueInterpolation string     `json:"hue_interpolation" yaml:"hue_interpolation"`
	Elements         []RampStop `json:"elements" yaml:"elements"`
}

// RampStop is one color ramp element.
type RampStop struct {
	Position float64    `json:"position" yaml:"position"`
	Color    [4]float64 `json:"color" yaml:"color,flow"`
}

// Curves is the payload of a curve_mapping value.
type Curves struct {
	UseClip bool           `json:"use_clip,omitempty" yaml:"use_clip,omitempty"`
	ClipMin [2]float64     `json:"clip_min" yaml:"clip_min,flow"`
	ClipMax [2]float64     `json:"clip_max" yaml:"clip_max,flow"`
	Curves  [][]CurvePoint `json:"curves" yaml:"curves"`
}

// CurvePoint is one control point of a curve.
type CurvePoint struct {
	Location   [2]float64 `json:"location" yaml:"location,flow"`
	HandleType string     `json:"handle_type,omitempty" yaml:"handle_type,omitempty"`
}

// ListItem is one entry of an item_list value.
type ListItem struct {
	Name       string `json:"name" yaml:"name"`
	SocketType string `json:"socket_type" yaml:"socket_type"`
	Domain     string `json:"domain,omitempty" yaml:"domain,omitempty"`
}

// Format is a document encoding.
type Format string

// Document formats.
const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// FormatOf returns the format of a document file from its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".msgpack", ".mpk":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("load: unsupported document extension %q", filepath.Ext(path))
	}
}

// Marshal encodes d in the given format. Map keys are written sorted, so
// equal documents encode to equal bytes.
func Marshal(d *Document, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return json.MarshalIndent(d, "", "  ")
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatMsgpack:
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		enc.SetSortMapKeys(true)
		enc.UseCompactInts(true)
		if err := enc.Encode(d); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("load: unsupported format %q", f)
	}
}

// Unmarshal decodes a document of the given format.
func Unmarshal(buf []byte, f Format) (*Document, error) {
	d := &Document{}
	var err error
	switch f {
	case FormatJSON:
		err = json.Unmarshal(buf, d)
	case FormatYAML:
		err = yaml.Unmarshal(buf, d)
	case FormatMsgpack:
		dec := msgpack.NewDecoder(bytes.NewReader(buf))
		dec.SetCustomStructTag("json")
		err = dec.Decode(d)
	default:
		return nil, fmt.Errorf("load: unsupported format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("load: decode %s document: %w", f, err)
	}
	if d.Version != CurrentVersion {
		return nil, fmt.Errorf("load: unsupported document version: %d", d.Version)
	}
	return d, nil
}

// ReadFile reads and decodes the document at path.
func ReadFile(path string) (*Document, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	d, err := Unmarshal(buf, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// WriteFile encodes d in the format matching path and writes it.
func WriteFile(path string, d *Document) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	buf, err := Marshal(d, f)
	if err != nil {
		return fmt.Errorf("load: encode %s: %w", path, err)
	}
	return os.WriteFile(path, buf, 0o644)
}
