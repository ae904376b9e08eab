package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/webdesk/webdesk/internal/geometry"
)

// Codec errors. Callers that treat decode failure as "no session" check
// neither specifically; tools that report to users can unwrap these.
var (
	ErrMalformedEncoding = errors.New("session: malformed encoding")
	ErrVersionMismatch   = errors.New("session: incompatible snapshot version")
)

// Compact wire form. Short keys keep shared links small; these are part of
// the link contract, frozen alongside Version.
type compactState struct {
	V  string          `json:"v"`
	T  int64           `json:"t"`
	W  []compactWindow `json:"w,omitempty"`
	A  []compactApp    `json:"a,omitempty"`
	D  *compactDesktop `json:"d,omitempty"`
	AW string          `json:"aw,omitempty"`
	PA []string        `json:"pa,omitempty"`
}

type compactWindow struct {
	ID  string `json:"id"`
	App string `json:"ap,omitempty"`
	X   int    `json:"x"`
	Y   int    `json:"y"`
	W   int    `json:"w"`
	H   int    `json:"h"`
	Min bool   `json:"mn,omitempty"`
	Max bool   `json:"mx,omitempty"`
	Z   int    `json:"z"`
}

type compactApp struct {
	ID string   `json:"id"`
	W  []string `json:"w,omitempty"`
}

type compactDesktop struct {
	WP string                    `json:"wp,omitempty"`
	TH string                    `json:"th,omitempty"`
	AC string                    `json:"ac,omitempty"`
	IC map[string]geometry.Point `json:"ic,omitempty"`
}

// Compress encodes a snapshot into the compact URL-safe string form:
// short-keyed JSON wrapped in unpadded URL-safe base64.
func Compress(st State) (string, error) {
	c := compactState{
		V:  st.Version,
		T:  st.Timestamp,
		AW: st.ActiveWindowID,
		PA: st.PinnedApps,
	}
	for _, w := range st.Windows {
		c.W = append(c.W, compactWindow{
			ID:  w.ID,
			App: w.AppID,
			X:   w.X,
			Y:   w.Y,
			W:   w.Width,
			H:   w.Height,
			Min: w.IsMinimized,
			Max: w.IsMaximized,
			Z:   w.ZIndex,
		})
	}
	for _, a := range st.Apps {
		c.A = append(c.A, compactApp{ID: a.ID, W: a.WindowIDs})
	}
	if d := st.Desktop; d.Wallpaper != "" || d.Theme != "" || d.AccentColor != "" || len(d.IconPositions) > 0 {
		c.D = &compactDesktop{
			WP: d.Wallpaper,
			TH: d.Theme,
			AC: d.AccentColor,
			IC: d.IconPositions,
		}
	}

	raw, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decompress decodes a compact encoding back into a snapshot. It rejects
// input that is not valid base64 JSON or whose major version differs from
// the current schema.
func Decompress(encoded string) (*State, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}
	var c compactState
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}
	if c.V == "" {
		return nil, fmt.Errorf("%w: missing version", ErrMalformedEncoding)
	}
	if !compatibleVersion(c.V) {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrVersionMismatch, c.V, Version)
	}

	st := &State{
		Version:        c.V,
		Timestamp:      c.T,
		ActiveWindowID: c.AW,
		PinnedApps:     c.PA,
	}
	for _, w := range c.W {
		st.Windows = append(st.Windows, WindowState{
			ID:          w.ID,
			AppID:       w.App,
			X:           w.X,
			Y:           w.Y,
			Width:       w.W,
			Height:      w.H,
			IsMinimized: w.Min,
			IsMaximized: w.Max,
			ZIndex:      w.Z,
		})
	}
	for _, a := range c.A {
		st.Apps = append(st.Apps, AppState{ID: a.ID, WindowIDs: a.W})
	}
	if c.D != nil {
		st.Desktop = DesktopState{
			Wallpaper:     c.D.WP,
			Theme:         c.D.TH,
			AccentColor:   c.D.AC,
			IconPositions: c.D.IC,
		}
	}
	return st, nil
}

// compatibleVersion reports whether a snapshot version shares the current
// schema's major version.
func compatibleVersion(v string) bool {
	return majorOf(v) == majorOf(Version) && majorOf(v) >= 0
}

func majorOf(v string) int {
	head, _, _ := strings.Cut(v, ".")
	n, err := strconv.Atoi(head)
	if err != nil {
		return -1
	}
	return n
}
