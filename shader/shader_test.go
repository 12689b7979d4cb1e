package shader

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	if err := Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestSourcesPresent(t *testing.T) {
	for _, p := range Passes {
		t.Run(p.String(), func(t *testing.T) {
			wgsl, err := WGSL(p)
			if err != nil {
				t.Fatalf("WGSL(%v) = %v", p, err)
			}
			if !strings.Contains(wgsl, "fn vs_main") || !strings.Contains(wgsl, "fn fs_main") {
				t.Errorf("WGSL for %v missing vs_main/fs_main entry points", p)
			}

			vert, frag, err := GLSL(p)
			if err != nil {
				t.Fatalf("GLSL(%v) = %v", p, err)
			}
			if !strings.Contains(vert, "void main()") || !strings.Contains(frag, "void main()") {
				t.Errorf("GLSL for %v missing main()", p)
			}
			if !strings.Contains(vert, "gl_Position") {
				t.Errorf("GLSL vertex for %v never writes gl_Position", p)
			}
			if !strings.Contains(frag, "gl_FragColor") {
				t.Errorf("GLSL fragment for %v never writes gl_FragColor", p)
			}
		})
	}
}

func TestUnknownPass(t *testing.T) {
	bad := Pass(99)
	if _, err := WGSL(bad); !errors.Is(err, ErrUnknownPass) {
		t.Errorf("WGSL(99) error = %v, want ErrUnknownPass", err)
	}
	if _, _, err := GLSL(bad); !errors.Is(err, ErrUnknownPass) {
		t.Errorf("GLSL(99) error = %v, want ErrUnknownPass", err)
	}
	if _, err := Attributes(bad); !errors.Is(err, ErrUnknownPass) {
		t.Errorf("Attributes(99) error = %v, want ErrUnknownPass", err)
	}
	if _, err := Uniforms(bad); !errors.Is(err, ErrUnknownPass) {
		t.Errorf("Uniforms(99) error = %v, want ErrUnknownPass", err)
	}
}

func TestPassOrder(t *testing.T) {
	// The frame order is fixed: sovereignty discs, jumps, markers,
	// UI quads, text, back to front.
	want := []Pass{MarkersPlain, Jumps, Markers, Quads, Text}
	if len(Passes) != len(want) {
		t.Fatalf("Passes has %d entries, want %d", len(Passes), len(want))
	}
	for i, p := range want {
		if Passes[i] != p {
			t.Errorf("Passes[%d] = %v, want %v", i, Passes[i], p)
		}
	}
}

func TestMarkerPassesShareAttributeSchema(t *testing.T) {
	// Both marker passes draw the same packed instance buffer over the
	// same unit-circle fan, so their attribute schemas must be identical.
	a, err := Attributes(Markers)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Attributes(MarkersPlain)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Fatalf("schema lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("attribute %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestAttributeSlotsDenseAndUnique(t *testing.T) {
	for _, p := range Passes {
		t.Run(p.String(), func(t *testing.T) {
			attrs, err := Attributes(p)
			if err != nil {
				t.Fatal(err)
			}
			seen := make(map[uint32]string)
			for i, a := range attrs {
				if a.Slot != uint32(i) {
					t.Errorf("attribute %q at index %d has slot %d", a.Name, i, a.Slot)
				}
				if prev, dup := seen[a.Slot]; dup {
					t.Errorf("slot %d used by both %q and %q", a.Slot, prev, a.Name)
				}
				seen[a.Slot] = a.Name
				if a.Components < 1 || a.Components > 4 {
					t.Errorf("attribute %q has %d components", a.Name, a.Components)
				}
			}
		})
	}
}

func TestSharedConstantsInSources(t *testing.T) {
	// The numeric constants shared by both dialects must appear
	// verbatim in the embedded sources so the Go-side values and the
	// shader values cannot drift apart.
	tests := []struct {
		name    string
		sources []string
		literal string
	}{
		{"marker unit", []string{"markers.wgsl", "markers.vert.glsl", "markers_plain.wgsl", "markers_plain.vert.glsl"}, "MARKER_UNIT"},
		{"jump width", []string{"jumps.wgsl", "jumps.vert.glsl"}, "0.02"},
		{"distance guard", []string{"markers.wgsl", "markers.frag.glsl"}, "0.0001"},
		{"jump alpha cap", []string{"jumps.wgsl", "jumps.frag.glsl"}, "0.8"},
		{"jump fade start", []string{"jumps.wgsl", "jumps.frag.glsl"}, "smoothstep(0.4, 1.0"},
	}

	lookup := func(file string) string {
		var src string
		switch file {
		case "markers.wgsl":
			src = markersWGSL
		case "markers_plain.wgsl":
			src = markersPlainWGSL
		case "jumps.wgsl":
			src = jumpsWGSL
		case "markers.vert.glsl":
			src = markersVertGLSL
		case "markers.frag.glsl":
			src = markersFragGLSL
		case "markers_plain.vert.glsl":
			src = markersPlainVertGLSL
		case "jumps.vert.glsl":
			src = jumpsVertGLSL
		case "jumps.frag.glsl":
			src = jumpsFragGLSL
		}
		return src
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, file := range tt.sources {
				src := lookup(file)
				if src == "" {
					t.Fatalf("no source registered for %s", file)
				}
				if !strings.Contains(src, tt.literal) {
					t.Errorf("%s missing literal %q", file, tt.literal)
				}
			}
		})
	}

	// MarkerUnit itself: both dialects must carry the same value.
	unit := "0.005"
	for _, src := range []string{markersWGSL, markersVertGLSL, markersPlainWGSL, markersPlainVertGLSL} {
		if !strings.Contains(src, unit) {
			t.Errorf("marker source missing MARKER_UNIT literal %q", unit)
		}
	}
}

func TestPassFlags(t *testing.T) {
	tests := []struct {
		pass      Pass
		instanced bool
		depth     bool
	}{
		{Markers, true, false},
		{MarkersPlain, true, false},
		{Jumps, false, true},
		{Quads, false, false},
		{Text, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.pass.String(), func(t *testing.T) {
			if got := Instanced(tt.pass); got != tt.instanced {
				t.Errorf("Instanced(%v) = %v, want %v", tt.pass, got, tt.instanced)
			}
			if got := DepthTested(tt.pass); got != tt.depth {
				t.Errorf("DepthTested(%v) = %v, want %v", tt.pass, got, tt.depth)
			}
		})
	}
}

func TestUniformSchemaStability(t *testing.T) {
	// The uniform names are part of the cross-backend contract: one
	// host-side binding path serves both dialects, keyed by these names.
	want := map[Pass][]string{
		Markers:      {"map_view_matrix", "map_scale_matrix", "zoom", "style"},
		MarkersPlain: {"map_view_matrix", "map_scale_matrix", "zoom"},
		Jumps:        {"map_view_matrix", "map_scale_matrix", "zoom"},
		Quads:        {"window_size", "textured", "color", "texture_atlas"},
		Text:         {"window_size", "font_atlas"},
	}
	for p, names := range want {
		us, err := Uniforms(p)
		if err != nil {
			t.Fatal(err)
		}
		if len(us) != len(names) {
			t.Errorf("pass %v: %d uniforms, want %d", p, len(us), len(names))
			continue
		}
		for i, n := range names {
			if us[i].Name != n {
				t.Errorf("pass %v uniform %d = %q, want %q", p, i, us[i].Name, n)
			}
		}
	}
}
