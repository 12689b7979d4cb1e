package shader

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrVariantMismatch is returned by Validate when a pass's desktop and
// web sources disagree on the shared contract.
var ErrVariantMismatch = errors.New("shader: variant mismatch")

// decodeExponents are the in-shader gamma decode spellings. They must
// appear in every desktop fragment and in no web fragment: the web
// output path applies the transfer curve itself, and decoding twice
// shifts brightness visibly between backends.
var decodeExponents = map[Pass]string{
	Markers:      "1.0 / 2.0",
	MarkersPlain: "1.0 / 2.0",
	Jumps:        "1.0 / 2.0",
	Quads:        "1.0 / 2.2",
	Text:         "1.0 / 2.2",
}

// Validate checks every pass in the catalog for lockstep between its
// desktop and web variants: both declare every schema attribute at its
// slot, both reference every schema uniform by name, and the gamma
// decode appears exactly where the variant's output path requires it.
// Backends call this once at init, before compiling anything.
func Validate() error {
	for _, p := range Passes {
		if err := validatePass(p); err != nil {
			return err
		}
	}
	return nil
}

func validatePass(p Pass) error {
	wgsl, err := WGSL(p)
	if err != nil {
		return err
	}
	vert, frag, err := GLSL(p)
	if err != nil {
		return err
	}
	glsl := vert + "\n" + frag

	attrs, err := Attributes(p)
	if err != nil {
		return err
	}
	for _, a := range attrs {
		loc := fmt.Sprintf("@location(%d) %s:", a.Slot, a.Name)
		if !strings.Contains(wgsl, loc) {
			return fmt.Errorf("%w: pass %v: desktop source missing vertex input %q at slot %d",
				ErrVariantMismatch, p, a.Name, a.Slot)
		}
		if !declaresAttribute(glsl, a.Name) {
			return fmt.Errorf("%w: pass %v: web source missing attribute %q",
				ErrVariantMismatch, p, a.Name)
		}
	}

	uniforms, err := Uniforms(p)
	if err != nil {
		return err
	}
	for _, u := range uniforms {
		if !declaresWGSLUniform(wgsl, u) {
			return fmt.Errorf("%w: pass %v: desktop source missing uniform %q",
				ErrVariantMismatch, p, u.Name)
		}
		if !declaresGLSLUniform(glsl, u.Name) {
			return fmt.Errorf("%w: pass %v: web source missing uniform %q",
				ErrVariantMismatch, p, u.Name)
		}
	}

	decode := decodeExponents[p]
	if !strings.Contains(wgsl, decode) {
		return fmt.Errorf("%w: pass %v: desktop fragment missing gamma decode pow(x, %s)",
			ErrVariantMismatch, p, decode)
	}
	for _, exp := range []string{"1.0 / 2.0", "1.0 / 2.2"} {
		if strings.Contains(glsl, exp) {
			return fmt.Errorf("%w: pass %v: web source must not gamma-decode (found %q)",
				ErrVariantMismatch, p, exp)
		}
	}

	return nil
}

// declaresAttribute reports whether the combined GLSL source declares
// `attribute <type> name;`.
func declaresAttribute(glsl, name string) bool {
	re := regexp.MustCompile(`(?m)^attribute\s+\w+\s+` + regexp.QuoteMeta(name) + `\s*;`)
	return re.MatchString(glsl)
}

// declaresGLSLUniform reports whether the combined GLSL source declares
// `uniform <type> name;`.
func declaresGLSLUniform(glsl, name string) bool {
	re := regexp.MustCompile(`(?m)^uniform\s+\w+\s+` + regexp.QuoteMeta(name) + `\s*;`)
	return re.MatchString(glsl)
}

// declaresWGSLUniform reports whether the WGSL module declares the
// uniform: a struct member `name: type,` for plain uniforms, or a
// module-scope `var name: texture_2d<f32>` for texture bindings.
func declaresWGSLUniform(wgsl string, u Uniform) bool {
	if u.Sampler {
		re := regexp.MustCompile(`var\s+` + regexp.QuoteMeta(u.Name) + `\s*:\s*texture_2d<f32>`)
		return re.MatchString(wgsl)
	}
	re := regexp.MustCompile(`(?m)^\s+` + regexp.QuoteMeta(u.Name) + `\s*:\s*(mat3x3<f32>|vec2<f32>|vec4<f32>|f32)\s*,`)
	return re.MatchString(wgsl)
}
