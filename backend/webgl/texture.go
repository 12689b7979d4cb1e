//go:build js && wasm

package webgl

import (
	"syscall/js"

	"github.com/gogpu/starmap/internal/atlas"
)

// atlasTexture mirrors one atlas image as a GL texture. The font atlas
// uploads as ALPHA so the text shader reads coverage from .a; the UI
// atlas uploads as RGBA.
type atlasTexture struct {
	tex    js.Value
	format atlas.Format
	width  int
	height int
}

func newAtlasTexture(gl js.Value, c glConsts, format atlas.Format) *atlasTexture {
	at := &atlasTexture{tex: gl.Call("createTexture"), format: format}
	gl.Call("bindTexture", c.texture2D, at.tex)
	gl.Call("texParameteri", c.texture2D, c.textureMinFilter, c.linear)
	gl.Call("texParameteri", c.texture2D, c.textureMagFilter, c.linear)
	gl.Call("texParameteri", c.texture2D, c.textureWrapS, c.clampToEdge)
	gl.Call("texParameteri", c.texture2D, c.textureWrapT, c.clampToEdge)
	// A 1x1 placeholder keeps the sampler valid before the first atlas
	// upload.
	gl.Call("texImage2D", c.texture2D, 0, at.glFormat(c), 1, 1, 0, at.glFormat(c), c.unsignedByte, jsBytes(make([]byte, format.BytesPerPixel())))
	at.width, at.height = 1, 1
	return at
}

func (at *atlasTexture) glFormat(c glConsts) int {
	if at.format == atlas.FormatRGBA {
		return c.rgba
	}
	return c.alpha
}

// update uploads img's dirty region, reallocating the texture when the
// atlas size changed.
func (at *atlasTexture) update(gl js.Value, c glConsts, img *atlas.Image) {
	gl.Call("bindTexture", c.texture2D, at.tex)

	if at.width != img.Width() || at.height != img.Height() {
		at.width, at.height = img.Width(), img.Height()
		gl.Call("texImage2D", c.texture2D, 0, at.glFormat(c),
			at.width, at.height, 0, at.glFormat(c), c.unsignedByte, jsBytes(img.Pixels()))
		img.TakeDirty()
		return
	}

	r, dirty := img.TakeDirty()
	if !dirty {
		return
	}
	bpp := img.Format().BytesPerPixel()
	rowBytes := r.Width * bpp
	tight := make([]byte, rowBytes*r.Height)
	pixels := img.Pixels()
	for row := 0; row < r.Height; row++ {
		src := ((r.Y+row)*img.Width() + r.X) * bpp
		copy(tight[row*rowBytes:(row+1)*rowBytes], pixels[src:src+rowBytes])
	}
	gl.Call("texSubImage2D", c.texture2D, 0, r.X, r.Y, r.Width, r.Height,
		at.glFormat(c), c.unsignedByte, jsBytes(tight))
}

func (at *atlasTexture) destroy(gl js.Value) {
	if at.tex.Truthy() {
		gl.Call("deleteTexture", at.tex)
	}
}
