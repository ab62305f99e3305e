package sdlhost

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unsafe"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"github.com/veandco/go-sdl2/img"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/anim"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/locale"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/naverr"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/router"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/transaction"
)

// TemplateLoader returns a loader for png, jpg and svg layout templates. The
// template is loaded once up front so a broken file fails the navigation; the
// texture is reloaded later if the cache evicted it.
func (h *Host) TemplateLoader() router.TemplateLoader {
	return func(ref, charset string) (transaction.ScreenHandle, error) {
		if _, err := h.template(ref, charset); err != nil {
			return nil, err
		}
		return &Screen{ref: ref, charset: charset, frame: anim.Identity}, nil
	}
}

func (h *Host) template(ref, charset string) (*sdl.Texture, error) {
	key := charset + ":" + ref
	if texture := h.cache.get(key); texture != nil {
		return texture, nil
	}

	texture, err := h.loadTemplate(ref, charset)
	if err != nil {
		return nil, err
	}
	h.cache.set(key, texture)
	h.logger.Debug("Loaded template", "ref", ref)
	return texture, nil
}

func (h *Host) loadTemplate(ref, charset string) (*sdl.Texture, error) {
	const op = "load_template"
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".png", ".jpg", ".jpeg":
		texture, err := img.LoadTexture(h.renderer, ref)
		if err != nil {
			return nil, naverr.New(naverr.KindConfiguration, op, ref, err)
		}
		return texture, nil
	case ".svg":
		texture, err := h.rasterize(ref, charset)
		if err != nil {
			return nil, naverr.New(naverr.KindConfiguration, op, ref, err)
		}
		return texture, nil
	}
	return nil, naverr.Configuration(op, ref, "unsupported template format")
}

// rasterize renders an svg file at the container size.
func (h *Host) rasterize(path, charset string) (*sdl.Texture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data, err := locale.Decode(raw, charset)
	if err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}

	w, hgt := int(h.width), int(h.height)
	icon.SetTarget(0, 0, float64(w), float64(hgt))

	rgba := image.NewRGBA(image.Rect(0, 0, w, hgt))
	scanner := rasterx.NewScannerGV(w, hgt, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, hgt, scanner), 1)

	surface, err := sdl.CreateRGBSurfaceWithFormatFrom(unsafe.Pointer(&rgba.Pix[0]),
		int32(w), int32(hgt), 32, int32(rgba.Stride), sdl.PIXELFORMAT_ABGR8888)
	if err != nil {
		return nil, fmt.Errorf("create surface: %w", err)
	}
	defer surface.Free()

	texture, err := h.renderer.CreateTextureFromSurface(surface)
	runtime.KeepAlive(rgba)
	if err != nil {
		return nil, fmt.Errorf("create texture: %w", err)
	}
	return texture, nil
}
