package artwork

import (
	"image"

	"golang.org/x/image/draw"
)

// Resize normalizes img for kind. Grid, wide grid and hero are scaled to
// cover the target box and center-cropped; icons are scaled to fit and
// padded with transparency; logos are returned unchanged.
func Resize(img image.Image, kind Kind) image.Image {
	width, height, ok := kind.Size()
	if !ok || img == nil {
		return img
	}
	if kind == KindIcon {
		return fitWithin(img, width, height)
	}
	return cropToFill(img, width, height)
}

func cropToFill(src image.Image, width, height int) image.Image {
	bounds := src.Bounds()
	sw, sh := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if sw == 0 || sh == 0 {
		return dst
	}

	// Largest source window with the target aspect ratio.
	cw, ch := sw, sh
	if sw*height > sh*width {
		cw = max(1, sh*width/height)
	} else {
		ch = max(1, sw*height/width)
	}
	x0 := bounds.Min.X + (sw-cw)/2
	y0 := bounds.Min.Y + (sh-ch)/2
	crop := image.Rect(x0, y0, x0+cw, y0+ch)

	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)
	return dst
}

func fitWithin(src image.Image, width, height int) image.Image {
	bounds := src.Bounds()
	sw, sh := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if sw == 0 || sh == 0 {
		return dst
	}

	tw, th := width, height
	if sw*height > sh*width {
		th = max(1, sh*width/sw)
	} else {
		tw = max(1, sw*height/sh)
	}
	x0 := (width - tw) / 2
	y0 := (height - th) / 2
	target := image.Rect(x0, y0, x0+tw, y0+th)

	draw.CatmullRom.Scale(dst, target, src, bounds, draw.Over, nil)
	return dst
}
