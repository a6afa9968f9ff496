package datasource

import (
	"github.com/packagewjx/tensorprep/pkg/core"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ImageReader decodes PNG, JPEG, GIF, BMP, TIFF and WebP files into int32
// arrays of shape (height, width, 3) in RGB order, or (height, width) with
// GreyScale.
type ImageReader struct {
	ParentPath string
	GreyScale  bool
}

func (r *ImageReader) Load(identifier string) (*core.Array, error) {
	path := resolvePath(r.ParentPath, identifier)
	file, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "image %s: %v", path, err)
	}
	return ImageToArray(img, r.GreyScale)
}

func ImageToArray(img image.Image, greyScale bool) (*core.Array, error) {
	bounds := img.Bounds()
	height, width := bounds.Dy(), bounds.Dx()
	if height == 0 || width == 0 {
		return nil, errors.Wrapf(ErrDecode, "image has no pixels, bounds %v", bounds)
	}

	if greyScale {
		data := make([]int32, 0, height*width)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
				data = append(data, int32(g.Y))
			}
		}
		return core.NewInt32([]int{height, width}, data)
	}

	data := make([]int32, 0, height*width*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			data = append(data, int32(c.R), int32(c.G), int32(c.B))
		}
	}
	return core.NewInt32([]int{height, width, 3}, data)
}
