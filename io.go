package toonify

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Load decodes the file at path into an RGB raster.
// Any failure wraps ErrImageLoad.
func Load(path string) (*Raster, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, stageErr(ErrImageLoad, "load", err)
	}
	defer func() { _ = f.Close() }()

	r, err := Decode(f)
	if err != nil {
		return nil, stageErr(ErrImageLoad, "load", fmt.Errorf("%s: %w", path, err))
	}
	return r, nil
}

// Decode reads any registered image format (JPEG, PNG, GIF, WebP, BMP, TIFF).
func Decode(r io.Reader) (*Raster, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	out := FromImage(img)
	if out.Empty() {
		return nil, errors.New("decoded image has no pixels")
	}
	return out, nil
}

func (c Compression) level() png.CompressionLevel {
	switch c {
	case CompressionNone:
		return png.NoCompression
	case CompressionSpeed:
		return png.BestSpeed
	case CompressionBest:
		return png.BestCompression
	default:
		return png.DefaultCompression
	}
}

// Write encodes r as PNG at path. The file is written to a temporary name in
// the destination directory and renamed into place, so a failed write never
// leaves a partial file behind. Any failure wraps ErrImageWrite.
func Write(r *Raster, path string, compression Compression) (err error) {
	if r.Empty() {
		return stageErrf(ErrImageWrite, "write", "empty raster")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return stageErr(ErrImageWrite, "write", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return stageErr(ErrImageWrite, "write", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	enc := png.Encoder{CompressionLevel: compression.level()}
	if err := enc.Encode(tmp, r.Image()); err != nil {
		return stageErr(ErrImageWrite, "write", fmt.Errorf("encode: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return stageErr(ErrImageWrite, "write", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return stageErr(ErrImageWrite, "write", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return stageErr(ErrImageWrite, "write", err)
	}
	return nil
}

// CopyFile copies src to dst, creating dst's directory if needed. The copy
// is written to a temporary name and renamed into place. Copying a file onto
// itself is a no-op.
func CopyFile(src, dst string) (err error) {
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return stageErr(ErrImageWrite, "copy source", err)
	}
	defer func() { _ = in.Close() }()

	srcInfo, err := in.Stat()
	if err != nil {
		return stageErr(ErrImageWrite, "copy source", err)
	}
	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(srcInfo, dstInfo) {
		return nil
	}

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return stageErr(ErrImageWrite, "copy source", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return stageErr(ErrImageWrite, "copy source", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := io.Copy(tmp, in); err != nil {
		return stageErr(ErrImageWrite, "copy source", err)
	}
	if err := tmp.Close(); err != nil {
		return stageErr(ErrImageWrite, "copy source", err)
	}
	if err := os.Chmod(tmp.Name(), srcInfo.Mode().Perm()); err != nil {
		return stageErr(ErrImageWrite, "copy source", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return stageErr(ErrImageWrite, "copy source", err)
	}
	return nil
}
