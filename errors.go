package guigl

import (
	"errors"
	"fmt"
)

var (
	// ErrTextureAllocation is returned when the device cannot allocate or
	// write a texture. The frame is left visually incorrect, so it is fatal
	// for the operation.
	ErrTextureAllocation = errors.New("guigl: texture allocation failed")

	// ErrTextureTooLarge is returned when a texture side exceeds the
	// painter's maximum texture side.
	ErrTextureTooLarge = errors.New("guigl: texture exceeds max texture side")

	// ErrUnknownTexture is returned when a delta patches or frees a texture
	// id the painter does not know.
	ErrUnknownTexture = errors.New("guigl: unknown texture id")

	// ErrWrongNamespace is returned when a managed operation targets a
	// native id or the other way around.
	ErrWrongNamespace = errors.New("guigl: texture id in wrong namespace")

	// ErrPatchOutOfBounds is returned when a partial update does not fit in
	// the existing texture.
	ErrPatchOutOfBounds = errors.New("guigl: texture patch out of bounds")

	// ErrInvalidImage is returned for images whose pixel count does not
	// match their size.
	ErrInvalidImage = errors.New("guigl: invalid image")

	// ErrDeviceLost is returned by backends when the GPU context is gone.
	ErrDeviceLost = errors.New("guigl: device lost")

	// ErrNoDevice is returned when a Painter is built without a device.
	ErrNoDevice = errors.New("guigl: no device")
)

// TextureError records a failed texture operation.
type TextureError struct {
	Op  string
	ID  TextureID
	Err error
}

func (e *TextureError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.ID, e.Err)
}

func (e *TextureError) Unwrap() error { return e.Err }

func textureErr(op string, id TextureID, err error) error {
	return &TextureError{Op: op, ID: id, Err: err}
}
